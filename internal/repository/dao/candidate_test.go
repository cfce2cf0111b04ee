package dao

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateDAO_Marks(t *testing.T) {
	db := newTestDB(t)
	d := NewCandidateDAO(db)
	ctx := context.Background()

	_, err := d.InsertMark(ctx, CandidateMark{CandidateID: 1, MarkerID: 10})
	require.NoError(t, err)

	_, err = d.InsertMark(ctx, CandidateMark{CandidateID: 1, MarkerID: 10})
	assert.ErrorIs(t, err, ErrMarkExists)

	// A different marker on the same candidate is a separate mark.
	_, err = d.InsertMark(ctx, CandidateMark{CandidateID: 1, MarkerID: 11})
	require.NoError(t, err)

	count, err := d.CountMarks(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	removed, err := d.DeleteMark(ctx, 1, 10)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = d.DeleteMark(ctx, 1, 10)
	require.NoError(t, err)
	assert.False(t, removed)

	marks, err := d.FindMarksByMarker(ctx, 11)
	require.NoError(t, err)
	require.Len(t, marks, 1)
	assert.Equal(t, int64(1), marks[0].CandidateID)
}

func TestCandidateDAO_Notes(t *testing.T) {
	db := newTestDB(t)
	d := NewCandidateDAO(db)
	ctx := context.Background()

	rating := 4
	note, err := d.InsertNote(ctx, CandidateNote{
		CandidateID: 1,
		AuthorID:    10,
		Text:        "strong Go background",
		Rating:      &rating,
	})
	require.NoError(t, err)
	assert.NotZero(t, note.ID)

	_, err = d.InsertNote(ctx, CandidateNote{CandidateID: 1, AuthorID: 11, Text: "ask about relocation"})
	require.NoError(t, err)

	all, err := d.FindNotes(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byAuthor, err := d.FindNotes(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, "strong Go background", byAuthor[0].Text)
}
