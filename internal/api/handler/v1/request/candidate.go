package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type AddNoteRequest struct {
	Text   string `json:"text"`
	Rating *int   `json:"rating"`
}

func (req *AddNoteRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Text, validation.Required, validation.Length(1, 1000)),
		validation.Field(&req.Rating, validation.Min(1), validation.Max(5)),
	)
}
