package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dlclark/regexp2"

	"github.com/NiksFok/conf-bot/internal/domain"
)

var ErrInvalidPayload = errors.New("unrecognized scan payload")

// QR payloads are either a bare numeric visitor id or a kind:value tag.
var (
	visitorIDPattern = regexp2.MustCompile(`^\d+$`, regexp2.None)
	taggedPattern    = regexp2.MustCompile(`^(?<kind>[a-z]+):(?<value>[\w-]+)$`, regexp2.None)
)

type ActorResolver interface {
	Resolve(ctx context.Context, userID int64) (domain.User, error)
}

type VisitCreditor interface {
	CreditStandVisit(ctx context.Context, visitorID int64, standID string) (domain.VisitCredit, error)
}

type CandidateMarker interface {
	Mark(ctx context.Context, candidateID, markerID int64) error
}

type MerchCatalog interface {
	GetMerch(ctx context.Context, id string) (domain.MerchItem, error)
}

// ScanService is the single entry point for decoded QR payloads. It resolves
// the actor, parses the payload and dispatches on the actor's role, so the
// conversational layer never touches ledger semantics directly.
type ScanService struct {
	roles      ActorResolver
	points     VisitCreditor
	candidates CandidateMarker
	merch      MerchCatalog
	stands     StandRepository
}

func NewScanService(
	roles ActorResolver,
	points VisitCreditor,
	candidates CandidateMarker,
	merch MerchCatalog,
	stands StandRepository,
) *ScanService {
	return &ScanService{
		roles:      roles,
		points:     points,
		candidates: candidates,
		merch:      merch,
		stands:     stands,
	}
}

func (s *ScanService) HandleScan(ctx context.Context, actorID int64, payload string) (domain.ScanResult, error) {
	actor, err := s.roles.Resolve(ctx, actorID)
	if err != nil {
		return domain.ScanResult{}, fmt.Errorf("s.roles.Resolve -> %w", err)
	}

	if actor.IsBlocked {
		return domain.ScanResult{}, ErrUserBlocked
	}

	if ok, _ := visitorIDPattern.MatchString(payload); ok {
		visitorID, err := strconv.ParseInt(payload, 10, 64)
		if err != nil {
			return domain.ScanResult{}, ErrInvalidPayload
		}

		return s.handleVisitorScan(ctx, actor, visitorID)
	}

	if m, _ := taggedPattern.FindStringMatch(payload); m != nil {
		kind := m.GroupByName("kind").String()
		value := m.GroupByName("value").String()

		if kind == "merch" {
			item, err := s.merch.GetMerch(ctx, value)
			if err != nil {
				return domain.ScanResult{}, fmt.Errorf("s.merch.GetMerch -> %w", err)
			}

			return domain.ScanResult{
				Outcome: domain.ScanMerchInfo,
				Merch:   &item,
			}, nil
		}
	}

	return domain.ScanResult{}, ErrInvalidPayload
}

// handleVisitorScan dispatches a scanned attendee badge on the actor's role:
// stand crews credit a visit, HR marks a candidate, everyone else is denied.
func (s *ScanService) handleVisitorScan(ctx context.Context, actor domain.User, visitorID int64) (domain.ScanResult, error) {
	switch actor.Role {
	case domain.RoleStandist, domain.RoleAdmin:
		stand, err := s.stands.FindByOwner(ctx, actor.ID)
		if err != nil {
			return domain.ScanResult{}, fmt.Errorf("s.stands.FindByOwner -> %w", err)
		}

		credit, err := s.points.CreditStandVisit(ctx, visitorID, stand.ID)
		if err != nil {
			if errors.Is(err, ErrAlreadyVisited) {
				return domain.ScanResult{
					Outcome: domain.ScanAlreadyVisited,
					UserID:  visitorID,
				}, nil
			}

			return domain.ScanResult{}, fmt.Errorf("s.points.CreditStandVisit -> %w", err)
		}

		return domain.ScanResult{
			Outcome: domain.ScanVisitCredited,
			Visit:   &credit,
			UserID:  visitorID,
		}, nil

	case domain.RoleHR:
		if err := s.candidates.Mark(ctx, visitorID, actor.ID); err != nil {
			return domain.ScanResult{}, fmt.Errorf("s.candidates.Mark -> %w", err)
		}

		return domain.ScanResult{
			Outcome: domain.ScanCandidateMarked,
			UserID:  visitorID,
		}, nil

	default:
		return domain.ScanResult{}, ErrPermissionDenied
	}
}
