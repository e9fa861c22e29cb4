package formation

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	candidateRepo "pawpack/database/repository/candidate"
	"pawpack/models"
	"pawpack/services/grouping"
)

var (
	ErrSuggestionNotFound = errors.New("group suggestion not found")
	ErrNoReport           = errors.New("no formation report available")
	ErrSuggestionStale    = errors.New("group suggestion is stale")
)

// SlotCreator persists an accepted suggestion as a group walk slot.
type SlotCreator interface {
	CreateFromSuggestion(ctx context.Context, slotID string, sg models.GroupSuggestion, walkerID string, capacity int) (*models.GroupWalkSlot, error)
}

// SuggestionCache holds the report of the latest formation pass.
type SuggestionCache interface {
	Store(ctx context.Context, report models.FormationReport) error
	Load(ctx context.Context) (*models.FormationReport, error)
}

// FormationService runs formation passes and lets operators act on the result.
type FormationService interface {
	RunPass(ctx context.Context, now time.Time) (*models.FormationReport, error)
	Latest(ctx context.Context) (*models.FormationReport, error)
	Suggestion(ctx context.Context, id string) (*models.GroupSuggestion, error)
	Accept(ctx context.Context, id, walkerID string, capacity int) (*models.GroupWalkSlot, error)
}

// Runner is the production FormationService.
type Runner struct {
	Engine     grouping.Former
	Candidates candidateRepo.CandidateRepository
	Slots      SlotCreator
	Cache      SuggestionCache
	Logger     *zap.Logger

	Horizon      time.Duration // how far ahead pending bookings are considered
	PassTimeout  time.Duration // zero disables the deadline
	RegionPrefix int           // postal code characters forming a region; 0 means one region

	// mu orders cache rewrites between passes and accepts.
	mu sync.Mutex
}
