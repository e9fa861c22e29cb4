package slots

import (
	"context"

	"go.uber.org/zap"

	slotRepo "pawpack/database/repository/slot"
	"pawpack/models"
	"pawpack/services/grouping"
)

// SlotService is the host side of group walk slots: search, membership
// changes under optimistic concurrency, creation from accepted suggestions
// and the walker status workflow.
type SlotService interface {
	Search(ctx context.Context, req SearchRequest) ([]models.RankedSlot, error)
	GetSlot(ctx context.Context, slotID string) (*models.GroupWalkSlot, error)
	Join(ctx context.Context, slotID string, req models.JoinRequest) (*models.GroupWalkSlot, error)
	Leave(ctx context.Context, slotID, bookingID string) (*models.GroupWalkSlot, error)
	CreateFromSuggestion(ctx context.Context, slotID string, sg models.GroupSuggestion, walkerID string, capacity int) (*models.GroupWalkSlot, error)
	Transition(ctx context.Context, slotID string, to models.SlotStatus) (*models.GroupWalkSlot, error)
}

// SearchRequest asks for slots a customer's dogs could join on one day.
type SearchRequest struct {
	Location models.Coordinate `json:"location"`
	DogIDs   []string          `json:"dogIds" binding:"required"`
	Date     string            `json:"date" binding:"required"` // e.g., "2025-02-25"
}

// BookingStore is the booking side of membership: the dog directory and the
// pending/grouped status of each booking.
type BookingStore interface {
	GetDogs(ctx context.Context, ids []string) (map[string]models.Dog, error)
	MarkGrouped(ctx context.Context, ids []string, slotID string) (int64, error)
	ReleaseGrouped(ctx context.Context, ids []string, slotID string) (int64, error)
}

// DefaultSlotService is the production implementation.
type DefaultSlotService struct {
	Repo     slotRepo.SlotRepository
	Bookings BookingStore
	Manager  *grouping.MembershipManager
	Searcher *grouping.SlotSearcher
	Logger   *zap.Logger

	MaxRetries      int  // re-reads after a version conflict
	CancelEmpty     bool // cancel a slot when its last member leaves
	DefaultCapacity int  // used when a suggestion is accepted without a capacity
}

// NewSlotService wires a DefaultSlotService around one engine configuration.
func NewSlotService(repo slotRepo.SlotRepository, bookings BookingStore, cfg grouping.Config, logger *zap.Logger, maxRetries int, cancelEmpty bool) *DefaultSlotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultSlotService{
		Repo:            repo,
		Bookings:        bookings,
		Manager:         grouping.NewMembershipManager(cfg),
		Searcher:        grouping.NewSlotSearcher(cfg),
		Logger:          logger,
		MaxRetries:      maxRetries,
		CancelEmpty:     cancelEmpty,
		DefaultCapacity: cfg.MaxDogsPerGroup,
	}
}
