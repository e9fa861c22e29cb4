package formation

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"pawpack/models"
)

type mockCandidates struct {
	mock.Mock
}

func (m *mockCandidates) ListPending(ctx context.Context, from, to time.Time) ([]models.BookingCandidate, error) {
	args := m.Called(ctx, from, to)
	pool, _ := args.Get(0).([]models.BookingCandidate)
	return pool, args.Error(1)
}

func (m *mockCandidates) GetDogs(ctx context.Context, ids []string) (map[string]models.Dog, error) {
	args := m.Called(ctx, ids)
	dogs, _ := args.Get(0).(map[string]models.Dog)
	return dogs, args.Error(1)
}

func (m *mockCandidates) MarkGrouped(ctx context.Context, ids []string, slotID string) (int64, error) {
	args := m.Called(ctx, ids, slotID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCandidates) ReleaseGrouped(ctx context.Context, ids []string, slotID string) (int64, error) {
	args := m.Called(ctx, ids, slotID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCandidates) EnsureIndexes() error {
	return m.Called().Error(0)
}

type mockSlotCreator struct {
	mock.Mock
}

func (m *mockSlotCreator) CreateFromSuggestion(ctx context.Context, slotID string, sg models.GroupSuggestion, walkerID string, capacity int) (*models.GroupWalkSlot, error) {
	args := m.Called(ctx, slotID, sg, walkerID, capacity)
	slot, _ := args.Get(0).(*models.GroupWalkSlot)
	return slot, args.Error(1)
}

// memoryCache stores the report in process.
type memoryCache struct {
	mu     sync.Mutex
	report *models.FormationReport
	stores int
}

func (c *memoryCache) Store(_ context.Context, report models.FormationReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := report
	cp.Suggestions = append([]models.GroupSuggestion(nil), report.Suggestions...)
	c.report = &cp
	c.stores++
	return nil
}

func (c *memoryCache) Load(context.Context) (*models.FormationReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.report == nil {
		return nil, ErrNoReport
	}
	cp := *c.report
	cp.Suggestions = append([]models.GroupSuggestion(nil), c.report.Suggestions...)
	return &cp, nil
}
