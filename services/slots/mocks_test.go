package slots

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pawpack/models"
)

type mockSlotRepo struct {
	mock.Mock
}

func (m *mockSlotRepo) Create(ctx context.Context, slot models.GroupWalkSlot) (string, error) {
	args := m.Called(ctx, slot)
	return args.String(0), args.Error(1)
}

func (m *mockSlotRepo) GetByID(ctx context.Context, slotID string) (*models.GroupWalkSlot, error) {
	args := m.Called(ctx, slotID)
	if s, ok := args.Get(0).(models.GroupWalkSlot); ok {
		return &s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSlotRepo) ListJoinable(ctx context.Context, date string) ([]models.GroupWalkSlot, error) {
	args := m.Called(ctx, date)
	slots, _ := args.Get(0).([]models.GroupWalkSlot)
	return slots, args.Error(1)
}

func (m *mockSlotRepo) SaveMembership(ctx context.Context, slot models.GroupWalkSlot, expectedVersion int) error {
	return m.Called(ctx, slot, expectedVersion).Error(0)
}

func (m *mockSlotRepo) UpdateStatus(ctx context.Context, slotID string, from, to models.SlotStatus, expectedVersion int) error {
	return m.Called(ctx, slotID, from, to, expectedVersion).Error(0)
}

func (m *mockSlotRepo) EnsureIndexes() error {
	return m.Called().Error(0)
}

type mockBookings struct {
	mock.Mock
}

func (m *mockBookings) GetDogs(ctx context.Context, ids []string) (map[string]models.Dog, error) {
	args := m.Called(ctx, ids)
	dogs, _ := args.Get(0).(map[string]models.Dog)
	return dogs, args.Error(1)
}

func (m *mockBookings) MarkGrouped(ctx context.Context, ids []string, slotID string) (int64, error) {
	args := m.Called(ctx, ids, slotID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBookings) ReleaseGrouped(ctx context.Context, ids []string, slotID string) (int64, error) {
	args := m.Called(ctx, ids, slotID)
	return args.Get(0).(int64), args.Error(1)
}

// directory returns a bookings mock that knows dogs and holds every booking
// as pending.
func directory(dogs ...models.Dog) *mockBookings {
	known := make(map[string]models.Dog, len(dogs))
	for _, d := range dogs {
		known[d.ID] = d
	}
	b := new(mockBookings)
	b.On("GetDogs", mock.Anything, mock.Anything).Return(known, nil).Maybe()
	b.On("MarkGrouped", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil).Maybe()
	b.On("ReleaseGrouped", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil).Maybe()
	return b
}
