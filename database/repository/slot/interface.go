// File: database/repository/slot/interface.go
package slotRepo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"pawpack/database"
	"pawpack/models"
)

var (
	ErrSlotNotFound    = errors.New("group walk slot not found")
	ErrVersionConflict = errors.New("group walk slot was modified concurrently")
)

type SlotRepository interface {
	Create(ctx context.Context, slot models.GroupWalkSlot) (string, error)
	GetByID(ctx context.Context, slotID string) (*models.GroupWalkSlot, error)
	ListJoinable(ctx context.Context, date string) ([]models.GroupWalkSlot, error)
	SaveMembership(ctx context.Context, slot models.GroupWalkSlot, expectedVersion int) error
	UpdateStatus(ctx context.Context, slotID string, from, to models.SlotStatus, expectedVersion int) error
	EnsureIndexes() error
}

type mongoSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoSlotRepo constructs a new MongoDB SlotRepository.
func NewMongoSlotRepo() SlotRepository {
	return &mongoSlotRepo{
		coll: database.DB().Collection("group_walk_slots"),
	}
}
