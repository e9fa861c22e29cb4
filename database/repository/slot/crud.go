// File: database/repository/slot/crud.go
package slotRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"pawpack/models"
)

func (r *mongoSlotRepo) Create(ctx context.Context, slot models.GroupWalkSlot) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	slot.CreatedAt, slot.UpdatedAt = now, now
	if slot.Members == nil {
		slot.Members = []models.SlotMember{}
	}

	if _, err := r.coll.InsertOne(ctx, slot); err != nil {
		return "", fmt.Errorf("failed to insert group walk slot: %w", err)
	}
	return slot.ID, nil
}

func (r *mongoSlotRepo) GetByID(ctx context.Context, slotID string) (*models.GroupWalkSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var slot models.GroupWalkSlot
	err := r.coll.FindOne(ctx, bson.M{"id": slotID}).Decode(&slot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch group walk slot %s: %w", slotID, err)
	}
	return &slot, nil
}

// SaveMembership writes the membership fields of slot only if the stored
// version still equals expectedVersion, and bumps the version.
func (r *mongoSlotRepo) SaveMembership(ctx context.Context, slot models.GroupWalkSlot, expectedVersion int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":      slot.ID,
		"version": expectedVersion,
	}
	update := bson.M{
		"$set": bson.M{
			"members":         slot.Members,
			"center":          slot.Center,
			"radiusMeters":    slot.RadiusMeters,
			"currentDogCount": slot.CurrentDogCount,
			"status":          slot.Status,
			"updatedAt":       time.Now().UTC(),
		},
		"$inc": bson.M{"version": 1},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to save slot membership: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.missOrConflict(ctx, slot.ID)
	}
	return nil
}

func (r *mongoSlotRepo) UpdateStatus(ctx context.Context, slotID string, from, to models.SlotStatus, expectedVersion int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":      slotID,
		"status":  from,
		"version": expectedVersion,
	}
	update := bson.M{
		"$set": bson.M{"status": to, "updatedAt": time.Now().UTC()},
		"$inc": bson.M{"version": 1},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update slot status: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.missOrConflict(ctx, slotID)
	}
	return nil
}

// missOrConflict tells a deleted slot apart from a stale version.
func (r *mongoSlotRepo) missOrConflict(ctx context.Context, slotID string) error {
	n, err := r.coll.CountDocuments(ctx, bson.M{"id": slotID})
	if err != nil {
		return fmt.Errorf("failed to check slot %s: %w", slotID, err)
	}
	if n == 0 {
		return ErrSlotNotFound
	}
	return ErrVersionConflict
}
