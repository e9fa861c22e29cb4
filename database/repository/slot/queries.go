// File: database/repository/slot/queries.go
package slotRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pawpack/models"
)

// ListJoinable returns OPEN and FULL slots on date ordered by start time.
func (r *mongoSlotRepo) ListJoinable(ctx context.Context, date string) ([]models.GroupWalkSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"date":   date,
		"status": bson.M{"$in": []models.SlotStatus{models.SlotOpen, models.SlotFull}},
	}
	opts := options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}, {Key: "id", Value: 1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch joinable slots: %w", err)
	}
	defer cursor.Close(ctx)

	slots := []models.GroupWalkSlot{}
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding slots: %w", err)
	}
	return slots, nil
}
