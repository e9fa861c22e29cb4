// File: database/repository/candidate/queries.go
package candidateRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pawpack/models"
)

// ListPending returns pending candidates whose desired start lies in [from, to).
func (r *mongoCandidateRepo) ListPending(ctx context.Context, from, to time.Time) ([]models.BookingCandidate, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"status":       models.CandidateStatusPending,
		"desiredStart": bson.M{"$gte": from, "$lt": to},
	}
	opts := options.Find().SetSort(bson.D{{Key: "desiredStart", Value: 1}, {Key: "id", Value: 1}})

	cursor, err := r.candidates.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending candidates: %w", err)
	}
	defer cursor.Close(ctx)

	pool := []models.BookingCandidate{}
	if err := cursor.All(ctx, &pool); err != nil {
		return nil, fmt.Errorf("error decoding candidates: %w", err)
	}
	return pool, nil
}

// GetDogs loads the dogs with the given ids keyed by id. Unknown ids are
// simply absent from the result.
func (r *mongoCandidateRepo) GetDogs(ctx context.Context, ids []string) (map[string]models.Dog, error) {
	out := make(map[string]models.Dog, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.dogs.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dogs: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var d models.Dog
		if err := cursor.Decode(&d); err != nil {
			return nil, fmt.Errorf("error decoding dog: %w", err)
		}
		out[d.ID] = d
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("dog cursor failed: %w", err)
	}
	return out, nil
}

// MarkGrouped attaches the still-pending candidates among ids to slotID and
// returns how many were updated.
func (r *mongoCandidateRepo) MarkGrouped(ctx context.Context, ids []string, slotID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":     bson.M{"$in": ids},
		"status": models.CandidateStatusPending,
	}
	update := bson.M{
		"$set": bson.M{
			"status": models.CandidateStatusGrouped,
			"slotId": slotID,
		},
	}

	res, err := r.candidates.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to mark candidates grouped: %w", err)
	}
	return res.ModifiedCount, nil
}

// ReleaseGrouped returns candidates among ids that are grouped into slotID to
// the pending pool. Candidates held by another slot are left alone.
func (r *mongoCandidateRepo) ReleaseGrouped(ctx context.Context, ids []string, slotID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":     bson.M{"$in": ids},
		"status": models.CandidateStatusGrouped,
		"slotId": slotID,
	}
	update := bson.M{
		"$set":   bson.M{"status": models.CandidateStatusPending},
		"$unset": bson.M{"slotId": ""},
	}

	res, err := r.candidates.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to release grouped candidates: %w", err)
	}
	return res.ModifiedCount, nil
}
