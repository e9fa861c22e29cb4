// FILE: database/repository/candidate/indexes.go
package candidateRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes on booking_candidates and dogs.
func (r *mongoCandidateRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	candidateIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Formation pass: pending candidates inside the horizon.
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "desiredStart", Value: 1}},
			Options: options.Index().SetName("status_start_idx"),
		},
	}
	if _, err := r.candidates.Indexes().CreateMany(ctx, candidateIndexes); err != nil {
		return fmt.Errorf("failed to create candidate indexes: %w", err)
	}

	_, err := r.dogs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_id"),
	})
	if err != nil {
		return fmt.Errorf("failed to create dog indexes: %w", err)
	}
	return nil
}
