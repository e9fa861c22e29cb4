// File: database/repository/candidate/interface.go
package candidateRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"pawpack/database"
	"pawpack/models"
)

// CandidateRepository reads ungrouped bookings and the dog attributes the
// formation pass needs.
type CandidateRepository interface {
	ListPending(ctx context.Context, from, to time.Time) ([]models.BookingCandidate, error)
	GetDogs(ctx context.Context, ids []string) (map[string]models.Dog, error)
	MarkGrouped(ctx context.Context, ids []string, slotID string) (int64, error)
	ReleaseGrouped(ctx context.Context, ids []string, slotID string) (int64, error)
	EnsureIndexes() error
}

type mongoCandidateRepo struct {
	candidates *mongo.Collection
	dogs       *mongo.Collection
}

// NewMongoCandidateRepo constructs a new MongoDB CandidateRepository.
func NewMongoCandidateRepo() CandidateRepository {
	db := database.DB()
	return &mongoCandidateRepo{
		candidates: db.Collection("booking_candidates"),
		dogs:       db.Collection("dogs"),
	}
}
