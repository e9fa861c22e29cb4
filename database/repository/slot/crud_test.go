package slotRepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"pawpack/models"
)

const ns = "pawpack.group_walk_slots"

func TestGetByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		repo := &mongoSlotRepo{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "id", Value: "slot-1"},
			{Key: "status", Value: "OPEN"},
			{Key: "capacity", Value: 6},
			{Key: "version", Value: 4},
		}))

		slot, err := repo.GetByID(context.Background(), "slot-1")
		require.NoError(mt, err)
		assert.Equal(mt, "slot-1", slot.ID)
		assert.Equal(mt, models.SlotOpen, slot.Status)
		assert.Equal(mt, 4, slot.Version)
	})

	mt.Run("missing", func(mt *mtest.T) {
		repo := &mongoSlotRepo{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), "nope")
		assert.ErrorIs(mt, err, ErrSlotNotFound)
	})
}

func TestSaveMembership(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	slot := models.GroupWalkSlot{ID: "slot-1", Status: models.SlotFull, CurrentDogCount: 6, Capacity: 6}

	mt.Run("matched", func(mt *mtest.T) {
		repo := &mongoSlotRepo{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		require.NoError(mt, repo.SaveMembership(context.Background(), slot, 3))
	})

	mt.Run("stale version", func(mt *mtest.T) {
		repo := &mongoSlotRepo{coll: mt.Coll}
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: 1}}),
		)

		err := repo.SaveMembership(context.Background(), slot, 3)
		assert.ErrorIs(mt, err, ErrVersionConflict)
	})

	mt.Run("deleted slot", func(mt *mtest.T) {
		repo := &mongoSlotRepo{coll: mt.Coll}
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
		)

		err := repo.SaveMembership(context.Background(), slot, 3)
		assert.ErrorIs(mt, err, ErrSlotNotFound)
	})
}

func TestCreateAssignsID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert", func(mt *mtest.T) {
		repo := &mongoSlotRepo{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		id, err := repo.Create(context.Background(), models.GroupWalkSlot{Status: models.SlotOpen})
		require.NoError(mt, err)
		assert.Len(mt, id, 36)
	})
}
