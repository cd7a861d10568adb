package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/matzehuels/seqdraw/pkg/errors"
)

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	created := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	mt.Run("put", func(mt *mtest.T) {
		s := NewMongoFromCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		require.NoError(mt, s.Put(ctx, NewDocument("A->>B: hi")))
	})

	mt.Run("get", func(mt *mtest.T) {
		s := NewMongoFromCollection(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "abc"},
			{Key: "title", Value: "Login"},
			{Key: "source", Value: "U->>S: creds"},
			{Key: "participants", Value: 2},
			{Key: "messages", Value: 1},
			{Key: "created_at", Value: created},
		}))

		doc, err := s.Get(ctx, "abc")
		require.NoError(mt, err)
		assert.Equal(mt, "Login", doc.Title)
		assert.Equal(mt, 2, doc.Participants)
		assert.True(mt, created.Equal(doc.CreatedAt))
	})

	mt.Run("get missing", func(mt *mtest.T) {
		s := NewMongoFromCollection(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := s.Get(ctx, "nope")
		assert.True(mt, errors.Is(err, errors.ErrCodeDiagramNotFound), "got %v", err)
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		s := NewMongoFromCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := s.Delete(ctx, "nope")
		assert.True(mt, errors.Is(err, errors.ErrCodeDiagramNotFound), "got %v", err)
	})

	mt.Run("list", func(mt *mtest.T) {
		s := NewMongoFromCollection(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "b"}, {Key: "created_at", Value: created.Add(time.Minute)}},
			bson.D{{Key: "_id", Value: "a"}, {Key: "created_at", Value: created}},
		))

		docs, err := s.List(ctx, 10)
		require.NoError(mt, err)
		require.Len(mt, docs, 2)
		assert.Equal(mt, "b", docs[0].ID)
		assert.NoError(mt, s.Close())
	})
}
