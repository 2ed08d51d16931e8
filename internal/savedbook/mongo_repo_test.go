package savedbook

import (
	"context"
	"testing"
	"time"

	"booknav/internal/entity"
	"booknav/internal/user"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func bookBSON(id, title string) bson.D {
	return bson.D{
		{Key: "bookId", Value: id},
		{Key: "title", Value: title},
		{Key: "authors", Value: bson.A{"Frank Herbert"}},
		{Key: "description", Value: ""},
		{Key: "image", Value: ""},
		{Key: "link", Value: ""},
	}
}

func userBSON(id primitive.ObjectID, books ...bson.D) bson.D {
	saved := bson.A{}
	for _, b := range books {
		saved = append(saved, b)
	}
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "username", Value: "reader"},
		{Key: "email", Value: "reader@example.com"},
		{Key: "password", Value: "hash"},
		{Key: "savedBooks", Value: saved},
	}
}

func findAndModify(doc interface{}) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "value", Value: doc})
}

func TestMongoRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	book := entity.SavedBook{BookID: "abc123", Title: "Dune", Authors: []string{"Frank Herbert"}}

	mt.Run("add pushes new book", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.DB, time.Second)
		id := primitive.NewObjectID()
		mt.AddMockResponses(findAndModify(userBSON(id, bookBSON("abc123", "Dune"))))

		u, err := repo.AddIfAbsent(context.Background(), id.Hex(), book)
		require.NoError(mt, err)
		assert.Equal(mt, 1, u.BookCount())
		assert.Equal(mt, id.Hex(), u.ID)
	})

	mt.Run("add existing book is a no-op", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.DB, time.Second)
		id := primitive.NewObjectID()
		mt.AddMockResponses(
			findAndModify(nil),
			mtest.CreateCursorResponse(0, "booknav.users", mtest.FirstBatch, userBSON(id, bookBSON("abc123", "Dune"))),
		)

		u, err := repo.AddIfAbsent(context.Background(), id.Hex(), book)
		require.NoError(mt, err)
		assert.Equal(mt, 1, u.BookCount())
	})

	mt.Run("add for missing user", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.DB, time.Second)
		mt.AddMockResponses(
			findAndModify(nil),
			mtest.CreateCursorResponse(0, "booknav.users", mtest.FirstBatch),
		)

		_, err := repo.AddIfAbsent(context.Background(), primitive.NewObjectID().Hex(), book)
		assert.ErrorIs(mt, err, user.ErrNotFound)
	})

	mt.Run("add with malformed user id", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.DB, time.Second)
		_, err := repo.AddIfAbsent(context.Background(), "nope", book)
		assert.ErrorIs(mt, err, user.ErrNotFound)
	})

	mt.Run("remove pulls book", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.DB, time.Second)
		id := primitive.NewObjectID()
		mt.AddMockResponses(findAndModify(userBSON(id)))

		u, err := repo.RemoveByBookID(context.Background(), id.Hex(), "abc123")
		require.NoError(mt, err)
		assert.Equal(mt, 0, u.BookCount())
		assert.NotNil(mt, u.SavedBooks)
	})

	mt.Run("remove for missing user", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.DB, time.Second)
		mt.AddMockResponses(findAndModify(nil))

		_, err := repo.RemoveByBookID(context.Background(), primitive.NewObjectID().Hex(), "abc123")
		assert.ErrorIs(mt, err, user.ErrNotFound)
	})

	mt.Run("track and release saver", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.DB, time.Second)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		require.NoError(mt, repo.TrackSaver(context.Background(), book, "user-1"))
		require.NoError(mt, repo.ReleaseSaver(context.Background(), "abc123", "user-1"))
	})

	mt.Run("saver count", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.DB, time.Second)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "booknav.books", mtest.FirstBatch, bson.D{
			{Key: "bookId", Value: "abc123"},
			{Key: "savedBy", Value: bson.A{"user-1", "user-2"}},
		}))

		n, err := repo.SaverCount(context.Background(), "abc123")
		require.NoError(mt, err)
		assert.Equal(mt, 2, n)
	})

	mt.Run("saver count for unknown book", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.DB, time.Second)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "booknav.books", mtest.FirstBatch))

		n, err := repo.SaverCount(context.Background(), "zzz")
		require.NoError(mt, err)
		assert.Equal(mt, 0, n)
	})

	mt.Run("failed secondary update does not undo removal", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.DB, time.Second)
		svc := NewService(repo, nil, zerolog.Nop())
		id := primitive.NewObjectID()
		mt.AddMockResponses(
			findAndModify(userBSON(id)),
			mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 1, Message: "books unavailable"}),
		)

		u, err := svc.Remove(context.Background(), principal(id.Hex()), "abc123")
		require.NoError(mt, err)
		assert.Equal(mt, 0, u.BookCount())
	})
}
