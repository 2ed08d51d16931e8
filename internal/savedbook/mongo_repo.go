package savedbook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"booknav/internal/entity"
	"booknav/internal/platform/mongodb"
	"booknav/internal/user"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type bookDoc struct {
	BookID  string   `bson:"bookId"`
	Title   string   `bson:"title"`
	Authors []string `bson:"authors"`
	SavedBy []string `bson:"savedBy"`
}

type MongoRepo struct {
	users   *mongo.Collection
	books   *mongo.Collection
	timeout time.Duration
}

func NewMongoRepo(db *mongo.Database, timeout time.Duration) *MongoRepo {
	return &MongoRepo{
		users:   db.Collection(mongodb.UsersCollection),
		books:   db.Collection(mongodb.BooksCollection),
		timeout: timeout,
	}
}

func (r *MongoRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func afterUpdate() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

// AddIfAbsent pushes b only when no element of savedBooks has the same
// bookId. A miss means either the user is gone or the book is already saved;
// a follow-up read tells them apart.
func (r *MongoRepo) AddIfAbsent(ctx context.Context, userID string, b entity.SavedBook) (entity.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return entity.User{}, user.ErrNotFound
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	filter := bson.M{"_id": oid, "savedBooks.bookId": bson.M{"$ne": b.BookID}}
	update := bson.M{"$push": bson.M{"savedBooks": b}}

	var doc user.Document
	err = r.users.FindOneAndUpdate(timeoutCtx, filter, update, afterUpdate()).Decode(&doc)
	if err == nil {
		return doc.ToUser(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return entity.User{}, fmt.Errorf("save book: %w", err)
	}

	err = r.users.FindOne(timeoutCtx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return entity.User{}, user.ErrNotFound
		}
		return entity.User{}, fmt.Errorf("save book: %w", err)
	}
	return doc.ToUser(), nil
}

func (r *MongoRepo) RemoveByBookID(ctx context.Context, userID, bookID string) (entity.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return entity.User{}, user.ErrNotFound
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	update := bson.M{"$pull": bson.M{"savedBooks": bson.M{"bookId": bookID}}}

	var doc user.Document
	err = r.users.FindOneAndUpdate(timeoutCtx, bson.M{"_id": oid}, update, afterUpdate()).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return entity.User{}, user.ErrNotFound
		}
		return entity.User{}, fmt.Errorf("remove book: %w", err)
	}
	return doc.ToUser(), nil
}

func (r *MongoRepo) TrackSaver(ctx context.Context, b entity.SavedBook, userID string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	update := bson.M{
		"$setOnInsert": bson.M{"title": b.Title, "authors": b.Authors},
		"$addToSet":    bson.M{"savedBy": userID},
	}
	_, err := r.books.UpdateOne(timeoutCtx, bson.M{"bookId": b.BookID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("track saver: %w", err)
	}
	return nil
}

func (r *MongoRepo) ReleaseSaver(ctx context.Context, bookID, userID string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.books.UpdateOne(timeoutCtx, bson.M{"bookId": bookID}, bson.M{"$pull": bson.M{"savedBy": userID}})
	if err != nil {
		return fmt.Errorf("release saver: %w", err)
	}
	return nil
}

func (r *MongoRepo) SaverCount(ctx context.Context, bookID string) (int, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var doc bookDoc
	err := r.books.FindOne(timeoutCtx, bson.M{"bookId": bookID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, fmt.Errorf("saver count: %w", err)
	}
	return len(doc.SavedBy), nil
}
