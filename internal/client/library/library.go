// Package library runs save and remove requests from the terminal against
// the server and keeps the per-user cache of saved ids in step.
package library

import (
	"context"
	"slices"

	"booknav/internal/apperr"
	"booknav/internal/catalog"
	"booknav/internal/client/api"
	"booknav/internal/client/session"

	"github.com/rs/zerolog"
)

// State is a step of one mutation attempt.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSaving     State = "saving"
	StateRemoving   State = "removing"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Status is how an attempt ended.
type Status string

const (
	StatusSucceeded    Status = "succeeded"
	StatusFailed       Status = "failed"
	StatusDenied       Status = "denied"
	StatusAlreadySaved Status = "already_saved"
	StatusNotDisplayed Status = "not_displayed"
)

// Outcome reports one attempt. Err is set for StatusFailed and StatusDenied.
type Outcome struct {
	Status Status
	BookID string
	Notice string
	Trace  []State
	Err    error
}

func (o Outcome) OK() bool { return o.Status == StatusSucceeded }

// RemovePolicy decides when a removed id leaves the local cache.
type RemovePolicy int

const (
	// RemoveAfterConfirm drops the id only once the server confirmed.
	RemoveAfterConfirm RemovePolicy = iota
	// RemoveOptimistic drops the id before calling the server, whatever
	// the result.
	RemoveOptimistic
)

// Server is the subset of the API the orchestrator calls.
type Server interface {
	Me(ctx context.Context, token string) (api.User, error)
	SaveBook(ctx context.Context, token string, b api.Book) (api.User, error)
	RemoveBook(ctx context.Context, token, bookID string) (api.User, error)
}

// Cache stores the saved ids per user.
type Cache interface {
	SavedIDs(ctx context.Context, userID string) ([]string, error)
	SetSavedIDs(ctx context.Context, userID string, ids []string) error
	Clear(ctx context.Context, userID string) error
}

// Shown answers whether a book is among the results on display.
type Shown interface {
	Displayed(bookID string) (catalog.Book, bool)
}

type Library struct {
	server Server
	cache  Cache
	policy RemovePolicy
	log    zerolog.Logger
}

type Option func(*Library)

func WithRemovePolicy(p RemovePolicy) Option {
	return func(l *Library) { l.policy = p }
}

func New(server Server, cache Cache, log zerolog.Logger, opts ...Option) *Library {
	l := &Library{server: server, cache: cache, log: log}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

const (
	noticeLoggedOut    = "You need to be logged in!"
	noticeAlreadySaved = "This book has already been saved!"
	noticeNotShown     = "That book is not in the current results."
)

var errLoggedOut = apperr.Authentication(noticeLoggedOut)

type attempt struct {
	out Outcome
}

func start(bookID string) *attempt {
	return &attempt{out: Outcome{BookID: bookID, Trace: []State{StateIdle, StateValidating}}}
}

func (a *attempt) step(s State) { a.out.Trace = append(a.out.Trace, s) }

func (a *attempt) stop(status Status, notice string) Outcome {
	a.out.Status = status
	a.out.Notice = notice
	return a.out
}

func (a *attempt) deny() Outcome {
	a.out.Err = errLoggedOut
	return a.stop(StatusDenied, noticeLoggedOut)
}

func (a *attempt) fail(err error) Outcome {
	a.step(StateFailed)
	a.out.Err = err
	return a.stop(StatusFailed, apperr.Public(err))
}

// Save adds a displayed book to the caller's library. It does not call the
// server when the caller is logged out, the id is already cached or the
// book is not on the current page.
func (l *Library) Save(ctx context.Context, sess *session.Session, shown Shown, bookID string) Outcome {
	a := start(bookID)

	if !sess.LoggedIn() {
		return a.deny()
	}
	userID := sess.UserID()
	ids, err := l.cache.SavedIDs(ctx, userID)
	if err != nil {
		l.log.Warn().Err(err).Str("user_id", userID).Msg("read saved ids")
		return a.fail(err)
	}
	if slices.Contains(ids, bookID) {
		return a.stop(StatusAlreadySaved, noticeAlreadySaved)
	}
	book, ok := shown.Displayed(bookID)
	if !ok {
		return a.stop(StatusNotDisplayed, noticeNotShown)
	}

	a.step(StateSaving)
	if _, err := l.server.SaveBook(ctx, sess.Token(), toAPI(book)); err != nil {
		l.log.Error().Err(err).Str("book_id", bookID).Msg("save book failed")
		return a.fail(err)
	}

	a.step(StateSucceeded)
	if err := l.cache.SetSavedIDs(ctx, userID, append(ids, bookID)); err != nil {
		l.log.Warn().Err(err).Str("user_id", userID).Msg("write saved ids")
	}
	return a.stop(StatusSucceeded, "Saved "+book.Title)
}

// Remove deletes a book from the caller's library. There is no duplicate
// gate; the cache follows the configured RemovePolicy.
func (l *Library) Remove(ctx context.Context, sess *session.Session, bookID string) Outcome {
	a := start(bookID)

	if !sess.LoggedIn() {
		return a.deny()
	}
	userID := sess.UserID()

	if l.policy == RemoveOptimistic {
		l.forget(ctx, userID, bookID)
	}

	a.step(StateRemoving)
	if _, err := l.server.RemoveBook(ctx, sess.Token(), bookID); err != nil {
		l.log.Error().Err(err).Str("book_id", bookID).Msg("remove book failed")
		return a.fail(err)
	}

	a.step(StateSucceeded)
	if l.policy == RemoveAfterConfirm {
		l.forget(ctx, userID, bookID)
	}
	return a.stop(StatusSucceeded, "Removed "+bookID)
}

func (l *Library) forget(ctx context.Context, userID, bookID string) {
	ids, err := l.cache.SavedIDs(ctx, userID)
	if err != nil {
		l.log.Warn().Err(err).Str("user_id", userID).Msg("read saved ids")
		return
	}
	kept := slices.DeleteFunc(ids, func(id string) bool { return id == bookID })
	if err := l.cache.SetSavedIDs(ctx, userID, kept); err != nil {
		l.log.Warn().Err(err).Str("user_id", userID).Msg("write saved ids")
	}
}

// Reconcile replaces the cached ids with the server's saved set.
func (l *Library) Reconcile(ctx context.Context, sess *session.Session) (api.User, error) {
	if !sess.LoggedIn() {
		return api.User{}, errLoggedOut
	}
	u, err := l.server.Me(ctx, sess.Token())
	if err != nil {
		return api.User{}, err
	}
	if err := l.cache.SetSavedIDs(ctx, sess.UserID(), u.BookIDs()); err != nil {
		return u, err
	}
	return u, nil
}

// SavedIDs returns the cached ids for the current session.
func (l *Library) SavedIDs(ctx context.Context, sess *session.Session) ([]string, error) {
	return l.cache.SavedIDs(ctx, sess.UserID())
}

// Logout clears the user's cached ids and then the token.
func (l *Library) Logout(ctx context.Context, sess *session.Session) error {
	if err := l.cache.Clear(ctx, sess.UserID()); err != nil {
		return err
	}
	return sess.Logout(ctx)
}

func toAPI(b catalog.Book) api.Book {
	return api.Book{
		BookID:      b.BookID,
		Title:       b.Title,
		Authors:     b.Authors,
		Description: b.Description,
		Image:       b.Image,
		Link:        b.Link,
	}
}
