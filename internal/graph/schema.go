// Package graph serves the GraphQL API over the user, auth and saved-book
// services.
package graph

import (
	"context"
	_ "embed"
	"net/http"

	"booknav/internal/auth"
	"booknav/internal/savedbook"
	"booknav/internal/user"

	"github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/rs/zerolog"
)

//go:embed schema.graphql
var schemaSDL string

// MaxDepth bounds query nesting.
const MaxDepth = 8

type panicLogger struct {
	log zerolog.Logger
}

func (l panicLogger) LogPanic(ctx context.Context, value interface{}) {
	l.log.Error().Interface("panic", value).Msg("graphql resolver panic")
}

// NewSchema parses the schema and binds it to the resolver. It panics on a
// schema/resolver mismatch, which is a programming error.
func NewSchema(users *user.Service, authSvc *auth.Service, books *savedbook.Service, log zerolog.Logger) *graphql.Schema {
	r := &Resolver{
		users: users,
		auth:  authSvc,
		books: books,
		log:   log.With().Str("component", "graphql").Logger(),
	}
	return graphql.MustParseSchema(schemaSDL, r,
		graphql.MaxDepth(MaxDepth),
		graphql.Logger(panicLogger{log: r.log}),
	)
}

// Handler serves POST /graphql. The caller's identity is read from the
// request context, so it must be mounted behind httpx.AuthMiddleware.
func Handler(schema *graphql.Schema) http.Handler {
	return &relay.Handler{Schema: schema}
}
