package graph

import (
	"context"

	"booknav/internal/apperr"
	"booknav/internal/auth"
	"booknav/internal/identity"
	"booknav/internal/savedbook"
	"booknav/internal/user"

	"github.com/graph-gophers/graphql-go"
	"github.com/rs/zerolog"
)

type Resolver struct {
	users *user.Service
	auth  *auth.Service
	books *savedbook.Service
	log   zerolog.Logger
}

// fail turns err into the error placed in the response. Internal and
// network details are logged and replaced by the public message.
func (r *Resolver) fail(ctx context.Context, field string, err error) error {
	e := apperr.From(err)
	switch e.Kind {
	case apperr.KindInternal, apperr.KindNetwork:
		l := zerolog.Ctx(ctx)
		if l.GetLevel() == zerolog.Disabled {
			l = &r.log
		}
		l.Error().Err(err).Str("field", field).Msg("resolver failed")
	}
	return &apperr.Error{Kind: e.Kind, Message: apperr.Public(err)}
}

func (r *Resolver) Me(ctx context.Context) (*userResolver, error) {
	u, err := r.books.Me(ctx, identity.FromContext(ctx))
	if err != nil {
		return nil, r.fail(ctx, "me", err)
	}
	return &userResolver{u: u}, nil
}

func (r *Resolver) User(ctx context.Context) ([]*userResolver, error) {
	list, err := r.users.List(ctx)
	if err != nil {
		return nil, r.fail(ctx, "user", err)
	}
	out := make([]*userResolver, 0, len(list))
	for _, u := range list {
		out = append(out, &userResolver{u: u})
	}
	return out, nil
}

type addUserArgs struct {
	Username string
	Email    string
	Password string
}

func (r *Resolver) AddUser(ctx context.Context, args addUserArgs) (*authResolver, error) {
	res, err := r.auth.Register(ctx, auth.RegisterInput{
		Username: args.Username,
		Email:    args.Email,
		Password: args.Password,
	})
	if err != nil {
		return nil, r.fail(ctx, "addUser", err)
	}
	return &authResolver{res: res}, nil
}

type loginArgs struct {
	Email    string
	Password string
}

func (r *Resolver) LoginUser(ctx context.Context, args loginArgs) (*authResolver, error) {
	res, err := r.auth.Login(ctx, auth.LoginInput{Email: args.Email, Password: args.Password})
	if err != nil {
		return nil, r.fail(ctx, "loginUser", err)
	}
	return &authResolver{res: res}, nil
}

type savedBookInput struct {
	BookID      graphql.ID
	Title       string
	Authors     *[]string
	Description *string
	Image       *string
	Link        *string
}

func (in savedBookInput) toInput() savedbook.Input {
	out := savedbook.Input{
		BookID: string(in.BookID),
		Title:  in.Title,
	}
	if in.Authors != nil {
		out.Authors = *in.Authors
	}
	if in.Description != nil {
		out.Description = *in.Description
	}
	if in.Image != nil {
		out.Image = *in.Image
	}
	if in.Link != nil {
		out.Link = *in.Link
	}
	return out
}

func (r *Resolver) SaveBook(ctx context.Context, args struct{ Input savedBookInput }) (*userResolver, error) {
	u, err := r.books.Save(ctx, identity.FromContext(ctx), args.Input.toInput())
	if err != nil {
		return nil, r.fail(ctx, "saveBook", err)
	}
	return &userResolver{u: u}, nil
}

func (r *Resolver) RemoveBook(ctx context.Context, args struct{ BookID graphql.ID }) (*userResolver, error) {
	u, err := r.books.Remove(ctx, identity.FromContext(ctx), string(args.BookID))
	if err != nil {
		return nil, r.fail(ctx, "removeBook", err)
	}
	return &userResolver{u: u}, nil
}
