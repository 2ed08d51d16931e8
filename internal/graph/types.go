package graph

import (
	"booknav/internal/auth"
	"booknav/internal/entity"

	"github.com/graph-gophers/graphql-go"
)

type authResolver struct {
	res auth.Result
}

func (a *authResolver) Token() graphql.ID { return graphql.ID(a.res.Token) }

func (a *authResolver) User() *userResolver { return &userResolver{u: a.res.User} }

type userResolver struct {
	u entity.User
}

func (r *userResolver) ID() graphql.ID { return graphql.ID(r.u.ID) }
func (r *userResolver) Username() string { return r.u.Username }
func (r *userResolver) Email() string { return r.u.Email }
func (r *userResolver) BookCount() int32 { return int32(r.u.BookCount()) }

func (r *userResolver) SavedBooks() []*bookResolver {
	out := make([]*bookResolver, 0, len(r.u.SavedBooks))
	for _, b := range r.u.SavedBooks {
		out = append(out, &bookResolver{b: b})
	}
	return out
}

type bookResolver struct {
	b entity.SavedBook
}

func (r *bookResolver) BookID() graphql.ID { return graphql.ID(r.b.BookID) }
func (r *bookResolver) Title() string { return r.b.Title }
func (r *bookResolver) Description() string { return r.b.Description }
func (r *bookResolver) Image() string { return r.b.Image }
func (r *bookResolver) Link() string { return r.b.Link }

func (r *bookResolver) Authors() []string {
	if r.b.Authors == nil {
		return []string{}
	}
	return r.b.Authors
}
