// Package api is the client side of the GraphQL API.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"booknav/internal/apperr"

	"github.com/go-resty/resty/v2"
)

const DefaultTimeout = 10 * time.Second

type Book struct {
	BookID      string   `json:"bookId"`
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Link        string   `json:"link"`
}

type User struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	BookCount  int    `json:"bookCount"`
	SavedBooks []Book `json:"savedBooks"`
}

// BookIDs lists the saved ids in server order.
func (u User) BookIDs() []string {
	ids := make([]string, 0, len(u.SavedBooks))
	for _, b := range u.SavedBooks {
		ids = append(ids, b.BookID)
	}
	return ids
}

type Auth struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Client struct {
	http     *resty.Client
	endpoint string
}

// New returns a client for the GraphQL endpoint, for example
// http://localhost:8080/graphql. Operations are posted to endpoint as given.
func New(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &Client{http: hc, endpoint: strings.TrimSpace(endpoint)}
}

type request struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type gqlError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

func kindOf(code string) apperr.Kind {
	switch k := apperr.Kind(code); k {
	case apperr.KindAuthentication, apperr.KindValidation, apperr.KindNotFound, apperr.KindNetwork:
		return k
	default:
		return apperr.KindInternal
	}
}

// do posts one operation and decodes its data into out. GraphQL errors come
// back as *apperr.Error with the kind taken from extensions.code.
func (c *Client) do(ctx context.Context, token, query string, vars map[string]interface{}, out interface{}) error {
	var env envelope
	req := c.http.R().
		SetContext(ctx).
		SetBody(request{Query: query, Variables: vars}).
		SetResult(&env)
	if token != "" {
		req.SetAuthToken(token)
	}

	resp, err := req.Post(c.endpoint)
	if err != nil {
		return apperr.Network("server unreachable", err)
	}
	if resp.IsError() {
		return apperr.Network(fmt.Sprintf("server returned %s", resp.Status()), nil)
	}
	if len(env.Errors) > 0 {
		e := env.Errors[0]
		return &apperr.Error{Kind: kindOf(e.Extensions.Code), Message: e.Message}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return apperr.Internal("empty response", nil)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return apperr.Internal("decode response", err)
	}
	return nil
}

const userFields = `id username email bookCount savedBooks { bookId title authors description image link }`

func (c *Client) Register(ctx context.Context, username, email, password string) (Auth, error) {
	var out struct {
		AddUser Auth `json:"addUser"`
	}
	err := c.do(ctx, "", `mutation AddUser($username: String!, $email: String!, $password: String!) {
  addUser(username: $username, email: $email, password: $password) { token user { `+userFields+` } }
}`, map[string]interface{}{"username": username, "email": email, "password": password}, &out)
	return out.AddUser, err
}

func (c *Client) Login(ctx context.Context, email, password string) (Auth, error) {
	var out struct {
		LoginUser Auth `json:"loginUser"`
	}
	err := c.do(ctx, "", `mutation LoginUser($email: String!, $password: String!) {
  loginUser(email: $email, password: $password) { token user { `+userFields+` } }
}`, map[string]interface{}{"email": email, "password": password}, &out)
	return out.LoginUser, err
}

func (c *Client) Me(ctx context.Context, token string) (User, error) {
	var out struct {
		Me *User `json:"me"`
	}
	if err := c.do(ctx, token, `query Me { me { `+userFields+` } }`, nil, &out); err != nil {
		return User{}, err
	}
	if out.Me == nil {
		return User{}, apperr.Authentication("You need to be logged in!")
	}
	return *out.Me, nil
}

func (c *Client) SaveBook(ctx context.Context, token string, b Book) (User, error) {
	var out struct {
		SaveBook *User `json:"saveBook"`
	}
	authors := b.Authors
	if authors == nil {
		authors = []string{}
	}
	input := map[string]interface{}{
		"bookId":      b.BookID,
		"title":       b.Title,
		"authors":     authors,
		"description": b.Description,
		"image":       b.Image,
		"link":        b.Link,
	}
	err := c.do(ctx, token, `mutation SaveBook($input: SavedBookInput!) {
  saveBook(input: $input) { `+userFields+` }
}`, map[string]interface{}{"input": input}, &out)
	if err != nil {
		return User{}, err
	}
	if out.SaveBook == nil {
		return User{}, apperr.NotFound("user not found")
	}
	return *out.SaveBook, nil
}

func (c *Client) RemoveBook(ctx context.Context, token, bookID string) (User, error) {
	var out struct {
		RemoveBook *User `json:"removeBook"`
	}
	err := c.do(ctx, token, `mutation RemoveBook($bookId: ID!) {
  removeBook(bookId: $bookId) { `+userFields+` }
}`, map[string]interface{}{"bookId": bookID}, &out)
	if err != nil {
		return User{}, err
	}
	if out.RemoveBook == nil {
		return User{}, apperr.NotFound("user not found")
	}
	return *out.RemoveBook, nil
}
