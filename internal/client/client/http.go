package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/notekeeper/internal/client/api"
)

// Client is the notes backend contract used by the services.
type Client interface {
	Register(ctx context.Context, email, password string) (*AuthResponse, error)
	Login(ctx context.Context, email, password string) (*AuthResponse, error)
	Me(ctx context.Context) (*User, error)
	Bootstrap(ctx context.Context) (*Bootstrap, error)
	Categories(ctx context.Context) ([]Category, error)
	ListNotes(ctx context.Context, category string) ([]Note, error)
	Summary(ctx context.Context) (*Summary, error)
	GetNote(ctx context.Context, id int64) (*Note, error)
	CreateNote(ctx context.Context, in NoteInput) (*Note, error)
	UpdateNote(ctx context.Context, id int64, in NoteInput) (*Note, error)
	DeleteNote(ctx context.Context, id int64) error
}

// HTTPClient implements Client over the authenticated request pipeline.
type HTTPClient struct {
	api *api.Client
}

func NewHTTPClient(c *api.Client) *HTTPClient {
	return &HTTPClient{api: c}
}

func (c *HTTPClient) Register(ctx context.Context, email, password string) (*AuthResponse, error) {
	return required(api.Post[AuthResponse](ctx, c.api, "/auth/register", credentials{Email: email, Password: password}))
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	return required(api.Post[AuthResponse](ctx, c.api, "/auth/login", credentials{Email: email, Password: password}))
}

func (c *HTTPClient) Me(ctx context.Context) (*User, error) {
	return required(api.Get[User](ctx, c.api, "/auth/me"))
}

func (c *HTTPClient) Bootstrap(ctx context.Context) (*Bootstrap, error) {
	return required(api.Get[Bootstrap](ctx, c.api, "/auth/bootstrap"))
}

func (c *HTTPClient) Categories(ctx context.Context) ([]Category, error) {
	out, err := api.Get[[]Category](ctx, c.api, "/categories")
	if err != nil {
		return nil, mapError(err)
	}
	if out == nil {
		return nil, nil
	}
	return *out, nil
}

// ListNotes returns the user's notes, most recently updated first. A non-empty
// category restricts the list to that category.
func (c *HTTPClient) ListNotes(ctx context.Context, category string) ([]Note, error) {
	path := "/notes"
	if category != "" {
		path += "?" + url.Values{"category": {category}}.Encode()
	}
	out, err := api.Get[[]Note](ctx, c.api, path)
	if err != nil {
		return nil, mapError(err)
	}
	if out == nil {
		return nil, nil
	}
	return *out, nil
}

func (c *HTTPClient) Summary(ctx context.Context) (*Summary, error) {
	return required(api.Get[Summary](ctx, c.api, "/notes/summary"))
}

func (c *HTTPClient) GetNote(ctx context.Context, id int64) (*Note, error) {
	return required(api.Get[Note](ctx, c.api, notePath(id)))
}

func (c *HTTPClient) CreateNote(ctx context.Context, in NoteInput) (*Note, error) {
	return required(api.Post[Note](ctx, c.api, "/notes", in))
}

func (c *HTTPClient) UpdateNote(ctx context.Context, id int64, in NoteInput) (*Note, error) {
	return required(api.Patch[Note](ctx, c.api, notePath(id), in))
}

func (c *HTTPClient) DeleteNote(ctx context.Context, id int64) error {
	return mapError(c.api.Do(ctx, http.MethodDelete, notePath(id), nil, nil))
}

func notePath(id int64) string {
	return "/notes/" + strconv.FormatInt(id, 10)
}

// required treats a missing body as an error for endpoints that always
// return one.
func required[T any](v *T, err error) (*T, error) {
	if err != nil {
		return nil, mapError(err)
	}
	if v == nil {
		return nil, ErrEmptyResponse
	}
	return v, nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if api.StatusOf(err) == http.StatusNotFound && !errors.Is(err, api.ErrSessionExpired) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}
