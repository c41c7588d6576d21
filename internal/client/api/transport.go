package api

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Response is what a Transport hands back for any completed exchange,
// successful or not.
type Response struct {
	Status int
	Body   []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Transport sends a prepared request. Non-2xx statuses are returned as a
// Response; an error means the exchange itself failed.
type Transport interface {
	Send(ctx context.Context, req *http.Request) (*Response, error)
}

// HTTPTransport is a Transport over *http.Client.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport returns a transport with the given timeout; zero means
// no client-side timeout.
func NewHTTPTransport(timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{client: &http.Client{Timeout: timeout}}
}

func (t *HTTPTransport) Send(ctx context.Context, req *http.Request) (*Response, error) {
	resp, err := t.client.Do(req.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Response{Status: resp.StatusCode, Body: b}, nil
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, req *http.Request) (*Response, error)

func (f TransportFunc) Send(ctx context.Context, req *http.Request) (*Response, error) {
	return f(ctx, req)
}
