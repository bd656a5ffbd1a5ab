package providers

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// QueryItem is a single query parameter. Order is preserved when rendering.
type QueryItem struct {
	Name  string
	Value string
}

// Request describes an outbound call handed to a RequestService
type Request struct {
	Method     string
	URL        *url.URL
	QueryItems []QueryItem
	Header     http.Header
}

// Query returns the value of the first query item with the given name
func (r Request) Query(name string) (string, bool) {
	for _, item := range r.QueryItems {
		if item.Name == name {
			return item.Value, true
		}
	}
	return "", false
}

// FullURL renders URL with the query items appended in their given order
func (r Request) FullURL() string {
	if r.URL == nil {
		return ""
	}
	u := *r.URL
	if len(r.QueryItems) == 0 {
		return u.String()
	}

	var b strings.Builder
	if u.RawQuery != "" {
		b.WriteString(u.RawQuery)
	}
	for _, item := range r.QueryItems {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(item.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(item.Value))
	}
	u.RawQuery = b.String()
	return u.String()
}

// Response is what the transport received for a Request
type Response struct {
	StatusCode int
	Header     http.Header
	Data       []byte
}

// RequestService performs outbound calls on behalf of API clients.
// Each call yields exactly one outcome: a response or an error.
type RequestService interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// RequestServiceFunc adapts a function to RequestService
type RequestServiceFunc func(ctx context.Context, req Request) (*Response, error)

// Do calls f
func (f RequestServiceFunc) Do(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}
