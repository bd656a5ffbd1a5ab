package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/zomavan/internal/domain/providers"
	apperrors "github.com/zatekoja/zomavan/pkg/errors"
	"github.com/zatekoja/zomavan/pkg/requestid"
	"github.com/zatekoja/zomavan/pkg/retry"
)

func testRetry(attempts int) *retry.Config {
	return &retry.Config{
		MaxAttempts:   attempts,
		InitialDelay:  time.Millisecond,
		MaxDelay:      time.Millisecond,
		BackoffFactor: 1,
	}
}

func locationDetails(t *testing.T, subzone string) providers.Request {
	t.Helper()
	u, err := url.Parse("https://developers.zomato.com/api/v2.1/location_details")
	require.NoError(t, err)
	return providers.Request{
		Method: http.MethodGet,
		URL:    u,
		QueryItems: []providers.QueryItem{
			{Name: "entity_id", Value: subzone},
			{Name: "entity_type", Value: "subzone"},
			{Name: "count", Value: "10"},
		},
	}
}

func TestHTTPRequestService_SendsRequestToBaseURL(t *testing.T) {
	var gotPath, gotQuery, gotKey, gotAccept, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("user-key")
		gotAccept = r.Header.Get("Accept")
		gotRequestID = r.Header.Get(requestid.Header)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"best_rated_restaurant":[]}`))
	}))
	defer server.Close()

	svc, err := NewHTTPRequestService(Options{
		HTTPClient: server.Client(),
		APIKey:     "secret",
		BaseURL:    server.URL + "/",
		Retry:      testRetry(1),
	})
	require.NoError(t, err)

	ctx := requestid.NewContext(context.Background(), "req-42")
	resp, err := svc.Do(ctx, locationDetails(t, "98284"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"best_rated_restaurant":[]}`, string(resp.Data))
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "/api/v2.1/location_details", gotPath)
	assert.Equal(t, "entity_id=98284&entity_type=subzone&count=10", gotQuery)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "req-42", gotRequestID)
}

func TestHTTPRequestService_BaseURLPathPrefix(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	svc, err := NewHTTPRequestService(Options{HTTPClient: server.Client(), BaseURL: server.URL + "/proxy", Retry: testRetry(1)})
	require.NoError(t, err)

	_, err = svc.Do(context.Background(), locationDetails(t, "1"))
	require.NoError(t, err)
	assert.Equal(t, "/proxy/api/v2.1/location_details", gotPath)
}

func TestHTTPRequestService_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"best_rated_restaurant":[]}`))
	}))
	defer server.Close()

	svc, err := NewHTTPRequestService(Options{HTTPClient: server.Client(), BaseURL: server.URL, Retry: testRetry(3)})
	require.NoError(t, err)

	resp, err := svc.Do(context.Background(), locationDetails(t, "1"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestHTTPRequestService_StatusClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		attempts  int
		wantCalls int32
		wantType  apperrors.ErrorType
	}{
		{name: "not found is permanent", status: http.StatusNotFound, attempts: 3, wantCalls: 1, wantType: apperrors.ErrorTypeUpstreamStatus},
		{name: "bad request is permanent", status: http.StatusBadRequest, attempts: 3, wantCalls: 1, wantType: apperrors.ErrorTypeUpstreamStatus},
		{name: "forbidden is unauthorized", status: http.StatusForbidden, attempts: 3, wantCalls: 1, wantType: apperrors.ErrorTypeUnauthorized},
		{name: "rate limited is retried", status: http.StatusTooManyRequests, attempts: 2, wantCalls: 2, wantType: apperrors.ErrorTypeUpstreamStatus},
		{name: "server error is retried", status: http.StatusInternalServerError, attempts: 3, wantCalls: 3, wantType: apperrors.ErrorTypeUpstreamStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			svc, err := NewHTTPRequestService(Options{HTTPClient: server.Client(), BaseURL: server.URL, Retry: testRetry(tt.attempts)})
			require.NoError(t, err)

			resp, err := svc.Do(context.Background(), locationDetails(t, "1"))
			assert.Nil(t, resp)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, tt.wantType), "got %v", err)
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
		})
	}
}

func TestHTTPRequestService_OversizedBodyIsRejected(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"best_rated_restaurant":["` + strings.Repeat("x", maxResponseBytes) + `"]}`))
	}))
	defer server.Close()

	svc, err := NewHTTPRequestService(Options{HTTPClient: server.Client(), BaseURL: server.URL, Retry: testRetry(3)})
	require.NoError(t, err)

	cache := newMemoryCache()
	resp, err := NewCachedRequestService(svc, cache, 60, nil).Do(context.Background(), locationDetails(t, "1"))
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal), "got %v", err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Empty(t, cache.data)
}

func TestHTTPRequestService_BodyAtLimitIsAccepted(t *testing.T) {
	body := strings.Repeat(" ", maxResponseBytes-2) + "{}"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	svc, err := NewHTTPRequestService(Options{HTTPClient: server.Client(), BaseURL: server.URL, Retry: testRetry(1)})
	require.NoError(t, err)

	resp, err := svc.Do(context.Background(), locationDetails(t, "1"))
	require.NoError(t, err)
	assert.Len(t, resp.Data, maxResponseBytes)
}

func TestHTTPRequestService_TotalTimeoutCutsOffSlowUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	cfg := testRetry(3)
	cfg.MaxTotalTimeout = 50 * time.Millisecond
	svc, err := NewHTTPRequestService(Options{HTTPClient: server.Client(), BaseURL: server.URL, Retry: cfg})
	require.NoError(t, err)

	start := time.Now()
	_, err = svc.Do(context.Background(), locationDetails(t, "1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestHTTPRequestService_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	svc, err := NewHTTPRequestService(Options{BaseURL: baseURL, Retry: testRetry(2)})
	require.NoError(t, err)

	_, err = svc.Do(context.Background(), locationDetails(t, "1"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal), "got %v", err)
}

func TestHTTPRequestService_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	svc, err := NewHTTPRequestService(Options{HTTPClient: server.Client(), BaseURL: server.URL, Retry: testRetry(3)})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = svc.Do(ctx, locationDetails(t, "1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewHTTPRequestService_InvalidBaseURL(t *testing.T) {
	_, err := NewHTTPRequestService(Options{BaseURL: "localhost:8080"})
	assert.Error(t, err)

	_, err = NewHTTPRequestService(Options{BaseURL: "/relative"})
	assert.Error(t, err)
}

func TestHTTPRequestService_MissingURL(t *testing.T) {
	svc, err := NewHTTPRequestService(Options{})
	require.NoError(t, err)

	_, err = svc.Do(context.Background(), providers.Request{})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}
