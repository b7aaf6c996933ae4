package jobnimbus

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchContacts(t *testing.T) {
	tests := []struct {
		name      string
		query     ContactQuery
		wantParam string
		wantValue string
		body      string
		wantLen   int
	}{
		{
			name:      "bare array by phone",
			query:     ContactQuery{Phone: "(334) 414-3569"},
			wantParam: "phone",
			wantValue: "(334) 414-3569",
			body:      `[{"jnid":"c1"}]`,
			wantLen:   1,
		},
		{
			name:      "results envelope by email",
			query:     ContactQuery{Email: "jane@example.com"},
			wantParam: "email",
			wantValue: "jane@example.com",
			body:      `{"count":2,"results":[{"jnid":"c1"},{"jnid":"c2"}]}`,
			wantLen:   2,
		},
		{
			name:      "data envelope by name",
			query:     ContactQuery{Name: "Jane Doe"},
			wantParam: "name",
			wantValue: "Jane Doe",
			body:      `{"data":[]}`,
			wantLen:   0,
		},
		{
			name:      "unknown envelope",
			query:     ContactQuery{Name: "Jane Doe"},
			wantParam: "name",
			wantValue: "Jane Doe",
			body:      `{"count":0}`,
			wantLen:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/contacts", r.URL.Path)
				assert.Equal(t, "Bearer tenant-key", r.Header.Get("Authorization"))
				assert.Equal(t, tt.wantValue, r.URL.Query().Get(tt.wantParam))
				assert.Empty(t, r.URL.Query().Get("actor"))

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient("tenant-key", WithBaseURL(srv.URL))
			records, err := client.SearchContacts(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Len(t, records, tt.wantLen)
		})
	}
}

func TestActorQueryParameter(t *testing.T) {
	var gotActor string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotActor = r.URL.Query().Get("actor")
		_, _ = w.Write([]byte(`{"jnid":"c1","number":1001}`))
	}))
	defer srv.Close()

	client := NewClient("k", WithBaseURL(srv.URL), WithActor("rep@example.com"))
	rec, err := client.GetContact(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "rep@example.com", gotActor)
	assert.Equal(t, json.Number("1001"), rec["number"])
}

func TestCreateContactSendsJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/contacts", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Jane Doe", body["display_name"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"jnid":"c-new"}`))
	}))
	defer srv.Close()

	client := NewClient("k", WithBaseURL(srv.URL))
	rec, err := client.CreateContact(context.Background(), map[string]any{"display_name": "Jane Doe"})
	require.NoError(t, err)
	assert.Equal(t, "c-new", rec["jnid"])
}

func TestCreateJobAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jobs", r.URL.Path)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"CouchbaseError: document not found"}`))
	}))
	defer srv.Close()

	client := NewClient("k", WithBaseURL(srv.URL))
	rec, err := client.CreateJob(context.Background(), map[string]any{"name": "x"})
	require.Error(t, err)
	assert.Nil(t, rec)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.HTTPStatus())
	assert.Equal(t, "create job", apiErr.Op)
	assert.Contains(t, apiErr.ResponseBody(), "CouchbaseError")
	assert.Contains(t, err.Error(), "unexpected status 500")
}

func TestGetJobNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jobs/j%201", r.URL.EscapedPath())
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient("k", WithBaseURL(srv.URL))
	_, err := client.GetJob(context.Background(), "j 1")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.HTTPStatus())
}

func TestEmptyIDRejected(t *testing.T) {
	client := NewClient("k")
	_, err := client.GetContact(context.Background(), "")
	assert.Error(t, err)
	_, err = client.GetJob(context.Background(), "")
	assert.Error(t, err)
}

func TestMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{invalid json`))
	}))
	defer srv.Close()

	client := NewClient("k", WithBaseURL(srv.URL))
	_, err := client.GetContact(context.Background(), "c1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal response")
}

func TestEmptyCreateResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewClient("k", WithBaseURL(srv.URL))
	rec, err := client.CreateContact(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Empty(t, rec)
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient("k", WithBaseURL(srv.URL), WithTimeout(10*time.Millisecond))
	_, err := client.GetContact(context.Background(), "c1")
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestRateLimitCancelledContext(t *testing.T) {
	client := NewClient("k", WithBaseURL("http://127.0.0.1:0"), WithRateLimit(1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetContact(ctx, "c1")
	require.Error(t, err)
}

func TestFactoryAttachesActor(t *testing.T) {
	var actors []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actors = append(actors, r.URL.Query().Get("actor"))
		assert.Equal(t, "Bearer key-"+r.URL.Query().Get("actor"), r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	factory := NewFactory(WithBaseURL(srv.URL + "/"))
	_, err := factory("key-a@x.com", "a@x.com").SearchContacts(context.Background(), ContactQuery{Name: "x"})
	require.NoError(t, err)
	_, err = factory("key-", "").SearchContacts(context.Background(), ContactQuery{Name: "x"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a@x.com", ""}, actors)
}

func TestContactQueryDiscriminator(t *testing.T) {
	key, val := ContactQuery{}.Discriminator()
	assert.Empty(t, key)
	assert.Empty(t, val)

	key, val = ContactQuery{Phone: "p", Email: "e"}.Discriminator()
	assert.Equal(t, "phone", key)
	assert.Equal(t, "p", val)
}

func TestFactorySharesRateLimiter(t *testing.T) {
	f := NewFactory(WithRateLimit(2))
	a := f("k1", "").(*httpClient)
	b := f("k2", "a@example.com").(*httpClient)
	require.NotNil(t, a.limiter)
	assert.Same(t, a.limiter, b.limiter)

	none := NewClient("k", WithRateLimit(0)).(*httpClient)
	assert.Nil(t, none.limiter)
}

func TestWithHTTPClientIsCopied(t *testing.T) {
	hc := &http.Client{Timeout: time.Minute}
	c := NewClient("k", WithHTTPClient(hc), WithTimeout(time.Second)).(*httpClient)
	assert.Equal(t, time.Second, c.http.Timeout)
	assert.Equal(t, time.Minute, hc.Timeout)
}
