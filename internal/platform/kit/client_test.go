package kit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	Method string
	Path   string
	APIKey string
	Body   map[string]any
}

func newKitServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *[]recordedCall) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []recordedCall
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc := recordedCall{Method: r.Method, Path: r.URL.Path, APIKey: r.Header.Get("X-Kit-Api-Key")}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&rc.Body)
		}
		mu.Lock()
		calls = append(calls, rc)
		mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestClient_Operations(t *testing.T) {
	srv, calls := newKitServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v4/subscribers":
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"subscriber":{"id":286,"email_address":"ada@example.com","state":"active"}}`))
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{}`))
		}
	})

	c, err := NewClient(ClientOptions{BaseURL: srv.URL + "/v4/", APIKey: "kit_key", HTTPClient: srv.Client()})
	require.NoError(t, err)
	ctx := context.Background()

	id, err := c.UpsertSubscriber(ctx, "ada@example.com", "Ada")
	require.NoError(t, err)
	require.Equal(t, int64(286), id)
	require.NoError(t, c.AddTag(ctx, 11, id))
	require.NoError(t, c.RemoveTag(ctx, 12, id))
	require.NoError(t, c.Unsubscribe(ctx, id))

	require.Len(t, *calls, 4)
	got := *calls
	require.Equal(t, "ada@example.com", got[0].Body["email_address"])
	require.Equal(t, "Ada", got[0].Body["first_name"])
	require.Equal(t, "/v4/tags/11/subscribers/286", got[1].Path)
	require.Equal(t, http.MethodDelete, got[2].Method)
	require.Equal(t, "/v4/tags/12/subscribers/286", got[2].Path)
	require.Equal(t, "/v4/subscribers/286/unsubscribe", got[3].Path)
	for _, call := range got {
		require.Equal(t, "kit_key", call.APIKey)
	}
}

func TestClient_APIError(t *testing.T) {
	srv, _ := newKitServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":["Tag not found"]}`))
	})
	c, err := NewClient(ClientOptions{BaseURL: srv.URL, APIKey: "kit_key", HTTPClient: srv.Client()})
	require.NoError(t, err)

	err = c.AddTag(context.Background(), 1, 2)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	require.Equal(t, "add_tag", apiErr.Endpoint)
	require.Contains(t, apiErr.Body, "Tag not found")
}

func TestClient_MissingSubscriberID(t *testing.T) {
	srv, _ := newKitServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"subscriber":{}}`))
	})
	c, err := NewClient(ClientOptions{BaseURL: srv.URL, APIKey: "kit_key", HTTPClient: srv.Client()})
	require.NoError(t, err)

	_, err = c.UpsertSubscriber(context.Background(), "ada@example.com", "")
	require.Error(t, err)
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(ClientOptions{})
	require.Error(t, err)
}
