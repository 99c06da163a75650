package httpclient

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBody_SetsHeaders(t *testing.T) {
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.UserAgent = "yield-test/0.1"

	body, err := GetBody(context.Background(), New(cfg), srv.URL)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, "yield-test/0.1", gotUA)
	assert.Equal(t, "application/json", gotAccept)
}

func TestGetBody_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := GetBody(context.Background(), New(DefaultConfig()), srv.URL)

	var se *StatusError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, http.StatusServiceUnavailable, se.Status)
	assert.Equal(t, srv.URL, se.URL)
}

func TestGetBody_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := GetBody(ctx, New(DefaultConfig()), srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGetBody_TooLarge(t *testing.T) {
	// GIVEN: A response one byte over the limit
	// WHEN: Reading it
	// THEN: ErrTooLarge instead of a truncated body

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte("a"), maxBody+1))
	}))
	defer srv.Close()

	body, err := GetBody(context.Background(), New(DefaultConfig()), srv.URL)
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Nil(t, body)
}

func TestGetBody_AtLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte("a"), maxBody))
	}))
	defer srv.Close()

	body, err := GetBody(context.Background(), New(DefaultConfig()), srv.URL)
	require.NoError(t, err)
	assert.Len(t, body, maxBody)
}
