package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pagescout/pagescout"
	pagescouthttp "github.com/pagescout/pagescout/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch_returns_status_and_content_type(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><title>Hello</title></html>"))
	}))
	defer ts.Close()

	f := pagescouthttp.NewFetcher()
	defer f.Close()

	result, err := f.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", result.ContentType)
	assert.Contains(t, result.Body, "Hello")
	assert.True(t, result.OK())
	assert.True(t, result.HTMLShaped())
}

func TestFetcher_Fetch_non_2xx_is_a_result_not_an_error(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()

	f := pagescouthttp.NewFetcher()
	defer f.Close()

	result, err := f.Fetch(context.Background(), ts.URL+"/missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
	assert.False(t, result.OK())
}

func TestFetcher_Fetch_follows_redirects(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>landed</html>"))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	f := pagescouthttp.NewFetcher()
	defer f.Close()

	result, err := f.Fetch(context.Background(), ts.URL+"/old")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Contains(t, result.Body, "landed")
}

func TestFetcher_Fetch_sends_stored_cookies(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc123", Path: "/"})
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/private", func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("session")
		if err != nil || c.Value != "abc123" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Write([]byte("secret page"))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	f := pagescouthttp.NewFetcher()
	defer f.Close()

	_, err := f.Fetch(context.Background(), ts.URL+"/login")
	require.NoError(t, err)

	result, err := f.Fetch(context.Background(), ts.URL+"/private")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Contains(t, result.Body, "secret page")
}

func TestFetcher_Fetch_respects_context_cancellation(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer ts.Close()

	f := pagescouthttp.NewFetcher(pagescouthttp.WithTimeout(10 * time.Second))
	defer f.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := f.Fetch(ctx, ts.URL)
	require.Error(t, err)
	assert.Equal(t, pagescout.EUNAVAILABLE, pagescout.ErrorCode(err))
}

func TestFetcher_Fetch_invalid_url(t *testing.T) {
	t.Parallel()

	f := pagescouthttp.NewFetcher()
	defer f.Close()

	_, err := f.Fetch(context.Background(), "://nope")
	require.Error(t, err)
	assert.Equal(t, pagescout.EINVALID, pagescout.ErrorCode(err))
}
