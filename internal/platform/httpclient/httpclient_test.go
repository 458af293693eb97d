package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_DecodesAndSendsHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/ping", r.URL.Path)
		assert.Equal(t, "abc", r.Header.Get("X-Session-ID"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL+"/", 0, nil)
	require.NoError(t, err)

	var out struct {
		OK bool `json:"ok"`
	}
	err = c.Do(context.Background(), Request{
		Path:    "v1/ping",
		Headers: map[string]string{"X-Session-ID": "abc"},
	}, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)
}

func TestDo_Non2xxIsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := New(srv.URL, 0, nil)
	require.NoError(t, err)

	err = c.Do(context.Background(), Request{Path: "/x"}, nil)
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.False(t, IsStatus(err, http.StatusNotFound))
}

func TestResolveURL_RelativeWithoutBase(t *testing.T) {
	c, err := New("", 0, nil)
	require.NoError(t, err)

	_, err = c.DoRaw(context.Background(), Request{Path: "/x"})
	assert.Error(t, err)
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := New("::not a url", 0, nil)
	assert.Error(t, err)
}
