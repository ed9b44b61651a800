package symbols

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FindSymbols(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "F", r.URL.Query().Get("name"))
		assert.Equal(t, "x.go", r.URL.Query().Get("file"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbols":[{"name":"F","file":"x.go","kind":"func"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	matches, err := c.FindSymbols(context.Background(), "F", "x.go")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "x.go", matches[0].File)
}

func TestClient_FindSymbols_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.FindSymbols(context.Background(), "F", "x.go")
	assert.Error(t, err)
}

func TestClient_FindSymbols_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.FindSymbols(context.Background(), "F", "x.go")
	assert.Error(t, err)
}
