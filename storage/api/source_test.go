package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payload = `{"advertisers": [
	{"nombre": "Hotel Condal", "descripcion": "Hotel boutique", "es_anunciante": true},
	{"nombre": "Hostal Sol", "categoria": "Accommodation"}
]}`

func TestSource_FetchCategory(t *testing.T) {
	var gotAuth, gotCategory, gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/advertisers", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotCategory = r.URL.Query().Get("category")
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	src, err := NewSource(srv.URL+"/", WithAPIKey("secret"), WithPageLimit(50))
	require.NoError(t, err)

	records, err := src.FetchCategory(context.Background(), core.CategoryAccommodation)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "Accommodation", gotCategory)
	assert.Equal(t, "50", gotLimit)
	assert.Equal(t, "Hotel Condal", records[0].Name)
	assert.Equal(t, core.CategoryAccommodation, records[0].Category)
	assert.True(t, records[0].Sponsored)
	assert.NotZero(t, records[0].ID)
}

func TestSource_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	src, err := NewSource(srv.URL, WithRetries(2))
	require.NoError(t, err)

	records, err := src.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSource_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	src, err := NewSource(srv.URL)
	require.NoError(t, err)

	_, err = src.FetchAll(context.Background())
	assert.ErrorIs(t, err, storage.ErrSourceUnavailable)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSource_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	src, err := NewSource(srv.URL, WithTimeout(20*time.Millisecond), WithRetries(0))
	require.NoError(t, err)

	_, err = src.FetchAll(context.Background())
	assert.ErrorIs(t, err, storage.ErrSourceUnavailable)
}

func TestSource_BadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	src, err := NewSource(srv.URL)
	require.NoError(t, err)
	_, err = src.FetchAll(context.Background())
	assert.ErrorIs(t, err, storage.ErrSourceUnavailable)
}

func TestNewSource_InvalidURL(t *testing.T) {
	_, err := NewSource("")
	assert.Error(t, err)
	_, err = NewSource("not a url")
	assert.Error(t, err)
}
