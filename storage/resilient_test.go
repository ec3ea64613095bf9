package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/concierge/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	name    string
	records []core.Record
	err     error
	panics  bool
	calls   int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) FetchCategory(_ context.Context, category core.Category) ([]core.Record, error) {
	f.calls++
	if f.panics {
		panic("boom")
	}
	if f.err != nil {
		return nil, f.err
	}
	var out []core.Record
	for _, r := range f.records {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeSource) FetchAll(_ context.Context) ([]core.Record, error) {
	f.calls++
	if f.panics {
		panic("boom")
	}
	return f.records, f.err
}

func TestNewResilientStore(t *testing.T) {
	_, err := NewResilientStore(nil)
	assert.ErrorIs(t, err, ErrNoSources)

	_, err = NewResilientStore([]Source{nil})
	assert.ErrorIs(t, err, ErrNoSources)
}

func TestResilientStore_Fallback(t *testing.T) {
	ctx := context.Background()
	hotel := core.Record{Name: "Hotel Condal", Category: core.CategoryAccommodation}

	failing := &fakeSource{name: "api", err: ErrSourceUnavailable}
	panicking := &fakeSource{name: "db", panics: true}
	empty := &fakeSource{name: "snapshot"}
	file := &fakeSource{name: "file", records: []core.Record{hotel}}

	store, err := NewResilientStore([]Source{failing, panicking, empty, file})
	require.NoError(t, err)

	got := store.GetByCategory(ctx, core.CategoryAccommodation)
	require.Len(t, got, 1)
	assert.Equal(t, "Hotel Condal", got[0].Name)
	assert.NotZero(t, got[0].ID, "missing IDs are derived")
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, panicking.calls)
	assert.Equal(t, 1, empty.calls)
}

func TestResilientStore_AllFail(t *testing.T) {
	store, err := NewResilientStore([]Source{&fakeSource{name: "api", err: errors.New("down")}})
	require.NoError(t, err)

	got := store.GetAll(context.Background())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestResilientStore_UnknownCategory(t *testing.T) {
	src := &fakeSource{name: "file"}
	store, err := NewResilientStore([]Source{src})
	require.NoError(t, err)

	assert.Empty(t, store.GetByCategory(context.Background(), core.CategoryUnknown))
	assert.Equal(t, 0, src.calls)
}

func TestResilientStore_ReturnsCopies(t *testing.T) {
	src := &fakeSource{name: "file", records: []core.Record{{ID: 1, Name: "A", Category: core.CategoryRetail, Benefits: []string{"x"}}}}
	store, err := NewResilientStore([]Source{src})
	require.NoError(t, err)

	got := store.GetAll(context.Background())
	got[0].Benefits[0] = "changed"
	assert.Equal(t, "x", src.records[0].Benefits[0])
}
