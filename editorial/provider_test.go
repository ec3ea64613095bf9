package editorial

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/concierge/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type providerFunc func(ctx context.Context, keywords []string, category core.Category) ([]core.GuideSummary, error)

func (f providerFunc) Search(ctx context.Context, keywords []string, category core.Category) ([]core.GuideSummary, error) {
	return f(ctx, keywords, category)
}

func TestMulti_Search(t *testing.T) {
	failing := providerFunc(func(context.Context, []string, core.Category) ([]core.GuideSummary, error) {
		return nil, errors.New("down")
	})
	panicking := providerFunc(func(context.Context, []string, core.Category) ([]core.GuideSummary, error) {
		panic("boom")
	})
	guides := NewGuideLibrary(sampleGuides())

	m := NewMulti(nil, failing, nil, panicking, guides)
	got, err := m.Search(context.Background(), []string{"nie"}, core.CategoryImmigration)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "nie", got[0].Slug)
}

func TestMulti_Empty(t *testing.T) {
	got, err := NewMulti(nil).Search(context.Background(), []string{"x"}, "")
	require.NoError(t, err)
	assert.Empty(t, got)
}
