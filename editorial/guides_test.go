package editorial

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/concierge/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGuides() []Guide {
	return []Guide{
		{Title: "Cómo obtener el NIE", Slug: "nie", Category: core.CategoryImmigration, Keywords: []string{"nie", "extranjería", "residencia"}},
		{Title: "Alquilar piso en Barcelona", Slug: "alquiler", Category: core.CategoryAccommodation, Keywords: []string{"alquiler", "piso", "fianza"}},
		{Title: "Sanidad pública", Slug: "sanidad", Category: core.CategoryHealthcare, Keywords: []string{"tarjeta sanitaria", "cap"}},
	}
}

func TestGuideLibrary_Search(t *testing.T) {
	lib := NewGuideLibrary(sampleGuides())
	ctx := context.Background()

	t.Run("category and keywords", func(t *testing.T) {
		got, err := lib.Search(ctx, []string{"piso", "barcelona"}, core.CategoryAccommodation)
		require.NoError(t, err)
		require.Len(t, got, 1)
		// +3 category, +2 "piso" keyword, +1 "piso" title, +1 "barcelona" title
		assert.Equal(t, 7, got[0].Score)
		assert.Equal(t, "/revista/guias/alquiler", got[0].URL)
		assert.Equal(t, core.GuideTypeGuide, got[0].Type)
	})

	t.Run("keyword substring of guide keyword", func(t *testing.T) {
		got, err := lib.Search(ctx, []string{"sanitaria"}, core.CategoryUnknown)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "sanidad", got[0].Slug)
		assert.Equal(t, 2, got[0].Score)
	})

	t.Run("keyword and category score equally", func(t *testing.T) {
		got, err := lib.Search(ctx, []string{"nie"}, core.CategoryHealthcare)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "nie", got[0].Slug, "ties keep library order")
		assert.Equal(t, 3, got[0].Score)
		assert.Equal(t, "sanidad", got[1].Slug)
		assert.Equal(t, 3, got[1].Score)
	})

	t.Run("no match", func(t *testing.T) {
		got, err := lib.Search(ctx, []string{"zzz"}, "")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestLoadGuides(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
	}
	write("a.json", `{"titulo":"Empadronamiento","resumen":"Paso a paso","slug":"padron","categoria":"Immigration","keywords":["padrón"]}`)
	write("b.json", `{"title":"Opening a bank account","summary":"Banks","slug":"bank","category":"Legal and Financial","tags":["bank"]}`)
	write("broken.json", `{not json`)
	write("untitled.json", `{"slug":"x"}`)
	write("notes.txt", `ignored`)

	lib, err := LoadGuides(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, lib.Len())

	got, err := lib.Search(context.Background(), []string{"bank"}, core.CategoryLegalAndFinancial)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Opening a bank account", got[0].Title)
	assert.Equal(t, "Banks", got[0].Summary)
}

func TestLoadGuides_MissingDir(t *testing.T) {
	lib, err := LoadGuides(filepath.Join(t.TempDir(), "nope"), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, lib.Len())
}
