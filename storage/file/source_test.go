package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const export = `{
	"Accommodation": [
		{"nombre": "Hotel Condal", "descripcion": "Hotel boutique", "beneficios": ["Desayuno"]},
		{"nombre": "Hostal Sol"}
	],
	"Legal and Financial": [
		{"nombre": "Bufete Martí", "faq": [{"q": "¿NIE?", "a": "Sí"}]}
	]
}`

func writeExport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "anunciantes.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSource_Fetch(t *testing.T) {
	ctx := context.Background()
	src := NewSource(writeExport(t, export))

	all, err := src.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	acc, err := src.FetchCategory(ctx, core.CategoryAccommodation)
	require.NoError(t, err)
	require.Len(t, acc, 2)
	assert.Equal(t, "Hotel Condal", acc[0].Name)
	assert.Equal(t, core.CategoryAccommodation, acc[0].Category)
	assert.Equal(t, []string{"Desayuno"}, acc[0].Benefits)

	legal, err := src.FetchCategory(ctx, core.CategoryLegalAndFinancial)
	require.NoError(t, err)
	require.Len(t, legal, 1)
	assert.Equal(t, "Sí", legal[0].FAQ[0].Answer)
}

func TestSource_Cached(t *testing.T) {
	path := writeExport(t, export)
	src := NewSource(path)

	_, err := src.FetchAll(context.Background())
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	all, err := src.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Error(t, src.Reload())
}

func TestSource_Missing(t *testing.T) {
	src := NewSource(filepath.Join(t.TempDir(), "missing.json"))
	_, err := src.FetchAll(context.Background())
	assert.ErrorIs(t, err, storage.ErrSourceUnavailable)
}

func TestSource_Malformed(t *testing.T) {
	src := NewSource(writeExport(t, `[1, 2]`))
	_, err := src.FetchAll(context.Background())
	assert.ErrorIs(t, err, storage.ErrSourceUnavailable)
}

func TestEncodeDecode(t *testing.T) {
	in, err := Decode([]byte(export))
	require.NoError(t, err)

	data, err := Encode(in)
	require.NoError(t, err)
	out, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
