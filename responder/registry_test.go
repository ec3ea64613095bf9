package responder

import (
	"context"
	"testing"

	"github.com/poiesic/concierge/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	_, err := NewRegistry(map[core.Category]Responder{"Astrology": Generic{}})
	assert.ErrorIs(t, err, core.ErrUnknownCategory)

	_, err = NewRegistry(map[core.Category]Responder{core.CategoryRetail: nil})
	assert.ErrorIs(t, err, ErrResponderRequired)

	_, err = NewRegistry(nil, WithFallback(nil))
	assert.ErrorIs(t, err, ErrResponderRequired)
}

func TestRegistry_IsClosed(t *testing.T) {
	entries := map[core.Category]Responder{core.CategoryBotService: BotService{}}
	reg, err := NewRegistry(entries)
	require.NoError(t, err)

	entries[core.CategoryAdvertising] = Advertising{}
	assert.Equal(t, []core.Category{core.CategoryBotService}, reg.Categories())
	assert.IsType(t, Generic{}, reg.Lookup(core.CategoryAdvertising))
}

func TestDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()

	assert.IsType(t, &Education{}, reg.Lookup(core.CategoryEducation))
	assert.IsType(t, BotService{}, reg.Lookup(core.CategoryBotService))
	assert.IsType(t, &KeywordFilter{}, reg.Lookup(core.CategoryAccommodation))
	assert.IsType(t, Generic{}, reg.Lookup(core.CategoryArtsAndCulture))
	assert.IsType(t, Generic{}, reg.Lookup(core.CategoryUnknown))

	res, err := reg.Lookup(core.CategoryAccommodation).Respond(context.Background(),
		"Necesito un hotel en Barcelona",
		[]core.Record{{ID: 1, Name: "Hotel Condal", Category: core.CategoryAccommodation}},
		core.LanguageSpanish)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Len(t, res.Items[0].FAQ, 2, "default FAQ attached")
}
