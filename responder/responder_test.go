package responder

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/concierge/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func housing() []core.Record {
	return []core.Record{
		{ID: 1, Name: "Hotel Condal", Category: core.CategoryAccommodation, Description: "Hotel boutique en el Born", Benefits: []string{"Desayuno"}},
		{ID: 2, Name: "Pisos Gràcia", Category: core.CategoryAccommodation, Description: "Alquiler de pisos", FAQ: []core.FAQ{{Question: "q", Answer: "a"}}},
		{ID: 3, Name: "Mudanzas Rápidas", Category: core.CategoryAccommodation, Description: "Transporte"},
	}
}

func TestGeneric(t *testing.T) {
	in := housing()
	res, err := Generic{}.Respond(context.Background(), "hola", in, core.LanguageSpanish)
	require.NoError(t, err)
	assert.Equal(t, in, res.Items)
	assert.Empty(t, res.SummaryPoints)
	assert.NotNil(t, res.SummaryPoints)

	res.Items[0].Benefits[0] = "changed"
	assert.Equal(t, "Desayuno", in[0].Benefits[0])
}

func TestResponderFunc(t *testing.T) {
	boom := errors.New("boom")
	var r Responder = ResponderFunc(func(context.Context, string, []core.Record, core.Language) (Result, error) {
		return Result{}, boom
	})
	_, err := r.Respond(context.Background(), "", nil, core.LanguageEnglish)
	assert.ErrorIs(t, err, boom)
}

func TestSummarize(t *testing.T) {
	points := Summarize(housing(), 2)
	require.Len(t, points, 2)
	assert.Equal(t, "Hotel Condal", points[0].Name)
	assert.Equal(t, []string{"Desayuno"}, points[0].Benefits)

	assert.Len(t, Summarize(housing(), 10), 3)
	assert.Empty(t, Summarize(nil, 2))
	assert.Empty(t, Summarize(housing(), -1))
}

func TestKeywordFilter(t *testing.T) {
	f, err := NewKeywordFilter([]string{"pisos", "alquiler"}, map[core.Language][]core.FAQ{
		core.LanguageSpanish: {{Question: "¿Check-in?", Answer: "14:00"}},
	})
	require.NoError(t, err)

	t.Run("record fields match", func(t *testing.T) {
		in := housing()
		res, err := f.Respond(context.Background(), "algo barato", in, core.LanguageSpanish)
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, core.ID(2), res.Items[0].ID)
		assert.Equal(t, "q", res.Items[0].FAQ[0].Question, "existing FAQ kept")
	})

	t.Run("question match selects everything", func(t *testing.T) {
		res, err := f.Respond(context.Background(), "busco alquiler", housing(), core.LanguageSpanish)
		require.NoError(t, err)
		assert.Len(t, res.Items, 3)
		assert.Len(t, res.SummaryPoints, 2)
	})

	t.Run("no match returns all others with default FAQ", func(t *testing.T) {
		g, err := NewKeywordFilter([]string{"yoga"}, map[core.Language][]core.FAQ{
			core.LanguageSpanish: {{Question: "¿Check-in?", Answer: "14:00"}},
		})
		require.NoError(t, err)

		in := housing()
		res, err := g.Respond(context.Background(), "hola", in, core.LanguageEnglish)
		require.NoError(t, err)
		require.Len(t, res.Items, 3)
		assert.Equal(t, "¿Check-in?", res.Items[0].FAQ[0].Question, "falls back to default language")
		assert.Empty(t, in[0].FAQ, "input must not be mutated")
	})

	t.Run("empty candidates", func(t *testing.T) {
		res, err := f.Respond(context.Background(), "alquiler", nil, core.LanguageSpanish)
		require.NoError(t, err)
		assert.NotNil(t, res.Items)
		assert.Empty(t, res.Items)
	})

	_, err = NewKeywordFilter([]string{" ", ""}, nil)
	assert.ErrorIs(t, err, ErrNoKeywords)
}

func TestEducation(t *testing.T) {
	e := NewEducation()

	t.Run("placeholder for thin results", func(t *testing.T) {
		in := []core.Record{{ID: 7, Name: "Academia Sol", Category: core.CategoryEducation, Description: "Clases de idiomas"}}
		res, err := e.Respond(context.Background(), "Quiero aprender catalán", in, core.LanguageSpanish)
		require.NoError(t, err)
		require.Len(t, res.Items, 2)
		assert.True(t, res.Items[0].Sponsored)
		assert.False(t, in[0].Sponsored, "input must not be mutated")
		assert.True(t, res.Items[1].Synthetic)
		assert.Equal(t, "Escuelas de idiomas en Barcelona", res.Items[1].Name)
		assert.Equal(t, core.CategoryEducation, res.Items[1].Category)
	})

	t.Run("english placeholder", func(t *testing.T) {
		res, err := e.Respond(context.Background(), "a good university", nil, core.LanguageEnglish)
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, "Universities in Barcelona", res.Items[0].Name)
	})

	t.Run("no trigger no placeholder", func(t *testing.T) {
		res, err := e.Respond(context.Background(), "hola", nil, core.LanguageSpanish)
		require.NoError(t, err)
		assert.Empty(t, res.Items)
	})
}

func TestBotService(t *testing.T) {
	res, err := BotService{}.Respond(context.Background(), "bot", housing(), core.LanguageEnglish)
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Appointment scheduling bot", res.Items[0].Name)
	assert.Len(t, res.SummaryPoints, 2)

	res2, _ := BotService{}.Respond(context.Background(), "bot", nil, core.LanguageEnglish)
	res2.Items[0].FAQ[0].Answer = "changed"
	res3, _ := BotService{}.Respond(context.Background(), "bot", nil, core.LanguageEnglish)
	assert.NotEqual(t, "changed", res3.Items[0].FAQ[0].Answer, "static offerings are copied")
}

func TestImmigration(t *testing.T) {
	im := NewImmigration()

	t.Run("legal advertisers", func(t *testing.T) {
		in := []core.Record{
			{ID: 1, Name: "Klev&Vera", Description: "Abogados de extranjería"},
			{ID: 2, Name: "Hotel Condal", Description: "Hotel"},
		}
		res, err := im.Respond(context.Background(), "nie", in, core.LanguageSpanish)
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, core.ID(1), res.Items[0].ID)
	})

	t.Run("guidance when no lawyers", func(t *testing.T) {
		res, err := im.Respond(context.Background(), "nie", nil, core.LanguageEnglish)
		require.NoError(t, err)
		require.Len(t, res.Items, 3)
		for _, r := range res.Items {
			assert.True(t, r.Synthetic)
			assert.Equal(t, core.CategoryImmigration, r.Category)
		}
		assert.Equal(t, "NIE (Foreigner Identification Number)", res.Items[0].Name)
	})
}

func TestAdvertising(t *testing.T) {
	res, err := Advertising{}.Respond(context.Background(), "publicidad", nil, core.LanguageSpanish)
	require.NoError(t, err)
	require.Len(t, res.Items, 3)
	assert.Equal(t, "Directorio", res.Items[0].Name)
	assert.Len(t, res.SummaryPoints, 2)

	in := []core.Record{{ID: 9, Name: "Paquete Verano", Category: core.CategoryAdvertising}}
	res, err = Advertising{}.Respond(context.Background(), "publicidad", in, core.LanguageSpanish)
	require.NoError(t, err)
	assert.Equal(t, in, res.Items)
}
