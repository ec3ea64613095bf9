package classifier

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/poiesic/concierge/ai/mock"
	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var directory = []core.Record{
	{ID: 1, Name: "Hotel Condal", Category: core.CategoryAccommodation},
	{ID: 2, Name: "Bufete Martí", Category: core.CategoryLegalAndFinancial},
}

// vectorEmbedder embeds the two-row test table onto fixed axes and
// questions onto whatever vector the test pins.
func vectorEmbedder(questions map[string][]float32) *mock.MockEmbedder {
	return mock.NewMockEmbedder().WithEmbedTextFunc(func(ctx context.Context, text string) ([]float32, error) {
		switch {
		case strings.HasPrefix(text, "Servicios sobre healthcare"):
			return []float32{1, 0}, nil
		case strings.HasPrefix(text, "Servicios sobre retail"):
			return []float32{0, 1}, nil
		}
		if v, ok := questions[text]; ok {
			return v, nil
		}
		return nil, errors.New("unexpected text: " + text)
	})
}

func twoRowTable() index.KeywordTable {
	return index.KeywordTable{
		{Category: core.CategoryHealthcare, Patterns: map[core.Language][]string{
			core.LanguageSpanish: {"medico"}, core.LanguageEnglish: {"doctor"},
		}},
		{Category: core.CategoryRetail, Patterns: map[core.Language][]string{
			core.LanguageSpanish: {"tienda"}, core.LanguageEnglish: {"shop"},
		}},
	}
}

func newDefaultClassifier(t *testing.T, opts ...Option) *Classifier {
	t.Helper()
	ctx := context.Background()
	embedder := mock.NewMockEmbedder()
	cats, err := index.BuildCategoryIndex(ctx, embedder, index.DefaultKeywordTable())
	require.NoError(t, err)

	opts = append([]Option{WithNameIndex(index.BuildNameIndex(directory)), WithEmbedder(embedder)}, opts...)
	c, err := New(cats, opts...)
	require.NoError(t, err)
	return c
}

func TestNew_RequiresIndex(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrCategoryIndexRequired)
}

func TestNew_InvalidOptions(t *testing.T) {
	cats, err := index.BuildCategoryIndex(context.Background(), nil, twoRowTable())
	require.NoError(t, err)

	_, err = New(cats, WithSemanticThreshold(1.5))
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	_, err = New(cats, WithKeywordWeights(-1, 0.25))
	assert.ErrorIs(t, err, ErrInvalidKeywordWeights)

	_, err = New(cats, WithCriticalTerms("Astrology", core.LanguageSpanish, []string{"horoscopo"}))
	assert.ErrorIs(t, err, core.ErrUnknownCategory)

	_, err = New(cats, WithCriticalTerms(core.CategoryHealthcare, "fr", []string{"urgence"}))
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestClassify_CriticalOverride(t *testing.T) {
	c := newDefaultClassifier(t)

	tests := []struct {
		name     string
		question string
		lang     core.Language
	}{
		{"english with housing words", "I need a hotel apartment and my national identity number", core.LanguageEnglish},
		{"spanish accents", "¿Cómo pido el Número de Identidad de Extranjero?", core.LanguageSpanish},
		{"english term in spanish request", "necesito un piso y el residence permit", core.LanguageSpanish},
		{"business name present", "Hotel Condal y permiso de residencia", core.LanguageSpanish},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := c.Classify(context.Background(), tt.question, tt.lang)
			assert.Equal(t, core.CategoryImmigration, r.Category)
			assert.Equal(t, 0.95, r.Confidence)
			assert.Equal(t, core.StageCritical, r.Stage)
			assert.Nil(t, r.Record)
		})
	}
}

func TestClassify_ShortAcronymsDoNotOverride(t *testing.T) {
	c := newDefaultClassifier(t)

	r := c.Classify(context.Background(), "busco una tienda de ropa", core.LanguageSpanish)
	assert.Equal(t, core.CategoryRetail, r.Category)
	assert.Equal(t, core.StageKeyword, r.Stage)
}

func TestClassify_BusinessName(t *testing.T) {
	c := newDefaultClassifier(t)

	r := c.Classify(context.Background(), "¿Qué opinas del bufete marti para un contrato?", core.LanguageSpanish)
	assert.Equal(t, core.CategoryLegalAndFinancial, r.Category)
	assert.Equal(t, 0.9, r.Confidence)
	assert.Equal(t, core.StageBusinessName, r.Stage)
	require.NotNil(t, r.Record)
	assert.Equal(t, core.ID(2), r.Record.ID)
	assert.Equal(t, "bufete marti", r.Matched)
}

func TestClassify_BusinessNameBeatsKeywords(t *testing.T) {
	c := newDefaultClassifier(t)

	r := c.Classify(context.Background(), "cena en el restaurante junto al hotel condal", core.LanguageSpanish)
	assert.Equal(t, core.CategoryAccommodation, r.Category)
	assert.Equal(t, core.StageBusinessName, r.Stage)
}

func TestClassify_Keyword(t *testing.T) {
	c := newDefaultClassifier(t)

	r := c.Classify(context.Background(), "Necesito un hotel en Barcelona", core.LanguageSpanish)
	assert.Equal(t, core.CategoryAccommodation, r.Category, "tie with bar in barcelona keeps table order")
	assert.Equal(t, core.StageKeyword, r.Stage)
	assert.InDelta(t, 0.4, r.Confidence, 1e-9)

	r = c.Classify(context.Background(), "looking for a dentist or a clinic with good insurance", core.LanguageEnglish)
	assert.Equal(t, core.CategoryHealthcare, r.Category)
	assert.InDelta(t, 0.7, r.Confidence, 1e-9)
}

func TestClassify_KeywordUsesRequestLanguage(t *testing.T) {
	c := newDefaultClassifier(t)

	r := c.Classify(context.Background(), "farmacia", core.LanguageEnglish)
	assert.NotEqual(t, core.StageKeyword, r.Stage, "spanish pattern must not fire for english requests")

	r = c.Classify(context.Background(), "farmacia", core.LanguageSpanish)
	assert.Equal(t, core.CategoryHealthcare, r.Category)
	assert.Equal(t, core.StageKeyword, r.Stage)
}

func TestKeywordConfidence_Monotonic(t *testing.T) {
	c := newDefaultClassifier(t)

	prev := 0.0
	for hits := 1; hits <= 12; hits++ {
		conf := c.KeywordConfidence(hits)
		assert.GreaterOrEqual(t, conf, 0.25)
		assert.LessOrEqual(t, conf, 0.9)
		assert.GreaterOrEqual(t, conf, prev, "hits=%d", hits)
		prev = conf
	}
	assert.Equal(t, 0.9, c.KeywordConfidence(100))
}

func TestClassify_Semantic(t *testing.T) {
	ctx := context.Background()
	embedder := vectorEmbedder(map[string][]float32{
		"me duele la muela": {0.9, 0.1},
		"algo raro":         {-1, 0.1},
		"nada que ver":      {-1, -1},
	})
	cats, err := index.BuildCategoryIndex(ctx, embedder, twoRowTable())
	require.NoError(t, err)
	require.True(t, cats.Semantic())

	c, err := New(cats, WithEmbedder(embedder))
	require.NoError(t, err)

	t.Run("above threshold", func(t *testing.T) {
		r := c.Classify(ctx, "me duele la muela", core.LanguageSpanish)
		assert.Equal(t, core.CategoryHealthcare, r.Category)
		assert.Equal(t, core.StageSemantic, r.Stage)
		assert.InDelta(t, 0.9939, r.Confidence, 1e-3)
	})

	t.Run("below threshold reports best score", func(t *testing.T) {
		r := c.Classify(ctx, "algo raro", core.LanguageSpanish)
		assert.Equal(t, core.CategoryUnknown, r.Category)
		assert.Equal(t, core.StageUnknown, r.Stage)
		assert.InDelta(t, 0.0995, r.Confidence, 1e-3)
	})

	t.Run("negative similarity clamps to zero", func(t *testing.T) {
		r := c.Classify(ctx, "nada que ver", core.LanguageSpanish)
		assert.Equal(t, core.CategoryUnknown, r.Category)
		assert.Equal(t, 0.0, r.Confidence)
	})
}

func TestClassify_EmbeddingFailure(t *testing.T) {
	ctx := context.Background()
	cats, err := index.BuildCategoryIndex(ctx, vectorEmbedder(nil), twoRowTable())
	require.NoError(t, err)

	failing := mock.NewMockEmbedder().WithEmbedTextFunc(func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("connection refused")
	})
	mon := &recordingMonitor{}
	c, err := New(cats, WithEmbedder(failing), WithMonitor(mon))
	require.NoError(t, err)

	r := c.Classify(ctx, "una tienda cerca", core.LanguageSpanish)
	assert.Equal(t, core.CategoryRetail, r.Category, "keyword stage still runs")
	assert.Equal(t, 0, failing.CallCount(), "semantic stage not reached")

	r = c.Classify(ctx, "hola", core.LanguageSpanish)
	assert.Equal(t, core.CategoryUnknown, r.Category)
	assert.Equal(t, 0.0, r.Confidence)
	require.Len(t, mon.embeddingErrs, 1)
	assert.ErrorIs(t, mon.embeddingErrs[0], ErrEmbeddingUnavailable)
}

func TestClassify_NoEmbedder(t *testing.T) {
	cats, err := index.BuildCategoryIndex(context.Background(), nil, twoRowTable())
	require.NoError(t, err)
	c, err := New(cats)
	require.NoError(t, err)

	r := c.Classify(context.Background(), "", core.LanguageSpanish)
	assert.Equal(t, core.CategoryUnknown, r.Category)
	assert.Equal(t, 0.0, r.Confidence)
}

func TestClassify_CustomCriticalTerms(t *testing.T) {
	cats, err := index.BuildCategoryIndex(context.Background(), nil, twoRowTable())
	require.NoError(t, err)
	c, err := New(cats,
		WithCriticalTerms(core.CategoryImmigration, core.LanguageSpanish, nil),
		WithCriticalTerms(core.CategoryImmigration, core.LanguageEnglish, nil),
		WithCriticalTerms(core.CategoryHealthcare, core.LanguageSpanish, []string{"Urgencia Médica"}))
	require.NoError(t, err)

	r := c.Classify(context.Background(), "tengo una urgencia medica en la tienda", core.LanguageSpanish)
	assert.Equal(t, core.CategoryHealthcare, r.Category)
	assert.Equal(t, core.StageCritical, r.Stage)

	r = c.Classify(context.Background(), "residence permit", core.LanguageEnglish)
	assert.NotEqual(t, core.StageCritical, r.Stage)
}

func TestClassify_CriticalTermsPreferRequestLanguage(t *testing.T) {
	cats, err := index.BuildCategoryIndex(context.Background(), nil, twoRowTable())
	require.NoError(t, err)
	c, err := New(cats,
		WithCriticalTerms(core.CategoryHealthcare, core.LanguageSpanish, []string{"urgencia"}),
		WithCriticalTerms(core.CategoryRetail, core.LanguageEnglish, []string{"urgencia"}))
	require.NoError(t, err)

	r := c.Classify(context.Background(), "una urgencia", core.LanguageSpanish)
	assert.Equal(t, core.CategoryHealthcare, r.Category)

	r = c.Classify(context.Background(), "una urgencia", core.LanguageEnglish)
	assert.Equal(t, core.CategoryRetail, r.Category)
}

func TestClassify_PanickingEmbedder(t *testing.T) {
	ctx := context.Background()
	cats, err := index.BuildCategoryIndex(ctx, mock.NewMockEmbedder(), twoRowTable())
	require.NoError(t, err)

	crashing := mock.NewMockEmbedder().WithEmbedTextFunc(func(context.Context, string) ([]float32, error) {
		panic("embedding backend crashed")
	})
	mon := &recordingMonitor{}
	c, err := New(cats, WithEmbedder(crashing), WithMonitor(mon))
	require.NoError(t, err)

	t.Run("semantic stage degrades to unknown", func(t *testing.T) {
		var r core.ClassificationResult
		require.NotPanics(t, func() {
			r = c.Classify(ctx, "qwerty zxcv", core.LanguageSpanish)
		})
		assert.Equal(t, core.CategoryUnknown, r.Category)
		assert.Equal(t, 0.0, r.Confidence)
		assert.Contains(t, mon.events, "embedding-failed")
	})

	t.Run("earlier stages still decide", func(t *testing.T) {
		r := c.Classify(ctx, "busco un medico", core.LanguageSpanish)
		assert.Equal(t, core.CategoryHealthcare, r.Category)
		assert.Equal(t, core.StageKeyword, r.Stage)
	})
}

func TestClassify_MonitorSeesStages(t *testing.T) {
	mon := &recordingMonitor{}
	c := newDefaultClassifier(t, WithMonitor(mon))

	c.Classify(context.Background(), "hotel", core.LanguageEnglish)
	assert.Equal(t, []string{"start", "keywords", "finish"}, mon.events)
	assert.Equal(t, 1, mon.keywordCounts[core.CategoryAccommodation])
}

type recordingMonitor struct {
	events        []string
	keywordCounts map[core.Category]int
	embeddingErrs []error
}

func (m *recordingMonitor) Start(string, core.Language) { m.events = append(m.events, "start") }
func (m *recordingMonitor) CriticalHit(string, core.Category) {
	m.events = append(m.events, "critical")
}
func (m *recordingMonitor) BusinessNameHit(string, core.Category) {
	m.events = append(m.events, "name")
}
func (m *recordingMonitor) KeywordScores(counts map[core.Category]int) {
	m.events = append(m.events, "keywords")
	m.keywordCounts = counts
}
func (m *recordingMonitor) SemanticScore(core.Category, float64) {
	m.events = append(m.events, "semantic")
}
func (m *recordingMonitor) EmbeddingFailed(err error) {
	m.events = append(m.events, "embedding-failed")
	m.embeddingErrs = append(m.embeddingErrs, err)
}
func (m *recordingMonitor) Finish(core.ClassificationResult) { m.events = append(m.events, "finish") }
