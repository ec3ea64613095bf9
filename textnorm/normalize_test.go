package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", " \t\n ", ""},
		{"accents and case", "  Clínica DENTAL  ", "clinica dental"},
		{"tilde", "Campaña", "campana"},
		{"cedilla", "Català", "catala"},
		{"compatibility ligature", "ﬁesta", "fiesta"},
		{"fullwidth letters", "ＨＯＴＥＬ", "hotel"},
		{"inner whitespace preserved", "Hotel  Condal", "hotel  condal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_FoldsAccentsAndCase(t *testing.T) {
	assert.Equal(t, Normalize("cafe"), Normalize("Café"))
	assert.Equal(t, Normalize("cafe"), Normalize("CAFE"))
	assert.Equal(t, "cafe", Normalize("CAFÉ"))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Necesito un hotel en Barcelona",
		"Número de Identidad de Extranjero",
		"́ leading combining mark",
		"ℌilbert",
		"Ærøskøbing",
		"İstanbul",
		"  mixed\tWHITESPACE  ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestContains(t *testing.T) {
	haystack := Normalize("¿Dónde está la clínica?")

	assert.True(t, Contains(haystack, "Clínica"))
	assert.True(t, Contains(haystack, "DONDE"))
	assert.False(t, Contains(haystack, "hospital"))
	assert.False(t, Contains(haystack, "   "))
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"necesito", "un", "medico", "urgente"}, Words("¿Necesito un MÉDICO, urgente?"))
	assert.Empty(t, Words("  ¿? "))
}
