// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package responder

import (
	"context"

	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/textnorm"
)

// minEducationItems is the count below which a placeholder entry is added.
const minEducationItems = 2

// Education filters schools and academies, flags them as advertisers and
// pads thin results with an informational placeholder chosen from the
// question.
type Education struct {
	filter *KeywordFilter
}

var _ Responder = (*Education)(nil)

// NewEducation creates the education responder.
func NewEducation() *Education {
	f, _ := NewKeywordFilter([]string{
		"escuela", "colegio", "universidad", "curso", "idiomas", "academia",
		"formacion", "master", "postgrado", "clases", "taller", "school",
		"college", "university", "course", "languages", "academy", "training",
		"workshop", "preescolar", "infantil", "primaria", "secundaria",
	}, nil)
	return &Education{filter: f}
}

// Respond implements Responder.
func (e *Education) Respond(_ context.Context, question string, candidates []core.Record, lang core.Language) (Result, error) {
	items := e.filter.Select(question, candidates)
	for i := range items {
		items[i].Sponsored = true
	}
	if len(items) < minEducationItems {
		if p, ok := educationPlaceholder(question, lang); ok {
			items = append(items, p)
		}
	}
	return Result{SummaryPoints: Summarize(items, DefaultKeyPoints), Items: items}, nil
}

type placeholder struct {
	triggers []string
	record   map[core.Language]core.Record
}

var educationPlaceholders = []placeholder{
	{
		triggers: []string{"idioma", "espanol", "ingles", "catalan", "language"},
		record: map[core.Language]core.Record{
			core.LanguageSpanish: {
				Name:        "Escuelas de idiomas en Barcelona",
				Description: "Barcelona cuenta con numerosas academias de idiomas con cursos de todos los niveles.",
				Benefits:    []string{"Cursos desde A1 hasta C2", "Clases presenciales y online", "Preparación de exámenes oficiales"},
				Price:       "€120-400/mes según intensidad",
				Languages:   "Español, Inglés, Catalán, Francés, Alemán",
				Location:    "Varias ubicaciones en Barcelona",
			},
			core.LanguageEnglish: {
				Name:        "Language schools in Barcelona",
				Description: "Barcelona has plenty of language academies with courses at every level.",
				Benefits:    []string{"Courses from A1 to C2", "In-person and online classes", "Official exam preparation"},
				Price:       "€120-400/month depending on intensity",
				Languages:   "Spanish, English, Catalan, French, German",
				Location:    "Several locations in Barcelona",
			},
		},
	},
	{
		triggers: []string{"colegio", "escuela", "school", "ninos", "kids"},
		record: map[core.Language]core.Record{
			core.LanguageSpanish: {
				Name:        "Colegios en Barcelona",
				Description: "Colegios públicos, concertados e internacionales privados (IB, británicos, americanos).",
				Benefits:    []string{"Opciones públicas gratuitas", "Colegios internacionales desde €6k/año"},
				Price:       "Desde gratuito hasta €20,000/año",
				Languages:   "Catalán, Español, Inglés",
				Location:    "Toda Barcelona",
			},
			core.LanguageEnglish: {
				Name:        "Schools in Barcelona",
				Description: "Public, state-subsidised and private international schools (IB, British, American).",
				Benefits:    []string{"Free public options", "International schools from €6k/year"},
				Price:       "From free up to €20,000/year",
				Languages:   "Catalan, Spanish, English",
				Location:    "All of Barcelona",
			},
		},
	},
	{
		triggers: []string{"universidad", "university", "master", "grado"},
		record: map[core.Language]core.Record{
			core.LanguageSpanish: {
				Name:        "Universidades en Barcelona",
				Description: "Universidades públicas (UB, UPF, UAB, UPC) y privadas (ESADE, IED, Ramon Llull).",
				Benefits:    []string{"Programas en inglés disponibles", "Matrícula pública €1,500-3,500/año"},
				Price:       "€1,500-4,000/año (públicas) | €8,000-20,000/año (privadas)",
				Languages:   "Catalán, Español, Inglés",
				Location:    "Barcelona y área metropolitana",
			},
			core.LanguageEnglish: {
				Name:        "Universities in Barcelona",
				Description: "Public universities (UB, UPF, UAB, UPC) and private ones (ESADE, IED, Ramon Llull).",
				Benefits:    []string{"Programs taught in English", "Public tuition €1,500-3,500/year"},
				Price:       "€1,500-4,000/year (public) | €8,000-20,000/year (private)",
				Languages:   "Catalan, Spanish, English",
				Location:    "Barcelona metropolitan area",
			},
		},
	},
}

func educationPlaceholder(question string, lang core.Language) (core.Record, bool) {
	q := textnorm.Normalize(question)
	for _, p := range educationPlaceholders {
		for _, t := range p.triggers {
			if textnorm.Contains(q, t) {
				return synthetic(p.record, lang, core.CategoryEducation), true
			}
		}
	}
	return core.Record{}, false
}

// synthetic picks the localized variant and stamps it as a placeholder.
func synthetic(variants map[core.Language]core.Record, lang core.Language, category core.Category) core.Record {
	r, ok := variants[lang]
	if !ok {
		r = variants[core.DefaultLanguage]
	}
	r = r.Clone()
	r.Category = category
	r.Synthetic = true
	r.ID = core.RecordID(category, r.Name)
	return r
}
