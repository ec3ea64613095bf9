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

// Immigration recommends legal advertisers among the candidates and, when
// there are none, falls back to guidance on the first administrative steps.
type Immigration struct {
	lawyers *KeywordFilter
}

var _ Responder = (*Immigration)(nil)

// NewImmigration creates the immigration responder.
func NewImmigration() *Immigration {
	f, _ := NewKeywordFilter([]string{
		"abogado", "lawyer", "extranjeria", "inmigracion", "immigration",
		"gestoria", "legal", "visado", "visa", "law firm",
	}, nil)
	return &Immigration{lawyers: f}
}

// Respond implements Responder.
func (im *Immigration) Respond(_ context.Context, _ string, candidates []core.Record, lang core.Language) (Result, error) {
	var items []core.Record
	for _, r := range candidates {
		// only records that mention legal work themselves, not the question
		if im.lawyers.matches("", normalizedSearchText(r)) {
			items = append(items, r.Clone())
		}
	}
	if len(items) == 0 {
		items = make([]core.Record, 0, len(immigrationGuides))
		for _, g := range immigrationGuides {
			items = append(items, synthetic(g, lang, core.CategoryImmigration))
		}
	}
	return Result{SummaryPoints: Summarize(items, DefaultKeyPoints), Items: items}, nil
}

var immigrationGuides = []map[core.Language]core.Record{
	{
		core.LanguageSpanish: {
			Name:        "NIE (Número de Identidad de Extranjero)",
			Description: "Número personal para cualquier trámite fiscal, laboral o bancario en España. Se solicita con cita previa en la Oficina de Extranjería o en la comisaría de policía.",
			Benefits:    []string{"Pasaporte y copia", "Formulario EX-15", "Justificante de la tasa 790-012"},
			Price:       "Tasa aproximada de 12€",
		},
		core.LanguageEnglish: {
			Name:        "NIE (Foreigner Identification Number)",
			Description: "Personal number needed for tax, work and banking in Spain. Apply with a prior appointment at the Immigration Office or police station.",
			Benefits:    []string{"Passport and copy", "Form EX-15", "Receipt for fee 790-012"},
			Price:       "Fee of about 12€",
		},
	},
	{
		core.LanguageSpanish: {
			Name:        "Empadronamiento",
			Description: "Registro en el padrón municipal de tu ayuntamiento. Es necesario para la sanidad pública, escolarizar a los hijos y muchos trámites de residencia.",
			Benefits:    []string{"Pasaporte o NIE", "Contrato de alquiler o autorización del propietario"},
			Price:       "Gratuito",
		},
		core.LanguageEnglish: {
			Name:        "Empadronamiento (town hall registration)",
			Description: "Registration on your town hall's census. Needed for public healthcare, school enrolment and most residency paperwork.",
			Benefits:    []string{"Passport or NIE", "Rental contract or landlord authorisation"},
			Price:       "Free",
		},
	},
	{
		core.LanguageSpanish: {
			Name:        "Primeros pasos al llegar",
			Description: "Checklist para instalarte: empadronarte, pedir el NIE, abrir una cuenta bancaria, tarjeta sanitaria y número de la Seguridad Social.",
			Benefits:    []string{"Ordena los trámites", "Evita citas duplicadas"},
		},
		core.LanguageEnglish: {
			Name:        "First steps after arriving",
			Description: "Checklist to settle in: register at the town hall, get your NIE, open a bank account, health card and Social Security number.",
			Benefits:    []string{"Puts the paperwork in order", "Avoids duplicate appointments"},
		},
	},
}

func normalizedSearchText(r core.Record) string {
	return textnorm.Normalize(searchText(r))
}
