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
)

// Advertising presents the magazine's advertising packages. Directory
// records in the category are used as-is; the built-in catalog stands in
// when the directory has none.
type Advertising struct{}

var _ Responder = Advertising{}

// Respond implements Responder.
func (Advertising) Respond(_ context.Context, _ string, candidates []core.Record, lang core.Language) (Result, error) {
	items := core.CloneRecords(candidates)
	if len(items) == 0 {
		for _, p := range advertisingPackages {
			items = append(items, synthetic(p, lang, core.CategoryAdvertising))
		}
	}
	return Result{SummaryPoints: Summarize(items, DefaultKeyPoints), Items: items}, nil
}

var advertisingPackages = []map[core.Language]core.Record{
	{
		core.LanguageSpanish: {
			Name:        "Directorio",
			Description: "Perfil completo con foto y descripción, visible para más de 12,000 usuarios al mes.",
			Benefits:    []string{"Analítica de visitas", "Soporte por email"},
			Price:       "34€/mes",
		},
		core.LanguageEnglish: {
			Name:        "Directory",
			Description: "Complete profile with photo and description, seen by 12,000+ users a month.",
			Benefits:    []string{"Visit analytics", "Email support"},
			Price:       "34€/month",
		},
	},
	{
		core.LanguageSpanish: {
			Name:        "Campaña Profesional",
			Description: "Campaña de marketing activa con acompañamiento de la revista. Mínimo 6 meses; 10% de descuento pagando 12.",
			Benefits:    []string{"Estrategia y análisis", "La opción más popular"},
			Price:       "199€/mes",
		},
		core.LanguageEnglish: {
			Name:        "Professional Campaign",
			Description: "Active marketing campaign backed by the magazine team. Six months minimum; 10% off when paying for 12.",
			Benefits:    []string{"Strategy and analysis", "Most popular option"},
			Price:       "199€/month",
		},
	},
	{
		core.LanguageSpanish: {
			Name:        "Campaña Premium",
			Description: "Máximo impacto en la revista y el directorio.",
			Benefits:    []string{"Mayor visibilidad", "Soporte prioritario"},
			Price:       "299€/mes",
		},
		core.LanguageEnglish: {
			Name:        "Premium Campaign",
			Description: "Maximum impact across the magazine and the directory.",
			Benefits:    []string{"Highest visibility", "Priority support"},
			Price:       "299€/month",
		},
	},
}
