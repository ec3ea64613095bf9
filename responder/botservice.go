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

// BotService presents the assistant products sold to advertisers. The
// candidates are ignored.
type BotService struct{}

var _ Responder = BotService{}

var botOfferings = []map[core.Language]core.Record{
	{
		core.LanguageSpanish: {
			Name:        "Bot de agendamiento de citas",
			Description: "Un bot para tu web que gestiona citas con tus clientes 24/7. Ideal para consultorios, abogados y servicios profesionales.",
			Benefits:    []string{"Ahorro de tiempo administrativo", "Disponibilidad 24/7", "Menos ausencias gracias a recordatorios automáticos"},
			Price:       "Desde 99€/mes (requiere ser anunciante)",
			Contact:     "bots@revistametropolitana.com",
			FAQ: []core.FAQ{
				{Question: "¿Se integra con mi calendario?", Answer: "Sí, con Google Calendar y otros sistemas."},
				{Question: "¿Es personalizable?", Answer: "Totalmente. Adaptamos el diálogo y la apariencia a tu marca."},
			},
		},
		core.LanguageEnglish: {
			Name:        "Appointment scheduling bot",
			Description: "A bot for your website that books appointments with your clients 24/7. Ideal for clinics, lawyers and professional services.",
			Benefits:    []string{"Less admin time", "Available 24/7", "Fewer no-shows with automatic reminders"},
			Price:       "From 99€/month (advertisers only)",
			Contact:     "bots@revistametropolitana.com",
			FAQ: []core.FAQ{
				{Question: "Does it connect to my calendar?", Answer: "Yes, with Google Calendar and other systems."},
				{Question: "Can it be customised?", Answer: "Completely. We adapt the dialogue and look to your brand."},
			},
		},
	},
	{
		core.LanguageSpanish: {
			Name:        "Bot de reservas para restaurantes",
			Description: "Un asistente virtual que toma reservas, responde preguntas sobre el menú y gestiona cancelaciones.",
			Benefits:    []string{"Optimiza la ocupación de mesas", "Libera al personal del teléfono", "Mejora la experiencia del cliente"},
			Price:       "Desde 120€/mes (requiere ser anunciante)",
			Contact:     "bots@revistametropolitana.com",
		},
		core.LanguageEnglish: {
			Name:        "Restaurant booking bot",
			Description: "A virtual assistant that takes bookings, answers menu questions and handles cancellations.",
			Benefits:    []string{"Better table occupancy", "Frees staff from the phone", "Improves the guest experience"},
			Price:       "From 120€/month (advertisers only)",
			Contact:     "bots@revistametropolitana.com",
		},
	},
}

// Respond implements Responder.
func (BotService) Respond(_ context.Context, _ string, _ []core.Record, lang core.Language) (Result, error) {
	items := make([]core.Record, 0, len(botOfferings))
	for _, o := range botOfferings {
		r := synthetic(o, lang, core.CategoryBotService)
		r.Sponsored = true
		items = append(items, r)
	}
	return Result{SummaryPoints: Summarize(items, DefaultKeyPoints), Items: items}, nil
}
