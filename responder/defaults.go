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

import "github.com/poiesic/concierge/core"

// DefaultRegistry wires the built-in responders. Categories without one use
// the generic responder.
func DefaultRegistry() *Registry {
	es, en := core.LanguageSpanish, core.LanguageEnglish

	mustFilter := func(keywords []string, faq map[core.Language][]core.FAQ) Responder {
		f, err := NewKeywordFilter(keywords, faq)
		if err != nil {
			panic(err) // static tables
		}
		return f
	}

	reg, err := NewRegistry(map[core.Category]Responder{
		core.CategoryAccommodation: mustFilter(
			[]string{"hotel", "apartamento", "alojamiento", "vivienda", "alquiler", "piso", "hostal", "room", "rent", "renta"},
			map[core.Language][]core.FAQ{
				es: {
					{Question: "¿Cuál es el horario de check-in?", Answer: "El horario de entrada suele ser a partir de las 14:00, confirme con el anunciante."},
					{Question: "¿Cuál es la política de cancelación?", Answer: "Depende del proveedor; consulte las condiciones al reservar."},
				},
				en: {
					{Question: "What time is check-in?", Answer: "Check-in usually starts at 14:00; confirm with the advertiser."},
					{Question: "What is the cancellation policy?", Answer: "It depends on the provider; check the conditions when booking."},
				},
			}),
		core.CategoryLegalAndFinancial: mustFilter(
			[]string{"nie", "residencia", "impuesto", "banco", "abogado", "lawyer", "tax", "permiso", "documento", "nif"},
			map[core.Language][]core.FAQ{
				es: {
					{Question: "¿Cómo solicito un NIE?", Answer: "Solicita cita en la oficina de extranjería o tramítalo online."},
					{Question: "¿Necesito un abogado para la residencia?", Answer: "Depende de la complejidad; un profesional puede ayudar con la documentación."},
				},
				en: {
					{Question: "How do I apply for an NIE?", Answer: "Book an appointment at the immigration office or apply online."},
					{Question: "Do I need a lawyer for residency?", Answer: "It depends on the case; a professional can help with the paperwork."},
				},
			}),
		core.CategoryHealthcare: mustFilter(
			[]string{"medico", "doctor", "hospital", "clinica", "dentista", "odontologia", "pediatra", "ginecologo", "seguro", "salud", "insurance", "clinic", "health"},
			map[core.Language][]core.FAQ{
				es: {
					{Question: "¿Aceptan seguro médico?", Answer: "Consulta directamente qué aseguradoras aceptan."},
					{Question: "¿Atienden en inglés?", Answer: "Muchos centros atienden en inglés; confírmalo al reservar."},
				},
				en: {
					{Question: "Do they accept health insurance?", Answer: "Ask directly which insurers they work with."},
					{Question: "Is care available in English?", Answer: "Many centres see patients in English; confirm when booking."},
				},
			}),
		core.CategoryWorkAndNetworking: mustFilter(
			[]string{"trabajo", "empleo", "oferta", "job", "vacante", "coworking", "networking", "remoto", "reclutador", "reclutamiento"},
			map[core.Language][]core.FAQ{
				es: {
					{Question: "¿Cómo aplico a una oferta?", Answer: "Envía tu CV al contacto indicado o sigue las instrucciones de la oferta."},
					{Question: "¿Hay posibilidad de trabajo remoto?", Answer: "Depende del puesto; consulta con el anunciante."},
				},
				en: {
					{Question: "How do I apply?", Answer: "Send your CV to the listed contact or follow the instructions in the offer."},
					{Question: "Is remote work possible?", Answer: "It depends on the role; ask the advertiser."},
				},
			}),
		core.CategorySocialAndCultural: mustFilter(
			[]string{"expat", "asociacion", "evento", "restaurante", "actividad", "ocio", "meetup", "cultural", "festival"},
			map[core.Language][]core.FAQ{
				es: {
					{Question: "¿Cómo me apunto al evento?", Answer: "Contacta con el organizador o reserva en su web."},
					{Question: "¿Hay actividades para familias?", Answer: "Depende del evento; revisa la descripción o pregunta al organizador."},
				},
				en: {
					{Question: "How do I sign up?", Answer: "Contact the organiser or book through their website."},
					{Question: "Are there family activities?", Answer: "It depends on the event; check the description or ask the organiser."},
				},
			}),
		core.CategoryRestaurants: mustFilter(
			[]string{"restaurante", "comida", "cenar", "menu", "reserva", "terraza", "cocina", "tapas", "brunch", "desayuno", "almuerzo", "pizzeria",
				"restaurant", "food", "dinner", "reservation", "lunch", "cuisine", "breakfast"},
			nil),
		core.CategoryEducation:   NewEducation(),
		core.CategoryBotService:  BotService{},
		core.CategoryImmigration: NewImmigration(),
		core.CategoryAdvertising: Advertising{},
	})
	if err != nil {
		panic(err)
	}
	return reg
}
