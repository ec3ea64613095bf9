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

package index

import "github.com/poiesic/concierge/core"

// CategoryPatterns is one row of the keyword table: a category and its
// ordered keyword patterns per language.
type CategoryPatterns struct {
	Category core.Category
	Patterns map[core.Language][]string
}

// KeywordTable is the ordered category definition table. Order matters:
// keyword-score ties resolve to the earlier row.
type KeywordTable []CategoryPatterns

// Categories returns the table's categories in order.
func (t KeywordTable) Categories() []core.Category {
	out := make([]core.Category, len(t))
	for i, row := range t {
		out[i] = row.Category
	}
	return out
}

// DefaultKeywordTable returns the built-in Spanish and English patterns.
// The lists are illustrative rather than exhaustive.
func DefaultKeywordTable() KeywordTable {
	es, en := core.LanguageSpanish, core.LanguageEnglish
	return KeywordTable{
		{core.CategoryAccommodation, map[core.Language][]string{
			es: {"hotel", "apartamento", "alojamiento", "vivienda", "alquiler", "piso", "hostal", "renta", "habitacion", "hospedaje", "estancia"},
			en: {"hotel", "apartment", "housing", "flat", "hostel", "room", "rent", "accommodation"},
		}},
		{core.CategoryArtsAndCulture, map[core.Language][]string{
			es: {"museo", "galeria", "exposicion", "arte", "cultural", "teatro", "concierto"},
			en: {"museum", "gallery", "exhibition", "art", "cultural", "theater", "concert"},
		}},
		{core.CategoryBarsAndClubs, map[core.Language][]string{
			es: {"bar", "discoteca", "pub", "copas", "noche", "fiesta", "club", "karaoke", "terraza", "coctel"},
			en: {"bar", "club", "pub", "drinks", "night", "party", "karaoke", "terrace", "cocktail", "nightlife"},
		}},
		{core.CategoryBeautyAndWellBeing, map[core.Language][]string{
			es: {"spa", "masaje", "estetica", "belleza", "bienestar", "peluqueria", "manicura", "facial", "salon"},
			en: {"spa", "massage", "beauty", "wellness", "hairdresser", "manicure", "facial", "salon"},
		}},
		{core.CategoryBusinessServices, map[core.Language][]string{
			es: {"negocio", "empresa", "corporativo", "consultoria", "oficina", "servicios", "coworking"},
			en: {"business", "company", "corporate", "consulting", "office", "services", "coworking"},
		}},
		{core.CategoryEducation, map[core.Language][]string{
			es: {"escuela", "colegio", "universidad", "curso", "idiomas", "academia", "formacion", "master", "posgrado", "clases", "taller"},
			en: {"school", "college", "university", "course", "languages", "academy", "training", "master", "postgraduate", "classes", "workshop"},
		}},
		{core.CategoryHealthcare, map[core.Language][]string{
			es: {"doctor", "hospital", "clinica", "dentista", "seguro", "salud", "pediatra", "ginecologo", "farmacia", "emergencia", "especialista", "psicologo", "terapia"},
			en: {"doctor", "hospital", "clinic", "dentist", "insurance", "health", "pediatrician", "gynecologist", "pharmacy", "emergency", "specialist", "psychologist", "therapy"},
		}},
		{core.CategoryHomeServices, map[core.Language][]string{
			es: {"reparacion", "limpieza", "fontanero", "electricista", "carpintero", "mudanza", "pintor", "jardineria"},
			en: {"repair", "cleaning", "plumber", "electrician", "carpenter", "moving", "painter", "gardening"},
		}},
		{core.CategoryLegalAndFinancial, map[core.Language][]string{
			es: {"abogado", "legal", "financiero", "impuestos", "banco", "contrato", "visado", "nie", "residencia", "permiso", "nif", "gestoria", "gestor", "extranjeria", "cuenta bancaria", "declaracion renta"},
			en: {"lawyer", "legal", "financial", "tax", "bank", "contract", "visa", "nie", "residency", "permit", "residency permit", "bank account", "tax return", "consultant"},
		}},
		{core.CategoryRecreation, map[core.Language][]string{
			es: {"ocio", "recreacion", "deporte", "gimnasio", "parque", "entretenimiento"},
			en: {"leisure", "recreation", "sports", "gym", "park", "entertainment", "fun"},
		}},
		{core.CategoryRestaurants, map[core.Language][]string{
			es: {"restaurante", "comida", "cenar", "menu", "reserva", "terraza", "cocina", "tapas", "brunch", "desayuno", "almuerzo", "pizzeria"},
			en: {"restaurant", "food", "dinner", "menu", "reservation", "terrace", "lunch", "cuisine", "tapas", "brunch", "breakfast", "pizzeria"},
		}},
		{core.CategoryRetail, map[core.Language][]string{
			es: {"tienda", "compras", "producto", "ropa", "moda", "centro comercial"},
			en: {"store", "shopping", "retail", "product", "clothes", "fashion", "shop", "mall", "clothing"},
		}},
		{core.CategoryAdvertising, map[core.Language][]string{
			es: {"anunciar", "publicidad", "paquete", "campaña", "promocion", "revista", "media kit", "marketing", "anunciate", "colaborar", "patrocinar"},
			en: {"advertise", "advertising", "package", "campaign", "promotion", "magazine", "media kit", "ads", "marketing", "collaborate", "sponsorship", "partner"},
		}},
		{core.CategoryBotService, map[core.Language][]string{
			es: {"bot", "agendamiento", "citas", "reservas", "asistente virtual", "chatbot"},
			en: {"bot", "scheduling", "appointments", "booking", "virtual assistant", "chatbot"},
		}},
		{core.CategoryWorkAndNetworking, map[core.Language][]string{
			es: {"trabajo", "empleo", "networking", "curriculum", "entrevista", "oferta laboral", "freelance", "autonomo"},
			en: {"job", "employment", "networking", "resume", "interview", "career", "freelance", "hiring"},
		}},
		{core.CategorySocialAndCultural, map[core.Language][]string{
			es: {"comunidad", "asociacion", "voluntariado", "intercambio", "expatriados", "quedada", "grupo social"},
			en: {"community", "association", "volunteering", "language exchange", "expats", "meetup", "social group"},
		}},
		{core.CategoryImmigration, map[core.Language][]string{
			es: {"inmigracion", "empadronamiento", "padron", "arraigo", "nacionalidad", "tramite", "cita previa", "huella"},
			en: {"immigration", "empadronamiento", "padron", "citizenship", "paperwork", "appointment at the police", "fingerprint", "golden visa"},
		}},
	}
}

// DefaultCriticalTerms returns, per language, the override vocabulary that
// always routes to immigration. Only multi-word phrases are listed so short
// acronyms cannot match inside unrelated words.
func DefaultCriticalTerms() map[core.Language][]string {
	return map[core.Language][]string{
		core.LanguageSpanish: {
			"numero de identidad de extranjero",
			"numero de identificacion de extranjero",
			"tarjeta de identidad de extranjero",
			"permiso de residencia",
			"tarjeta de residencia",
		},
		core.LanguageEnglish: {
			"national identity number",
			"foreigner identity number",
			"foreigner identification number",
			"residence permit",
			"residency permit",
		},
	}
}
