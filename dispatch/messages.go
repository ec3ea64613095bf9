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

package dispatch

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/poiesic/concierge/core"
)

// Messages picks the friendly lead-in line for a response.
type Messages struct {
	pools   map[core.Language]map[core.Category][]string
	general map[core.Language][]string
	unknown map[core.Language][]string
	failure map[core.Language]string
	hint    map[core.Language]string

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewMessages creates the default message set drawing from src. A nil
// src uses a randomly seeded PCG.
func NewMessages(src rand.Source) *Messages {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Messages{
		pools:   defaultPools(),
		general: defaultGeneral(),
		unknown: defaultUnknown(),
		failure: map[core.Language]string{
			core.LanguageSpanish: "Lo siento, hubo un problema con el asistente de %s. Inténtalo de nuevo.",
			core.LanguageEnglish: "Sorry, the %s assistant ran into a problem. Please try again.",
		},
		hint: map[core.Language]string{
			core.LanguageSpanish: "\n\nPara más información, consulta nuestra guía: '%s'",
			core.LanguageEnglish: "\n\nFor more information, check our guide: '%s'",
		},
		rnd: rand.New(src),
	}
}

// Pick returns a line for category in lang. Categories without a pool
// get a general line; Unknown gets a rephrase prompt.
func (m *Messages) Pick(lang core.Language, category core.Category) string {
	var pool []string
	switch {
	case category == core.CategoryUnknown:
		pool = m.unknown[lang]
	case len(m.pools[lang][category]) > 0:
		pool = m.pools[lang][category]
	default:
		pool = m.general[lang]
	}
	if len(pool) == 0 {
		pool = m.general[core.DefaultLanguage]
	}
	return m.choose(pool)
}

// Failure returns the message used when a responder fails.
func (m *Messages) Failure(lang core.Language, category core.Category) string {
	format, ok := m.failure[lang]
	if !ok {
		format = m.failure[core.DefaultLanguage]
	}
	return fmt.Sprintf(format, category)
}

// GuideHint returns the suffix pointing the reader at a guide.
func (m *Messages) GuideHint(lang core.Language, title string) string {
	format, ok := m.hint[lang]
	if !ok {
		format = m.hint[core.DefaultLanguage]
	}
	return fmt.Sprintf(format, title)
}

func (m *Messages) choose(pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return pool[m.rnd.IntN(len(pool))]
}

func defaultGeneral() map[core.Language][]string {
	return map[core.Language][]string{
		core.LanguageSpanish: {
			"Claro, esto es lo que he encontrado.",
			"Aquí tienes algunas opciones.",
		},
		core.LanguageEnglish: {
			"Sure, here is what I found.",
			"Here are some options for you.",
		},
	}
}

func defaultUnknown() map[core.Language][]string {
	return map[core.Language][]string{
		core.LanguageSpanish: {
			"No estoy seguro de haber entendido. ¿Puedes darme más detalles?",
			"¿Podrías reformular tu pregunta? Así podré ayudarte mejor.",
		},
		core.LanguageEnglish: {
			"I'm not sure I understood. Could you give me more details?",
			"Could you rephrase your question? That way I can help you better.",
		},
	}
}

func defaultPools() map[core.Language]map[core.Category][]string {
	return map[core.Language]map[core.Category][]string{
		core.LanguageSpanish: {
			core.CategoryAccommodation: {
				"¿Buscando alojamiento? Aquí tienes algunas opciones.",
				"Te ayudo a encontrar tu próximo hogar en Barcelona.",
			},
			core.CategoryLegalAndFinancial: {
				"Navegar la burocracia puede ser difícil. Aquí tienes algunos expertos.",
				"Te muestro especialistas en temas legales y financieros.",
			},
			core.CategoryHealthcare: {
				"Aquí tienes información sobre servicios de salud en Barcelona.",
				"Buscando opciones de salud para ti.",
			},
			core.CategoryEducation: {
				"Invertir en formación siempre es buena idea. Mira estas opciones:",
				"Aquí tienes centros educativos en la ciudad.",
			},
			core.CategoryWorkAndNetworking: {
				"Aquí tienes recursos para tu carrera profesional en Barcelona.",
			},
			core.CategorySocialAndCultural: {
				"Barcelona tiene una vida cultural increíble. Aquí tienes algunas ideas:",
			},
			core.CategoryAdvertising: {
				"Estos son nuestros paquetes de publicidad.",
				"Así puede tu negocio llegar a miles de expatriados en Barcelona.",
			},
			core.CategoryBotService: {
				"Un asistente virtual puede transformar tu negocio. Esto es lo que ofrecemos:",
			},
			core.CategoryImmigration: {
				"Los trámites de extranjería tienen sus pasos. Te oriento:",
				"Aquí tienes ayuda con tu documentación.",
			},
		},
		core.LanguageEnglish: {
			core.CategoryAccommodation: {
				"Searching for housing? Here are some options.",
				"Let me help you find your next home in Barcelona.",
			},
			core.CategoryLegalAndFinancial: {
				"Navigating bureaucracy can be tough. Here are some experts.",
				"Here are specialists for legal and financial matters.",
			},
			core.CategoryHealthcare: {
				"Here is some information about healthcare services in Barcelona.",
				"Looking for health options for you.",
			},
			core.CategoryEducation: {
				"Investing in learning is always a good idea. Check these options:",
				"Here are some schools and courses in the city.",
			},
			core.CategoryWorkAndNetworking: {
				"Here are resources for your career in Barcelona.",
			},
			core.CategorySocialAndCultural: {
				"Barcelona has an amazing cultural life. Here are some ideas:",
			},
			core.CategoryAdvertising: {
				"Here are our advertising packages.",
				"This is how your business can reach thousands of expats in Barcelona.",
			},
			core.CategoryBotService: {
				"A virtual assistant can transform your business. Here is what we offer:",
			},
			core.CategoryImmigration: {
				"Immigration paperwork has its steps. Let me point you in the right direction:",
				"Here is some help with your documents.",
			},
		},
	}
}
