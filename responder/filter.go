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
	"strings"

	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/textnorm"
)

// KeywordFilter prefers candidates related to its keywords. A candidate
// matches when any keyword occurs in the question or in the record's text
// fields. Matches are returned when there are any; otherwise every
// candidate is. Records without FAQs get the default pairs for the request
// language.
type KeywordFilter struct {
	keywords   []string
	defaultFAQ map[core.Language][]core.FAQ
	keyPoints  int
}

var _ Responder = (*KeywordFilter)(nil)

// NewKeywordFilter creates a filter over keywords. defaultFAQ may be nil.
func NewKeywordFilter(keywords []string, defaultFAQ map[core.Language][]core.FAQ) (*KeywordFilter, error) {
	normalized := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if n := textnorm.Normalize(kw); n != "" {
			normalized = append(normalized, n)
		}
	}
	if len(normalized) == 0 {
		return nil, ErrNoKeywords
	}
	return &KeywordFilter{keywords: normalized, defaultFAQ: defaultFAQ, keyPoints: DefaultKeyPoints}, nil
}

// Respond implements Responder.
func (f *KeywordFilter) Respond(_ context.Context, question string, candidates []core.Record, lang core.Language) (Result, error) {
	items := f.Select(question, candidates)
	f.attachFAQ(items, lang)
	return Result{
		SummaryPoints: Summarize(items, f.keyPoints),
		Items:         items,
	}, nil
}

// Select returns copies of the candidates the filter prefers.
func (f *KeywordFilter) Select(question string, candidates []core.Record) []core.Record {
	q := textnorm.Normalize(question)
	var matching, others []core.Record
	for _, r := range candidates {
		if f.matches(q, textnorm.Normalize(searchText(r))) {
			matching = append(matching, r.Clone())
		} else {
			others = append(others, r.Clone())
		}
	}
	if len(matching) > 0 {
		return matching
	}
	if others == nil {
		return []core.Record{}
	}
	return others
}

func (f *KeywordFilter) matches(question, record string) bool {
	for _, kw := range f.keywords {
		if strings.Contains(question, kw) || strings.Contains(record, kw) {
			return true
		}
	}
	return false
}

// attachFAQ fills missing FAQs on records that are already copies.
func (f *KeywordFilter) attachFAQ(items []core.Record, lang core.Language) {
	faq := f.defaultFAQ[lang]
	if len(faq) == 0 {
		faq = f.defaultFAQ[core.DefaultLanguage]
	}
	if len(faq) == 0 {
		return
	}
	for i := range items {
		if len(items[i].FAQ) == 0 {
			items[i].FAQ = append([]core.FAQ(nil), faq...)
		}
	}
}

func searchText(r core.Record) string {
	return strings.Join([]string{r.Name, r.Description, r.Profile, r.Location, r.Contact}, " ")
}
