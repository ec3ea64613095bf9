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

// Package textnorm canonicalizes text for substring matching.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldMarks decomposes compatibility characters and drops combining marks.
var foldMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// Normalize returns the matching form of s: NFKD-decomposed, stripped of
// combining marks, lowercased and trimmed. It is total and idempotent.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	folded, _, err := transform.String(foldMarks, s)
	if err != nil {
		// transform only fails on invalid chains; keep the raw text
		folded = s
	}
	return strings.TrimSpace(strings.ToLower(folded))
}

// Contains reports whether the normalized form of needle occurs in an
// already-normalized haystack. Empty needles never match.
func Contains(normalizedHaystack, needle string) bool {
	n := Normalize(needle)
	return n != "" && strings.Contains(normalizedHaystack, n)
}

// Words splits normalized text into tokens, trimming surrounding punctuation.
func Words(s string) []string {
	fields := strings.Fields(Normalize(s))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}
