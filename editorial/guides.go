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

package editorial

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/poiesic/concierge/core"
)

// GuideURLPrefix is where guides are published.
const GuideURLPrefix = "/revista/guias/"

// Guide is one magazine guide.
type Guide struct {
	Title    string        `json:"titulo"`
	Summary  string        `json:"resumen"`
	Slug     string        `json:"slug"`
	Category core.Category `json:"categoria"`
	Keywords []string      `json:"keywords"`
}

// UnmarshalJSON accepts English field names as aliases.
func (g *Guide) UnmarshalJSON(data []byte) error {
	type guideFields Guide
	var f guideFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	var alias struct {
		Title    string        `json:"title"`
		Summary  string        `json:"summary"`
		Category core.Category `json:"category"`
		Tags     []string      `json:"tags"`
	}
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*g = Guide(f)
	g.Title = cmp.Or(g.Title, alias.Title)
	g.Summary = cmp.Or(g.Summary, alias.Summary)
	g.Category = cmp.Or(g.Category, alias.Category)
	if len(g.Keywords) == 0 {
		g.Keywords = alias.Tags
	}
	return nil
}

// Ref converts the guide to its compact reference form.
func (g Guide) Ref(score int) core.GuideSummary {
	return core.GuideSummary{
		Type:     core.GuideTypeGuide,
		Title:    g.Title,
		Summary:  g.Summary,
		Slug:     g.Slug,
		URL:      GuideURLPrefix + g.Slug,
		Category: g.Category,
		Score:    score,
	}
}

// GuideLibrary scores an in-memory set of guides.
type GuideLibrary struct {
	guides []Guide
}

var _ Provider = (*GuideLibrary)(nil)

// NewGuideLibrary creates a library over guides.
func NewGuideLibrary(guides []Guide) *GuideLibrary {
	return &GuideLibrary{guides: slices.Clone(guides)}
}

// LoadGuides reads every *.json file in dir. Unreadable or invalid files
// are logged and skipped. A missing directory gives an empty library.
func LoadGuides(dir string, logger *slog.Logger) (*GuideLibrary, error) {
	if logger == nil {
		logger = slog.Default()
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	slices.Sort(paths)

	var guides []Guide
	for _, path := range paths {
		g, err := loadGuide(path)
		if err != nil {
			logger.Warn("skipping guide", "path", path, "err", err)
			continue
		}
		guides = append(guides, g)
	}
	logger.Info("guides loaded", "dir", dir, "count", len(guides))
	return NewGuideLibrary(guides), nil
}

func loadGuide(path string) (Guide, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Guide{}, err
	}
	var g Guide
	if err := json.Unmarshal(data, &g); err != nil {
		return Guide{}, err
	}
	if strings.TrimSpace(g.Title) == "" || strings.TrimSpace(g.Slug) == "" {
		return Guide{}, fmt.Errorf("%w: title and slug are required", ErrInvalidGuide)
	}
	return g, nil
}

// Len returns the number of guides.
func (l *GuideLibrary) Len() int {
	return len(l.guides)
}

// Search scores each guide: +3 when its category matches, +2 for every
// keyword found inside one of its keywords, +1 for every keyword found in
// its title. Guides scoring 0 are dropped. Ties keep library order.
func (l *GuideLibrary) Search(_ context.Context, keywords []string, category core.Category) ([]core.GuideSummary, error) {
	needles := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			needles = append(needles, kw)
		}
	}

	var out []core.GuideSummary
	for _, g := range l.guides {
		if score := scoreGuide(g, needles, category); score > 0 {
			out = append(out, g.Ref(score))
		}
	}
	slices.SortStableFunc(out, func(a, b core.GuideSummary) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return out, nil
}

func scoreGuide(g Guide, needles []string, category core.Category) int {
	score := 0
	if category != "" && g.Category == category {
		score += 3
	}

	guideKeywords := make([]string, len(g.Keywords))
	for i, k := range g.Keywords {
		guideKeywords[i] = strings.ToLower(k)
	}
	title := strings.ToLower(g.Title)

	for _, kw := range needles {
		if slices.ContainsFunc(guideKeywords, func(gk string) bool { return strings.Contains(gk, kw) }) {
			score += 2
		}
		if strings.Contains(title, kw) {
			score++
		}
	}
	return score
}
