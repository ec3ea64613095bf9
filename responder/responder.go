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

// DefaultKeyPoints is how many leading items feed the summary points.
const DefaultKeyPoints = 2

// Result is what a responder hands back to the dispatcher.
type Result struct {
	SummaryPoints []core.SummaryPoint
	Items         []core.Record
}

// Responder turns a candidate set into summary points and an ordered item
// list for one category. Implementations must not modify candidates; any
// record they change is returned as a copy.
type Responder interface {
	Respond(ctx context.Context, question string, candidates []core.Record, lang core.Language) (Result, error)
}

// ResponderFunc adapts an ordinary function to the Responder interface.
type ResponderFunc func(ctx context.Context, question string, candidates []core.Record, lang core.Language) (Result, error)

// Respond calls f.
func (f ResponderFunc) Respond(ctx context.Context, question string, candidates []core.Record, lang core.Language) (Result, error) {
	return f(ctx, question, candidates, lang)
}

// Generic returns the candidates unchanged with no summary points.
// It serves every category without bespoke logic.
type Generic struct{}

var _ Responder = Generic{}

// Respond implements Responder.
func (Generic) Respond(_ context.Context, _ string, candidates []core.Record, _ core.Language) (Result, error) {
	return Result{
		SummaryPoints: []core.SummaryPoint{},
		Items:         core.CloneRecords(candidates),
	}, nil
}

// Summarize builds summary points from the first n records.
func Summarize(records []core.Record, n int) []core.SummaryPoint {
	n = min(max(n, 0), len(records))
	points := make([]core.SummaryPoint, 0, n)
	for _, r := range records[:n] {
		points = append(points, core.SummaryPoint{
			Name:        r.Name,
			Description: r.Description,
			Benefits:    append([]string(nil), r.Benefits...),
		})
	}
	return points
}
