package classifier

import "github.com/poiesic/concierge/core"

// Monitor provides hooks to observe classification.
// Implement this interface to trace which stage decided a question.
type Monitor interface {
	Start(question string, lang core.Language)
	CriticalHit(term string, category core.Category)
	BusinessNameHit(name string, category core.Category)
	KeywordScores(counts map[core.Category]int)
	SemanticScore(category core.Category, score float64)
	EmbeddingFailed(err error)
	Finish(result core.ClassificationResult)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ core.Language)           {}
func (n *noopMonitor) CriticalHit(_ string, _ core.Category)     {}
func (n *noopMonitor) BusinessNameHit(_ string, _ core.Category) {}
func (n *noopMonitor) KeywordScores(_ map[core.Category]int)     {}
func (n *noopMonitor) SemanticScore(_ core.Category, _ float64)  {}
func (n *noopMonitor) EmbeddingFailed(_ error)                   {}
func (n *noopMonitor) Finish(_ core.ClassificationResult)        {}
