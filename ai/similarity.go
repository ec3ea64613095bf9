package ai

import "math"

// CosineSimilarity returns the cosine of the angle between a and b.
// Vectors of different length, empty vectors and zero vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// CosineSimilarities scores query against every candidate, in order.
func CosineSimilarities(query []float32, candidates [][]float32) []float64 {
	scores := make([]float64, len(candidates))
	for i, c := range candidates {
		scores[i] = CosineSimilarity(query, c)
	}
	return scores
}

// BestMatch returns the index and score of the most similar candidate.
// Ties keep the earliest candidate. It returns -1 when there are no candidates.
func BestMatch(query []float32, candidates [][]float32) (int, float64) {
	best, bestScore := -1, math.Inf(-1)
	for i, score := range CosineSimilarities(query, candidates) {
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return -1, 0
	}
	return best, bestScore
}
