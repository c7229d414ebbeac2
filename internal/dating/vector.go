// internal/dating/vector.go
// Tag vector encoding and similarity scoring

package dating

import (
	"math"
	"sort"
)

// BuildVocabulary returns the sorted union of all tags in the given sets.
// Tags are case-sensitive tokens; duplicates collapse.
func BuildVocabulary(tagSets ...[]string) []string {
	seen := make(map[string]bool)
	for _, tags := range tagSets {
		for _, tag := range tags {
			seen[tag] = true
		}
	}

	vocab := make([]string, 0, len(seen))
	for tag := range seen {
		vocab = append(vocab, tag)
	}
	sort.Strings(vocab)
	return vocab
}

// BuildTagVector encodes a tag set as a 0/1 membership vector over vocab.
// The result has exactly len(vocab) components.
func BuildTagVector(tags, vocab []string) []float64 {
	set := make(map[string]bool, len(tags))
	for _, tag := range tags {
		set[tag] = true
	}

	vec := make([]float64, len(vocab))
	for i, tag := range vocab {
		if set[tag] {
			vec[i] = 1
		}
	}
	return vec
}

// Cosine returns the cosine similarity of two equal-length vectors.
// If either vector has zero magnitude the similarity is 0.0, never NaN.
func Cosine(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Dot returns the inner product of two vectors, truncated to the shorter
// length. Used for pre-normalized profile embeddings.
func Dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// countCommonTags counts distinct tags present in both sets.
func countCommonTags(a, b []string) int {
	set := make(map[string]bool, len(a))
	for _, tag := range a {
		set[tag] = true
	}

	seen := make(map[string]bool)
	count := 0
	for _, tag := range b {
		if set[tag] && !seen[tag] {
			seen[tag] = true
			count++
		}
	}
	return count
}
