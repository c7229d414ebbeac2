package dating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildVocabulary(t *testing.T) {
	vocab := BuildVocabulary(
		[]string{"python", "fitness"},
		[]string{"netflix", "travel", "fitness"},
	)
	assert.Equal(t, []string{"fitness", "netflix", "python", "travel"}, vocab)
}

func TestBuildVocabularyEmpty(t *testing.T) {
	assert.Empty(t, BuildVocabulary())
	assert.Empty(t, BuildVocabulary(nil, []string{}))
}

func TestBuildVocabularyCaseSensitive(t *testing.T) {
	vocab := BuildVocabulary([]string{"Python", "python"})
	assert.Equal(t, []string{"Python", "python"}, vocab)
}

func TestBuildTagVector(t *testing.T) {
	vocab := []string{"fitness", "netflix", "python", "travel"}
	vec := BuildTagVector([]string{"python", "fitness"}, vocab)
	assert.Equal(t, []float64{1, 0, 1, 0}, vec)
}

func TestBuildTagVectorNoTags(t *testing.T) {
	vocab := []string{"a", "b", "c"}
	assert.Equal(t, []float64{0, 0, 0}, BuildTagVector(nil, vocab))
}

func TestBuildTagVectorEmptyVocab(t *testing.T) {
	assert.Empty(t, BuildTagVector([]string{"a"}, nil))
}

func TestCosineIdenticalVectors(t *testing.T) {
	v := []float64{1, 0, 1, 0}
	assert.InDelta(t, 1.0, Cosine(v, v), 1e-9)
}

func TestCosineOrthogonalVectors(t *testing.T) {
	assert.InDelta(t, 0.0, Cosine([]float64{1, 0}, []float64{0, 1}), 1e-9)
}

func TestCosineZeroVector(t *testing.T) {
	// Zero magnitude must yield 0.0, not NaN.
	assert.Equal(t, 0.0, Cosine([]float64{0, 0}, []float64{1, 1}))
	assert.Equal(t, 0.0, Cosine([]float64{0, 0}, []float64{0, 0}))
}

func TestCosineSymmetry(t *testing.T) {
	a := []float64{1, 1, 0, 1}
	b := []float64{0, 1, 1, 0}
	assert.InDelta(t, Cosine(a, b), Cosine(b, a), 1e-9)
}

func TestCosinePartialOverlap(t *testing.T) {
	// Two shared tags out of 2 and 3: 2/(sqrt(2)*sqrt(3)).
	a := []float64{1, 1, 0}
	b := []float64{1, 1, 1}
	assert.InDelta(t, 0.81649658, Cosine(a, b), 1e-6)
}

func TestDot(t *testing.T) {
	assert.Equal(t, 11.0, Dot([]float64{1, 2, 3}, []float64{3, 1, 2}))
	assert.Equal(t, 0.0, Dot(nil, []float64{1}))
}

func TestCountCommonTags(t *testing.T) {
	assert.Equal(t, 2, countCommonTags(
		[]string{"python", "fitness", "travel"},
		[]string{"fitness", "netflix", "python"}))
	assert.Equal(t, 0, countCommonTags([]string{"a"}, []string{"b"}))
	// Duplicates count once.
	assert.Equal(t, 1, countCommonTags([]string{"a"}, []string{"a", "a"}))
}
