package sentiment_test

import (
	"testing"

	"intervue/sentiment"

	"github.com/stretchr/testify/assert"
)

// TestAnalyzeEmptyText verifies that empty or word-free input scores zero and
// lands in the neutral category.
func TestAnalyzeEmptyText(t *testing.T) {
	for _, text := range []string{"", "   ", "!!! ---"} {
		res := sentiment.Analyze(text)

		assert.Equal(t, 0.0, res.Score, "score for %q", text)
		assert.Equal(t, 0.0, res.Comparative, "comparative for %q", text)
		assert.Equal(t, sentiment.CategoryNeutral, res.Category, "category for %q", text)
	}
}

// TestAnalyzePositiveText verifies a fixed positive string always scores
// positive, and does so deterministically across runs.
func TestAnalyzePositiveText(t *testing.T) {
	first := sentiment.Analyze("great team, loved it")
	second := sentiment.Analyze("great team, loved it")

	assert.Equal(t, first, second, "Analyze must be deterministic")
	assert.Equal(t, sentiment.CategoryPositive, first.Category)
	assert.Greater(t, first.Score, 1.0)
	assert.Equal(t, first.Score/4, first.Comparative, "four tokens in the input")
}

// TestAnalyzeNegativeText verifies a fixed negative string scores negative.
func TestAnalyzeNegativeText(t *testing.T) {
	res := sentiment.Analyze("rude interviewer, terrible and stressful process")

	assert.Equal(t, sentiment.CategoryNegative, res.Category)
	assert.Less(t, res.Score, -1.0)
}

// TestCategorizeThresholds pins the category boundaries: strictly above 1 is
// positive, strictly below -1 is negative, the closed interval [-1, 1] is
// neutral.
func TestCategorizeThresholds(t *testing.T) {
	assert.Equal(t, sentiment.CategoryNeutral, sentiment.Categorize(1))
	assert.Equal(t, sentiment.CategoryNeutral, sentiment.Categorize(-1))
	assert.Equal(t, sentiment.CategoryNeutral, sentiment.Categorize(0))
	assert.Equal(t, sentiment.CategoryPositive, sentiment.Categorize(1.5))
	assert.Equal(t, sentiment.CategoryNegative, sentiment.Categorize(-1.5))
}

// TestAnalyzeMixedText verifies opposing words offset each other.
func TestAnalyzeMixedText(t *testing.T) {
	res := sentiment.Analyze("good questions but rude panel")

	// good(+3) + rude(-2) = 1, inside the neutral band.
	assert.Equal(t, 1.0, res.Score)
	assert.Equal(t, sentiment.CategoryNeutral, res.Category)
}
