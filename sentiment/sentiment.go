// Package sentiment scores free text with an AFINN-style word lexicon.
// The score is the sum of the valences of known words; comparative is the
// score divided by the token count.
package sentiment

import "strings"

const (
	CategoryPositive = "positive"
	CategoryNeutral  = "neutral"
	CategoryNegative = "negative"
)

type Result struct {
	Score       float64 `json:"score"`
	Comparative float64 `json:"comparative"`
	Category    string  `json:"category"`
}

// lexicon maps lowercase words to valence on the AFINN -5..5 scale.
var lexicon = map[string]float64{
	"amazing":      4,
	"awesome":      4,
	"best":         3,
	"brilliant":    4,
	"calm":         2,
	"challenging":  1,
	"clear":        1,
	"comfortable":  2,
	"encouraging":  2,
	"enjoy":        2,
	"enjoyed":      2,
	"excellent":    3,
	"excited":      3,
	"fair":         2,
	"fantastic":    4,
	"friendly":     2,
	"fun":          4,
	"glad":         3,
	"good":         3,
	"great":        3,
	"happy":        3,
	"helpful":      2,
	"impressed":    3,
	"impressive":   3,
	"insightful":   2,
	"interesting":  2,
	"kind":         2,
	"like":         2,
	"liked":        2,
	"love":         3,
	"loved":        3,
	"nice":         3,
	"patient":      1,
	"perfect":      3,
	"pleasant":     3,
	"polite":       2,
	"positive":     2,
	"professional": 2,
	"recommend":    2,
	"recommended":  2,
	"respectful":   2,
	"smooth":       2,
	"strong":       2,
	"supportive":   2,
	"thorough":     1,
	"welcoming":    2,
	"wonderful":    4,
	"worth":        2,

	"annoying":       -2,
	"arrogant":       -2,
	"awful":          -3,
	"bad":            -3,
	"boring":         -3,
	"chaotic":        -2,
	"cold":           -1,
	"confused":       -2,
	"confusing":      -2,
	"disappointed":   -2,
	"disappointing":  -2,
	"dishonest":      -2,
	"disorganized":   -2,
	"dreadful":       -3,
	"frustrated":     -2,
	"frustrating":    -2,
	"harsh":          -2,
	"hate":           -3,
	"hated":          -3,
	"horrible":       -3,
	"hostile":        -2,
	"insulting":      -2,
	"late":           -1,
	"mediocre":       -1,
	"mess":           -2,
	"messy":          -2,
	"nightmare":      -3,
	"painful":        -2,
	"pathetic":       -2,
	"poor":           -2,
	"rejected":       -1,
	"rude":           -2,
	"slow":           -1,
	"stressful":      -2,
	"terrible":       -3,
	"toxic":          -2,
	"unclear":        -1,
	"unfair":         -2,
	"unprepared":     -1,
	"unprofessional": -2,
	"useless":        -2,
	"waste":          -1,
	"wasted":         -2,
	"worst":          -3,
	"worthless":      -2,
}

// Analyze scores the given text. Empty or word-free text scores {0, 0}.
func Analyze(text string) Result {
	tokens := tokenize(text)

	var score float64
	for _, tok := range tokens {
		if v, ok := lexicon[tok]; ok {
			score += v
		}
	}

	var comparative float64
	if len(tokens) > 0 {
		comparative = score / float64(len(tokens))
	}

	return Result{
		Score:       score,
		Comparative: comparative,
		Category:    Categorize(score),
	}
}

// Categorize maps a score to its category: above 1 is positive, below -1 is
// negative, anything in between is neutral.
func Categorize(score float64) string {
	switch {
	case score > 1:
		return CategoryPositive
	case score < -1:
		return CategoryNegative
	default:
		return CategoryNeutral
	}
}

func tokenize(text string) []string {
	lowered := strings.ToLower(text)
	return strings.FieldsFunc(lowered, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '\''
	})
}
