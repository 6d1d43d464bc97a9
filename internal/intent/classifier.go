package intent

import (
	"strings"

	"github.com/codenav/codenav/pkg/types"
)

// Pattern weights
const (
	phraseWeight  = 2.0
	keywordWeight = 1.0

	// confidenceFloor is the minimum accumulated weight a category needs;
	// below it the query falls back to GENERAL with confidence 0.
	confidenceFloor = 1.0
)

// pattern is one matcher contributing a fixed weight to its category
type pattern struct {
	match  string
	weight float64
}

// categoryRules is one category's pattern set
type categoryRules struct {
	category types.IntentCategory
	patterns []pattern
}

// ruleTable is the static, ordered pattern table. Order doubles as the
// deterministic tie-break: on equal weight, the earlier category wins.
var ruleTable = []categoryRules{
	{
		category: types.IntentCodeLocation,
		patterns: []pattern{
			{"where is", phraseWeight},
			{"where's", phraseWeight},
			{"which file", phraseWeight},
			{"implementation of", phraseWeight},
			{"defined in", phraseWeight},
			{"located", keywordWeight},
			{"locate", keywordWeight},
			{"find", keywordWeight},
			{"definition", keywordWeight},
			{"source of", keywordWeight},
		},
	},
	{
		category: types.IntentDocLookup,
		patterns: []pattern{
			{"how do i use", phraseWeight},
			{"how to use", phraseWeight},
			{"documentation for", phraseWeight},
			{"docs for", phraseWeight},
			{"readme", keywordWeight},
			{"documentation", keywordWeight},
			{"docs", keywordWeight},
			{"protocol", keywordWeight},
			{"interface spec", phraseWeight},
			{"changelog", keywordWeight},
			{"guide", keywordWeight},
			{"usage", keywordWeight},
		},
	},
	{
		category: types.IntentModuleHealth,
		patterns: []pattern{
			{"health of", phraseWeight},
			{"status of", phraseWeight},
			{"is it stale", phraseWeight},
			{"health", keywordWeight},
			{"stale", keywordWeight},
			{"outdated", keywordWeight},
			{"broken", keywordWeight},
			{"compliance", keywordWeight},
			{"violations", keywordWeight},
			{"audit", keywordWeight},
		},
	},
	{
		category: types.IntentResearch,
		patterns: []pattern{
			{"why does", phraseWeight},
			{"compare", keywordWeight},
			{"investigate", keywordWeight},
			{"research", keywordWeight},
			{"explore", keywordWeight},
			{"explain", keywordWeight},
			{"trade-off", keywordWeight},
			{"tradeoff", keywordWeight},
			{"alternatives", keywordWeight},
		},
	},
}

// Classify maps a raw query string to an intent category with confidence.
//
// It is a pure function of the query text and the static rule table: no
// external state, no randomness. Each matching pattern contributes its
// weight; the category with the highest accumulated weight wins and
// confidence is the winner's share of all matched weight. If no category
// reaches the floor, GENERAL is returned with confidence 0.
func Classify(queryText string) types.Intent {
	text := strings.ToLower(queryText)

	var winner types.IntentCategory
	var winning, total float64

	for _, rules := range ruleTable {
		var score float64
		for _, p := range rules.patterns {
			if strings.Contains(text, p.match) {
				score += p.weight
			}
		}
		total += score

		// Strict greater-than keeps the earlier category on ties
		if score > winning {
			winning = score
			winner = rules.category
		}
	}

	if winning < confidenceFloor {
		return types.Intent{Category: types.IntentGeneral, Confidence: 0}
	}

	return types.Intent{
		Category:   winner,
		Confidence: winning / total,
	}
}
