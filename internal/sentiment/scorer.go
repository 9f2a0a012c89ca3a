// Package sentiment scores financial text with weighted keyword matching
// and aggregates per-text scores into an overall market signal.
package sentiment

import (
	"regexp"
	"sort"
	"strings"
)

// positiveWords and negativeWords carry per-word weights. Strong movers
// weigh 2, ordinary vocabulary weighs 1.
var positiveWords = map[string]int{
	"surge": 2, "soar": 2, "skyrocket": 2, "boom": 2, "breakout": 2,
	"moonshot": 2, "parabolic": 2, "explosive": 2, "unprecedented": 2,

	"rally": 1, "gain": 1, "rise": 1, "jump": 1, "climb": 1, "bull": 1, "bullish": 1,
	"spike": 1, "rebound": 1, "recover": 1, "uptick": 1, "upbeat": 1,
	"profit": 1, "growth": 1, "revenue": 1, "earnings": 1, "dividend": 1,
	"outperform": 1, "beat": 1, "exceed": 1, "record": 1, "high": 1, "peak": 1,
	"strong": 1, "positive": 1, "optimistic": 1, "confident": 1, "favorable": 1,
	"promising": 1, "encouraging": 1, "healthy": 1, "robust": 1, "solid": 1, "stable": 1,
	"upgrade": 1, "buy": 1, "accumulate": 1, "recommend": 1, "endorse": 1, "approve": 1,
	"launch": 1, "expand": 1, "acquire": 1, "partner": 1, "innovate": 1, "disrupt": 1,
	"breakthrough": 1, "success": 1, "victory": 1, "win": 1, "deal": 1, "agreement": 1,
	"partnership": 1, "collaboration": 1, "investment": 1, "funding": 1, "ipo": 1,
	"adoption": 1, "milestone": 1, "achievement": 1, "momentum": 1, "upside": 1,
}

var negativeWords = map[string]int{
	"crash": 2, "collapse": 2, "plummet": 2, "tank": 2, "disaster": 2,
	"catastrophe": 2, "bankrupt": 2, "fraud": 2, "scam": 2, "ponzi": 2,

	"plunge": 1, "fall": 1, "drop": 1, "decline": 1, "tumble": 1, "sink": 1, "bear": 1, "bearish": 1,
	"dive": 1, "slump": 1, "selloff": 1, "downturn": 1, "downgrade": 1,
	"loss": 1, "deficit": 1, "debt": 1, "miss": 1, "disappoint": 1, "shortfall": 1, "underperform": 1,
	"writedown": 1, "impairment": 1, "default": 1, "bankruptcy": 1, "insolvency": 1,
	"weak": 1, "negative": 1, "pessimistic": 1, "uncertain": 1, "volatile": 1, "risky": 1,
	"concerning": 1, "troubling": 1, "alarming": 1, "worrying": 1, "struggling": 1,
	"sell": 1, "avoid": 1, "cut": 1, "layoff": 1, "restructure": 1, "divest": 1,
	"terminate": 1, "suspend": 1, "halt": 1, "delay": 1, "cancel": 1, "recall": 1,
	"lawsuit": 1, "investigation": 1, "probe": 1, "scandal": 1, "violation": 1,
	"fine": 1, "penalty": 1, "sanction": 1, "warning": 1, "crisis": 1, "recession": 1,
	"inflation": 1, "war": 1, "conflict": 1, "tariff": 1, "restriction": 1, "ban": 1, "shortage": 1,
	"liquidation": 1, "hack": 1, "exploit": 1, "rug": 1, "dump": 1, "manipulation": 1,
}

var wordPattern = regexp.MustCompile(`\b\w+\b`)

// TextScore is the sentiment of one piece of text. Score ranges -1..1 with
// 0 meaning neutral or no matched vocabulary.
type TextScore struct {
	Score         float64  `json:"score"`
	Label         string   `json:"label"`
	PositiveWords []string `json:"positive_words"`
	NegativeWords []string `json:"negative_words"`
	PosWeight     int      `json:"pos_weight"`
	NegWeight     int      `json:"neg_weight"`
}

// Aggregate summarizes the scores of a batch of texts.
type Aggregate struct {
	Score             float64 `json:"score"`
	WeightedScore     float64 `json:"weighted_score"`
	Overall           string  `json:"overall"`
	Signal            string  `json:"signal"`
	PositiveCount     int     `json:"positive_count"`
	NegativeCount     int     `json:"negative_count"`
	NeutralCount      int     `json:"neutral_count"`
	CumulativeScore   int     `json:"cumulative_score"`
	StrongestPositive float64 `json:"strongest_positive"`
	StrongestNegative float64 `json:"strongest_negative"`
}

// Analyze scores a text by matching its unique words against the weighted
// vocabularies. Each distinct word counts once no matter how often it
// repeats. The label flips at |score| > 0.2.
func Analyze(text string) TextScore {
	result := TextScore{Label: "neutral"}
	if text == "" {
		return result
	}

	seen := make(map[string]struct{})
	for _, word := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}

		if w, ok := positiveWords[word]; ok {
			result.PositiveWords = append(result.PositiveWords, word)
			result.PosWeight += w
		}
		if w, ok := negativeWords[word]; ok {
			result.NegativeWords = append(result.NegativeWords, word)
			result.NegWeight += w
		}
	}
	sort.Strings(result.PositiveWords)
	sort.Strings(result.NegativeWords)

	total := result.PosWeight + result.NegWeight
	if total > 0 {
		result.Score = float64(result.PosWeight-result.NegWeight) / float64(total)
	}

	switch {
	case result.Score > 0.2:
		result.Label = "positive"
	case result.Score < -0.2:
		result.Label = "negative"
	}
	return result
}

// AnalyzeBatch scores every text and aggregates the outcome. Texts scoring
// above 0.15 count positive, below -0.15 negative; the cumulative score is
// positives minus negatives. The weighted score amplifies conviction, so a
// few strong scores outweigh many faint ones.
func AnalyzeBatch(texts []string) ([]TextScore, Aggregate) {
	scores := make([]TextScore, len(texts))
	agg := Aggregate{Overall: "NEUTRAL", Signal: "HOLD"}
	if len(texts) == 0 {
		return scores, agg
	}

	var sum, weighted float64
	for i, text := range texts {
		scores[i] = Analyze(text)
		s := scores[i].Score

		sum += s
		weighted += s * (1 + abs(s))
		switch {
		case s > 0.15:
			agg.PositiveCount++
		case s < -0.15:
			agg.NegativeCount++
		default:
			agg.NeutralCount++
		}
		if s > agg.StrongestPositive {
			agg.StrongestPositive = s
		}
		if s < agg.StrongestNegative {
			agg.StrongestNegative = s
		}
	}

	n := float64(len(texts))
	agg.Score = sum / n
	agg.WeightedScore = weighted / n
	agg.CumulativeScore = agg.PositiveCount - agg.NegativeCount

	switch {
	case agg.WeightedScore > 0.3:
		agg.Overall, agg.Signal = "VERY BULLISH", "STRONG BUY"
	case agg.WeightedScore > 0.15:
		agg.Overall, agg.Signal = "BULLISH", "BUY"
	case agg.WeightedScore < -0.3:
		agg.Overall, agg.Signal = "VERY BEARISH", "STRONG SELL"
	case agg.WeightedScore < -0.15:
		agg.Overall, agg.Signal = "BEARISH", "SELL"
	}
	return scores, agg
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
