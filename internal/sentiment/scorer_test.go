package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze(t *testing.T) {
	t.Run("empty text is neutral", func(t *testing.T) {
		score := Analyze("")
		assert.Equal(t, "neutral", score.Label)
		assert.Equal(t, 0.0, score.Score)
	})

	t.Run("strongly positive headline", func(t *testing.T) {
		score := Analyze("Shares surge to record high after earnings beat")

		assert.Equal(t, "positive", score.Label)
		assert.Equal(t, 1.0, score.Score)
		assert.Contains(t, score.PositiveWords, "surge")
		assert.Contains(t, score.PositiveWords, "beat")
		assert.Empty(t, score.NegativeWords)
	})

	t.Run("strong words weigh double", func(t *testing.T) {
		strong := Analyze("prices crash")
		standard := Analyze("prices fall")

		assert.Equal(t, 2, strong.NegWeight)
		assert.Equal(t, 1, standard.NegWeight)
	})

	t.Run("mixed headline balances to neutral", func(t *testing.T) {
		score := Analyze("gain for some, loss for others")

		assert.Equal(t, 1, score.PosWeight)
		assert.Equal(t, 1, score.NegWeight)
		assert.Equal(t, 0.0, score.Score)
		assert.Equal(t, "neutral", score.Label)
	})

	t.Run("repeated words count once", func(t *testing.T) {
		once := Analyze("rally")
		thrice := Analyze("rally rally rally")

		assert.Equal(t, once.PosWeight, thrice.PosWeight)
	})

	t.Run("matching is case insensitive", func(t *testing.T) {
		assert.Equal(t, "negative", Analyze("MARKET CRASH IMMINENT").Label)
	})
}

func TestAnalyzeBatch(t *testing.T) {
	t.Run("empty batch holds", func(t *testing.T) {
		_, agg := AnalyzeBatch(nil)
		assert.Equal(t, "NEUTRAL", agg.Overall)
		assert.Equal(t, "HOLD", agg.Signal)
	})

	t.Run("bullish batch", func(t *testing.T) {
		scores, agg := AnalyzeBatch([]string{
			"Stock surges to record high",
			"Earnings beat, analysts upgrade to buy",
			"New partnership announced",
		})

		assert.Len(t, scores, 3)
		assert.Equal(t, 3, agg.PositiveCount)
		assert.Equal(t, 3, agg.CumulativeScore)
		assert.Equal(t, "VERY BULLISH", agg.Overall)
		assert.Equal(t, "STRONG BUY", agg.Signal)
	})

	t.Run("bearish batch", func(t *testing.T) {
		_, agg := AnalyzeBatch([]string{
			"Company files for bankruptcy after fraud probe",
			"Shares plummet in market selloff",
		})

		assert.Equal(t, 2, agg.NegativeCount)
		assert.Equal(t, -2, agg.CumulativeScore)
		assert.Equal(t, "VERY BEARISH", agg.Overall)
		assert.Equal(t, "STRONG SELL", agg.Signal)
	})

	t.Run("counts partition the batch", func(t *testing.T) {
		texts := []string{
			"surge higher",
			"prices crash",
			"nothing notable today",
		}
		_, agg := AnalyzeBatch(texts)

		assert.Equal(t, len(texts), agg.PositiveCount+agg.NegativeCount+agg.NeutralCount)
		assert.GreaterOrEqual(t, agg.StrongestPositive, 0.0)
		assert.LessOrEqual(t, agg.StrongestNegative, 0.0)
	})
}
