package analytics

import (
	"math"
	"sort"

	"stonks-api/internal/models"
)

const (
	// extremaWindow is the number of neighbors on each side a point must
	// dominate to count as a local extremum.
	extremaWindow = 5
	// minSeparation is the minimum distance, in axis positions, between
	// the two anchor points of a trend line.
	minSeparation = 15
	// minTrendPoints is the minimum number of valid observations needed
	// before trend detection is attempted at all.
	minTrendPoints = 20
)

type extremum struct {
	index int // position on the date axis
	price float64
}

// DetectTrendLines fits support and resistance lines over an aligned price
// column. The support line connects the two deepest local minima that sit
// at least minSeparation positions apart, resistance the two highest local
// maxima. Either line can be nil when no qualifying pair exists.
func DetectTrendLines(dates []string, prices []*float64) models.TrendLines {
	var valid []extremum
	for i, p := range prices {
		if p != nil && *p > 0 {
			valid = append(valid, extremum{index: i, price: *p})
		}
	}
	if len(valid) < minTrendPoints {
		return models.TrendLines{}
	}

	minima, maxima := localExtrema(valid)

	// Deepest minima first for support, highest maxima first for
	// resistance. The first well-separated pair in that order anchors
	// the line.
	sort.SliceStable(minima, func(i, j int) bool { return minima[i].price < minima[j].price })
	sort.SliceStable(maxima, func(i, j int) bool { return maxima[i].price > maxima[j].price })

	firstIdx := valid[0].index
	lastIdx := valid[len(valid)-1].index

	return models.TrendLines{
		Support:    fitLine(minima, dates, firstIdx, lastIdx),
		Resistance: fitLine(maxima, dates, firstIdx, lastIdx),
	}
}

// localExtrema scans the interior of the valid sequence. Comparisons are
// inclusive, so flat plateaus still produce extrema.
func localExtrema(valid []extremum) (minima, maxima []extremum) {
	for i := extremaWindow; i < len(valid)-extremaWindow; i++ {
		isMin, isMax := true, true
		for j := i - extremaWindow; j <= i+extremaWindow; j++ {
			if valid[j].price < valid[i].price {
				isMin = false
			}
			if valid[j].price > valid[i].price {
				isMax = false
			}
			if !isMin && !isMax {
				break
			}
		}
		if isMin {
			minima = append(minima, valid[i])
		}
		if isMax {
			maxima = append(maxima, valid[i])
		}
	}
	return minima, maxima
}

// fitLine picks the first pair of extrema, in the caller's priority order,
// whose axis positions are far enough apart, then extrapolates the line
// across the visible range.
func fitLine(extrema []extremum, dates []string, firstIdx, lastIdx int) *models.TrendLine {
	if len(extrema) < 2 {
		return nil
	}

	var a, b extremum
	found := false
	for i := 0; i < len(extrema) && !found; i++ {
		for j := i + 1; j < len(extrema); j++ {
			if math.Abs(float64(extrema[i].index-extrema[j].index)) >= minSeparation {
				a, b = extrema[i], extrema[j]
				found = true
				break
			}
		}
	}
	if !found {
		return nil
	}

	if a.index > b.index {
		a, b = b, a
	}

	slope := (b.price - a.price) / float64(b.index-a.index)
	at := func(idx int) float64 {
		return a.price + slope*float64(idx-a.index)
	}

	return &models.TrendLine{
		Point1: models.TrendPoint{Date: dates[a.index], Price: a.price, Index: a.index},
		Point2: models.TrendPoint{Date: dates[b.index], Price: b.price, Index: b.index},
		Slope:  slope,
		Extended: models.TrendExtent{
			Start: models.TrendSegment{Index: firstIdx, Price: at(firstIdx)},
			End:   models.TrendSegment{Index: lastIdx, Price: at(lastIdx)},
		},
	}
}
