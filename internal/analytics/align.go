package analytics

import (
	"sort"

	"stonks-api/internal/models"
)

// Align merges several price series onto one ascending date axis.
//
// The axis is the union of every input date (ISO strings, so lexicographic
// sort is chronological). Each column walks the axis once carrying the last
// observed price: dates before an asset's first observation stay nil, gaps
// after it are forward-filled. An asset with no observations yields an
// all-nil column; callers exclude zero-coverage columns from statistics.
func Align(series []models.Series) *models.AlignedFrame {
	dateSet := make(map[string]struct{})
	for _, s := range series {
		for _, p := range s.Points {
			dateSet[p.Date] = struct{}{}
		}
	}

	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	frame := &models.AlignedFrame{
		Dates:   dates,
		Columns: make(map[string][]*float64, len(series)),
		Order:   make([]string, 0, len(series)),
	}

	for _, s := range series {
		byDate := make(map[string]float64, len(s.Points))
		for _, p := range s.Points {
			byDate[p.Date] = p.Close
		}

		column := make([]*float64, len(dates))
		var last *float64
		for i, d := range dates {
			if price, ok := byDate[d]; ok {
				v := price
				last = &v
			}
			column[i] = last
		}

		frame.Columns[s.AssetID] = column
		frame.Order = append(frame.Order, s.AssetID)
	}

	return frame
}
