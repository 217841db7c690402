package budget

import "tajawal-cli/internal/model"

// DayTotal sums explicit costs of one day. Absent costs count as 0.
func DayTotal(d model.Day) float64 {
	total := 0.0
	for _, a := range d.Activities {
		total += a.CostOrZero()
	}
	return total
}

// TripTotal sums DayTotal over all days.
func TripTotal(days []model.Day) float64 {
	total := 0.0
	for _, d := range days {
		total += DayTotal(d)
	}
	return total
}

// DaySummary is the per-day row of a budget. Priced and Unpriced count activities with and
// without an explicit cost, so a 0 total can be told apart from "nothing priced yet".
type DaySummary struct {
	Day      int     `json:"day"`
	Total    float64 `json:"total"`
	Priced   int     `json:"priced"`
	Unpriced int     `json:"unpriced"`
}

type Summary struct {
	PerDay []DaySummary `json:"perDay"`
	Total  float64      `json:"total"`
}

func Compute(days []model.Day) Summary {
	out := Summary{PerDay: make([]DaySummary, 0, len(days))}
	for _, d := range days {
		row := DaySummary{Day: d.Day, Total: DayTotal(d)}
		for _, a := range d.Activities {
			if a.HasCost() {
				row.Priced++
			} else {
				row.Unpriced++
			}
		}
		out.PerDay = append(out.PerDay, row)
		out.Total += row.Total
	}
	return out
}
