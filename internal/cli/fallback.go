package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"tajawal-cli/internal/model"
)

// loadFallback returns the plan used when a trip has nothing stored yet: the JSON file at
// path, or the built-in demo plan.
func loadFallback(path string) ([]model.Day, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return model.DemoPlan(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fallback: %w", err)
	}
	var days []model.Day
	if err := json.Unmarshal(b, &days); err != nil {
		return nil, fmt.Errorf("parse fallback %s: %w", path, err)
	}
	if days == nil {
		days = []model.Day{}
	}
	if err := model.ValidateDays(days); err != nil {
		return nil, fmt.Errorf("parse fallback %s: %w", path, err)
	}
	return days, nil
}

// dayIndex maps --day, a day number as printed in "day", to its position in days. -1 when
// no day carries that number.
func dayIndex(days []model.Day, day int) int {
	return model.DayIndex(days, day)
}
