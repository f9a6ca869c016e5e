package helpers

import "time"

// MonthStart returns the first instant of t's month, offset by months
func MonthStart(t time.Time, months int) time.Time {
	return time.Date(t.Year(), t.Month()+time.Month(months), 1, 0, 0, 0, 0, t.Location())
}

// MonthKey formats t as YYYY-MM
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// Percent rounds part/total to a whole percentage, nil when total is zero
func Percent(part, total float64) *int {
	if total <= 0 {
		return nil
	}
	p := int(part/total*100 + 0.5)
	return &p
}
