package mailbox

import (
	"fmt"
	"time"

	"github.com/jcodina/facturaflow/internal/domain"
)

const dateFormat = "2006/01/02"

// BuildQuery translates a period selection into the mailbox's native filter
// expression. The base predicate always restricts to labeled messages with a
// PDF-named attachment; date bounds are added only when a year is selected.
// Bounds are half-open: after the day before the period starts would admit
// too much, so the mailbox convention [after, before) is used with exact
// period edges.
func BuildQuery(label string, period domain.PeriodSelection) string {
	q := fmt.Sprintf("label:%s has:attachment filename:pdf", label)
	if period.AllTime() {
		return q
	}

	start, end := periodBounds(period)
	return fmt.Sprintf("%s after:%s before:%s", q, start.Format(dateFormat), end.Format(dateFormat))
}

func periodBounds(period domain.PeriodSelection) (time.Time, time.Time) {
	year := period.Year
	switch period.Quarter {
	case domain.Q1:
		return date(year, time.January), date(year, time.April)
	case domain.Q2:
		return date(year, time.April), date(year, time.July)
	case domain.Q3:
		return date(year, time.July), date(year, time.October)
	case domain.Q4:
		return date(year, time.October), date(year+1, time.January)
	default:
		return date(year, time.January), date(year+1, time.January)
	}
}

func date(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}
