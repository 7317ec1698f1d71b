package domain

import "fmt"

// Quarter selects one quarter of a year, or all of them.
type Quarter int

const (
	QuarterAll Quarter = iota
	Q1
	Q2
	Q3
	Q4
)

// ParseQuarter maps the user-facing quarter selection to a Quarter.
// Accepted values: "", "all", "q1".."q4", "1".."4".
func ParseQuarter(s string) (Quarter, error) {
	switch s {
	case "", "all", "tots":
		return QuarterAll, nil
	case "q1", "1":
		return Q1, nil
	case "q2", "2":
		return Q2, nil
	case "q3", "3":
		return Q3, nil
	case "q4", "4":
		return Q4, nil
	}
	return QuarterAll, fmt.Errorf("invalid quarter %q", s)
}

func (q Quarter) String() string {
	if q == QuarterAll {
		return "all"
	}
	return fmt.Sprintf("Q%d", int(q))
}

// PeriodSelection is the (quarter, year) filter for one ingestion run.
// Year 0 means all years; when Year is 0 the quarter is ignored for
// filtering, so no date bound applies regardless of Quarter.
type PeriodSelection struct {
	Quarter Quarter
	Year    int
}

// AllTime reports whether the selection carries no year bound.
func (p PeriodSelection) AllTime() bool {
	return p.Year == 0
}

// FolderName derives the destination folder name for this period.
func (p PeriodSelection) FolderName() string {
	switch {
	case p.AllTime():
		return "General Invoices"
	case p.Quarter == QuarterAll:
		return fmt.Sprintf("Invoices %d", p.Year)
	default:
		return fmt.Sprintf("Invoices Q%d %d", int(p.Quarter), p.Year)
	}
}
