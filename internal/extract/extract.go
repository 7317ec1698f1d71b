package extract

import (
	"regexp"
	"strings"

	"github.com/jcodina/facturaflow/internal/domain"
)

// Fields is the result of pattern matching over invoice text. Each field
// carries an explicit matched flag so callers can tell a real value from
// its fallback; a miss is resolved through the fallback, never an error.
type Fields struct {
	TotalAmount  string
	Vendor       string
	TotalMatched bool

	VendorMatched bool
}

// Both patterns are intentionally permissive first-match: the first "Total"
// or vendor token on any line wins, even if a later one would be a better
// candidate. Separators stay within the line; a value on the next line does
// not match.
var (
	totalPattern  = regexp.MustCompile(`(?i)total[ \t]*[:.\-]?[ \t]*([0-9][0-9.,]*)[ \t]*€?`)
	vendorPattern = regexp.MustCompile(`(?i)(?:proveïdor|emissor)[ \t]*[:\-]?[ \t]*([^\r\n]*)`)
)

// Extract maps raw page text to the invoice fields. Pure and deterministic.
//
// The total amount keeps its textual form with every comma replaced by a
// period; this is a literal substitution, not locale-aware number parsing,
// so "1.234,56" becomes "1.234.56".
func Extract(text string) Fields {
	f := Fields{
		TotalAmount: domain.TotalAmountFallback,
		Vendor:      domain.VendorFallback,
	}

	if m := totalPattern.FindStringSubmatch(text); m != nil {
		f.TotalAmount = strings.ReplaceAll(m[1], ",", ".")
		f.TotalMatched = true
	}

	if m := vendorPattern.FindStringSubmatch(text); m != nil {
		if v := strings.TrimSpace(m[1]); v != "" {
			f.Vendor = v
			f.VendorMatched = true
		}
	}

	return f
}
