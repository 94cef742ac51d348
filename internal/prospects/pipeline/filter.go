package pipeline

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/Valentin39220/bini-crm/internal/prospects/domain"
)

// StatusAll disables the status predicate of Filter.
const StatusAll = "all"

// Filter keeps the prospects whose company or contact contains term
// (case-insensitive, composed and decomposed accents alike) and whose status equals status. An empty status or
// StatusAll matches every status. Order is preserved.
func Filter(prospects []domain.Prospect, term, status string) []domain.Prospect {
	fold := cases.Fold()
	key := func(s string) string { return fold.String(norm.NFC.String(s)) }
	needle := key(term)

	return keep(prospects, func(p domain.Prospect) bool {
		if status != "" && status != StatusAll && string(p.Status) != status {
			return false
		}
		if needle == "" {
			return true
		}
		return strings.Contains(key(p.Company), needle) ||
			strings.Contains(key(p.Contact), needle)
	})
}
