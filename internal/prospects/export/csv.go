// Package export renders the prospect collection as delimited text.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/Valentin39220/bini-crm/internal/prospects/domain"
)

const (
	Filename    = "prospects_bini.csv"
	ContentType = "text/csv"
)

// Header holds the column labels, in column order.
var Header = []string{
	"Entreprise",
	"Contact",
	"Téléphone",
	"Email",
	"Statut",
	"Température",
	"Source",
	"Montant",
	"Date Relance",
}

// ToCSV joins fields with commas and rows with newlines, without quoting.
// A comma or newline inside a field is written as-is and will shift the
// columns of that row; use ToRFC4180 when the data may contain them.
func ToCSV(prospects []domain.Prospect) string {
	lines := make([]string, 0, len(prospects)+1)
	lines = append(lines, strings.Join(Header, ","))
	for _, p := range prospects {
		lines = append(lines, strings.Join(row(p), ","))
	}
	return strings.Join(lines, "\n")
}

// ToRFC4180 writes the same columns with RFC 4180 quoting.
func ToRFC4180(prospects []domain.Prospect) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		return "", fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, p := range prospects {
		if err := w.Write(row(p)); err != nil {
			return "", fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.String(), nil
}

func row(p domain.Prospect) []string {
	return []string{
		p.Company,
		p.Contact,
		p.Phone,
		p.Email,
		string(p.Status),
		string(p.Temperature),
		p.Source,
		p.EstimatedValue.String(),
		p.NextFollowUp.String(),
	}
}
