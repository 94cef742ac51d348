package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Valentin39220/bini-crm/internal/prospects/domain"
)

// wireProspect accepts both the current field names and the French names
// written by the first version of the app (entreprise, statut, montant...).
type wireProspect struct {
	ID json.RawMessage `json:"id"`

	Company    *string `json:"company"`
	Entreprise *string `json:"entreprise"`
	Contact    string  `json:"contact"`
	Phone      *string `json:"phone"`
	Telephone  *string `json:"telephone"`
	Email      string  `json:"email"`

	Status      *string `json:"status"`
	Statut      *string `json:"statut"`
	Temperature string  `json:"temperature"`
	Source      string  `json:"source"`

	CreatedAt    *string `json:"createdAt"`
	DateCreation *string `json:"dateCreation"`
	NextFollowUp *string `json:"nextFollowUp"`
	DateRelance  *string `json:"dateRelance"`

	Notes []wireNote `json:"notes"`

	EstimatedValue *domain.Amount `json:"estimatedValue"`
	Montant        *domain.Amount `json:"montant"`
}

type wireNote struct {
	Date  string  `json:"date"`
	Text  *string `json:"text"`
	Texte *string `json:"texte"`
}

// encodeProspects serializes the collection. Output is deterministic for a
// given collection.
func encodeProspects(prospects []domain.Prospect) ([]byte, error) {
	out := make([]domain.Prospect, len(prospects))
	for i, p := range prospects {
		out[i] = p.Clone()
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal prospects: %w", err)
	}
	return data, nil
}

func decodeProspects(data []byte) ([]domain.Prospect, error) {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("payload is null")
	}

	var wire []wireProspect
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prospects: %w", err)
	}

	out := make([]domain.Prospect, 0, len(wire))
	seen := make(map[string]struct{}, len(wire))
	for i, w := range wire {
		p, err := w.toDomain()
		if err != nil {
			return nil, fmt.Errorf("prospect %d: %w", i, err)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("prospect %d: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

func (w wireProspect) toDomain() (domain.Prospect, error) {
	id, err := decodeID(w.ID)
	if err != nil {
		return domain.Prospect{}, err
	}

	createdAt, err := domain.ParseDate(firstOf(w.CreatedAt, w.DateCreation))
	if err != nil {
		return domain.Prospect{}, fmt.Errorf("createdAt: %w", err)
	}
	followUp, err := domain.ParseDate(firstOf(w.NextFollowUp, w.DateRelance))
	if err != nil {
		return domain.Prospect{}, fmt.Errorf("nextFollowUp: %w", err)
	}

	notes := make([]domain.Note, 0, len(w.Notes))
	for j, n := range w.Notes {
		date, err := domain.ParseDate(n.Date)
		if err != nil {
			return domain.Prospect{}, fmt.Errorf("note %d: %w", j, err)
		}
		notes = append(notes, domain.Note{Date: date, Text: firstOf(n.Text, n.Texte)})
	}

	var amount domain.Amount
	switch {
	case w.EstimatedValue != nil:
		amount = *w.EstimatedValue
	case w.Montant != nil:
		amount = *w.Montant
	}

	return domain.Prospect{
		ID:             id,
		Company:        firstOf(w.Company, w.Entreprise),
		Contact:        w.Contact,
		Phone:          firstOf(w.Phone, w.Telephone),
		Email:          w.Email,
		Status:         domain.NormalizeLegacyStatus(firstOf(w.Status, w.Statut)),
		Temperature:    domain.NormalizeLegacyTemperature(w.Temperature),
		Source:         w.Source,
		CreatedAt:      createdAt,
		NextFollowUp:   followUp,
		Notes:          notes,
		EstimatedValue: amount,
	}, nil
}

// decodeID accepts string ids and the numeric ids of legacy payloads.
func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", fmt.Errorf("missing id")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("invalid id: %w", err)
		}
		if strings.TrimSpace(s) == "" {
			return "", fmt.Errorf("missing id")
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("invalid id %s", raw)
	}
	return n.String(), nil
}

func firstOf(values ...*string) string {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return ""
}
