package repository

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Valentin39220/bini-crm/internal/prospects/domain"
)

//go:embed seed.yaml
var seedYAML []byte

type seedNote struct {
	Date string `yaml:"date"`
	Text string `yaml:"text"`
}

type seedProspect struct {
	ID             string     `yaml:"id"`
	Company        string     `yaml:"company"`
	Contact        string     `yaml:"contact"`
	Phone          string     `yaml:"phone"`
	Email          string     `yaml:"email"`
	Status         string     `yaml:"status"`
	Temperature    string     `yaml:"temperature"`
	Source         string     `yaml:"source"`
	CreatedAt      string     `yaml:"created_at"`
	NextFollowUp   string     `yaml:"next_follow_up"`
	EstimatedValue float64    `yaml:"estimated_value"`
	Notes          []seedNote `yaml:"notes"`
}

// SeedProspects returns the example dataset used when no collection has
// been persisted yet.
func SeedProspects() ([]domain.Prospect, error) {
	return parseSeed(seedYAML)
}

func parseSeed(data []byte) ([]domain.Prospect, error) {
	var raw []seedProspect
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse seed fixtures: %w", err)
	}

	out := make([]domain.Prospect, 0, len(raw))
	for _, s := range raw {
		p, err := s.toDomain()
		if err != nil {
			return nil, fmt.Errorf("seed prospect %q: %w", s.ID, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (s seedProspect) toDomain() (domain.Prospect, error) {
	createdAt, err := domain.ParseDate(s.CreatedAt)
	if err != nil {
		return domain.Prospect{}, err
	}
	followUp, err := domain.ParseDate(s.NextFollowUp)
	if err != nil {
		return domain.Prospect{}, err
	}
	amount, err := domain.AmountFromFloat(s.EstimatedValue)
	if err != nil {
		return domain.Prospect{}, err
	}

	notes := make([]domain.Note, 0, len(s.Notes))
	for _, n := range s.Notes {
		d, err := domain.ParseDate(n.Date)
		if err != nil {
			return domain.Prospect{}, err
		}
		notes = append(notes, domain.Note{Date: d, Text: n.Text})
	}

	p := domain.Prospect{
		ID:             s.ID,
		Company:        s.Company,
		Contact:        s.Contact,
		Phone:          s.Phone,
		Email:          s.Email,
		Status:         domain.StatusID(s.Status),
		Temperature:    domain.TemperatureID(s.Temperature),
		Source:         s.Source,
		CreatedAt:      createdAt,
		NextFollowUp:   followUp,
		Notes:          notes,
		EstimatedValue: amount,
	}
	if err := domain.DraftOf(p).Validate(); err != nil {
		return domain.Prospect{}, err
	}
	return p, nil
}
