package domain

import "fmt"

// Note is one entry of a prospect's timeline.
type Note struct {
	Date Date   `json:"date"`
	Text string `json:"text"`
}

// Prospect is a tracked sales lead. It is storage-agnostic and shared by the
// repository, service and HTTP layers.
type Prospect struct {
	ID             string        `json:"id"`
	Company        string        `json:"company"`
	Contact        string        `json:"contact"`
	Phone          string        `json:"phone"`
	Email          string        `json:"email"`
	Status         StatusID      `json:"status"`
	Temperature    TemperatureID `json:"temperature"`
	Source         string        `json:"source"`
	CreatedAt      Date          `json:"createdAt"`
	NextFollowUp   Date          `json:"nextFollowUp"`
	Notes          []Note        `json:"notes"`
	EstimatedValue Amount        `json:"estimatedValue"`
}

// Clone returns a deep copy; Notes is never nil in the copy.
func (p Prospect) Clone() Prospect {
	out := p
	out.Notes = make([]Note, len(p.Notes))
	copy(out.Notes, p.Notes)
	return out
}

func (p Prospect) StatusInfo() StatusDescriptor {
	return ResolveStatus(p.Status)
}

func (p Prospect) TemperatureInfo() TemperatureDescriptor {
	return ResolveTemperature(p.Temperature)
}

// Draft carries the caller-editable fields of a prospect. It is used both to
// create a prospect and as the full replacement object of an update.
type Draft struct {
	Company        string
	Contact        string
	Phone          string
	Email          string
	Status         StatusID
	Temperature    TemperatureID
	Source         string
	NextFollowUp   Date
	EstimatedValue Amount

	// Notes replaces the timeline on update when non-nil. Ignored on create.
	Notes []Note
}

// Validate checks taxonomy membership. Empty ids are allowed here and mean
// "use the default" on create; Update rejects them.
func (d Draft) Validate() error {
	if d.Status != "" && !IsKnownStatus(d.Status) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, d.Status)
	}
	if d.Temperature != "" && !IsKnownTemperature(d.Temperature) {
		return fmt.Errorf("%w: %q", ErrUnknownTemperature, d.Temperature)
	}
	if d.EstimatedValue < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, d.EstimatedValue)
	}
	return nil
}

// DraftOf returns the draft that reproduces p's editable fields.
func DraftOf(p Prospect) Draft {
	return Draft{
		Company:        p.Company,
		Contact:        p.Contact,
		Phone:          p.Phone,
		Email:          p.Email,
		Status:         p.Status,
		Temperature:    p.Temperature,
		Source:         p.Source,
		NextFollowUp:   p.NextFollowUp,
		EstimatedValue: p.EstimatedValue,
		Notes:          p.Clone().Notes,
	}
}
