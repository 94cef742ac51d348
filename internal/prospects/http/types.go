package http

import (
	"github.com/Valentin39220/bini-crm/internal/prospects/domain"
	"github.com/Valentin39220/bini-crm/internal/prospects/service"
)

// Handler bundles the dependencies for the prospect endpoints.
type Handler struct {
	svc *service.ProspectService
}

func New(svc *service.ProspectService) *Handler {
	return &Handler{svc: svc}
}

type noteReq struct {
	Date string `json:"date"`
	Text string `json:"text"`
}

// prospectReq is the body of create and update. The update path takes the
// full object: fields left out are cleared, except notes (kept when absent)
// and status/temperature (kept when empty).
type prospectReq struct {
	Company        string    `json:"company" binding:"required"`
	Contact        string    `json:"contact" binding:"required"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	Status         string    `json:"status"`
	Temperature    string    `json:"temperature"`
	Source         string    `json:"source"`
	NextFollowUp   string    `json:"nextFollowUp"`
	EstimatedValue *float64  `json:"estimatedValue"`
	Notes          []noteReq `json:"notes"`
}

type statusReq struct {
	Status string `json:"status" binding:"required"`
}

type addNoteReq struct {
	Text string `json:"text"`
}

type selectReq struct {
	ID string `json:"id" binding:"required"`
}

// prospectView adds the resolved taxonomy entries and urgency flags the
// presentation layer needs to draw a card.
type prospectView struct {
	domain.Prospect
	StatusInfo      domain.StatusDescriptor      `json:"statusInfo"`
	TemperatureInfo domain.TemperatureDescriptor `json:"temperatureInfo"`
	Urgency         domain.Urgency               `json:"urgency"`
	Urgent          bool                         `json:"urgent"`
	DueToday        bool                         `json:"dueToday"`
}

func viewOf(p domain.Prospect, today domain.Date) prospectView {
	return prospectView{
		Prospect:        p,
		StatusInfo:      p.StatusInfo(),
		TemperatureInfo: p.TemperatureInfo(),
		Urgency:         domain.Classify(p.NextFollowUp, today),
		Urgent:          domain.IsUrgent(p, today),
		DueToday:        domain.IsDueToday(p.NextFollowUp, today),
	}
}

func viewsOf(prospects []domain.Prospect, today domain.Date) []prospectView {
	out := make([]prospectView, len(prospects))
	for i, p := range prospects {
		out[i] = viewOf(p, today)
	}
	return out
}
