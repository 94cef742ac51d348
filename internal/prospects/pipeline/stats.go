// Package pipeline derives dashboard statistics and views from a snapshot of
// the prospect collection. Every function is pure.
package pipeline

import "github.com/Valentin39220/bini-crm/internal/prospects/domain"

// Stats are the dashboard counters.
type Stats struct {
	Total             int           `json:"total"`
	HotCount          int           `json:"hotCount"`
	UrgentFollowUps   int           `json:"urgentFollowUps"`
	OpenPipelineValue domain.Amount `json:"openPipelineValue"`
	WonCount          int           `json:"wonCount"`
}

// ComputeStats is independent of the order of prospects.
func ComputeStats(prospects []domain.Prospect, today domain.Date) Stats {
	st := Stats{Total: len(prospects)}
	for _, p := range prospects {
		if p.Temperature == domain.TemperatureHot {
			st.HotCount++
		}
		if domain.IsUrgent(p, today) {
			st.UrgentFollowUps++
		}
		if !p.Status.IsClosed() && p.EstimatedValue > 0 {
			st.OpenPipelineValue = st.OpenPipelineValue.Add(p.EstimatedValue)
		}
		if p.Status == domain.StatusWon {
			st.WonCount++
		}
	}
	return st
}

// UrgentSubset keeps the open prospects whose follow-up date has been reached.
func UrgentSubset(prospects []domain.Prospect, today domain.Date) []domain.Prospect {
	return keep(prospects, func(p domain.Prospect) bool {
		return domain.IsUrgent(p, today)
	})
}

// HotOpenSubset keeps the hot prospects that are still in the pipeline.
func HotOpenSubset(prospects []domain.Prospect) []domain.Prospect {
	return keep(prospects, func(p domain.Prospect) bool {
		return p.Temperature == domain.TemperatureHot && !p.Status.IsClosed()
	})
}

// Dashboard bundles the counters and the two call-out lists.
type Dashboard struct {
	Stats   Stats             `json:"stats"`
	Urgent  []domain.Prospect `json:"urgent"`
	HotOpen []domain.Prospect `json:"hotOpen"`
}

func BuildDashboard(prospects []domain.Prospect, today domain.Date) Dashboard {
	return Dashboard{
		Stats:   ComputeStats(prospects, today),
		Urgent:  UrgentSubset(prospects, today),
		HotOpen: HotOpenSubset(prospects),
	}
}

func keep(prospects []domain.Prospect, pred func(domain.Prospect) bool) []domain.Prospect {
	out := make([]domain.Prospect, 0, len(prospects))
	for _, p := range prospects {
		if pred(p) {
			out = append(out, p)
		}
	}
	return out
}
