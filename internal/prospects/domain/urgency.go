package domain

import "time"

// Urgency is the follow-up state of a prospect relative to today.
type Urgency string

const (
	UrgencyOverdue     Urgency = "overdue"
	UrgencyDueToday    Urgency = "due_today"
	UrgencyUpcoming    Urgency = "upcoming"
	UrgencyUnscheduled Urgency = "unscheduled"
)

// Today returns the calendar day of now in now's location.
func Today(now time.Time) Date {
	return DateOf(now)
}

// IsOverdue reports whether a follow-up date has been reached. A date equal
// to today counts as overdue.
func IsOverdue(d, today Date) bool {
	if !d.IsSet() {
		return false
	}
	return !d.After(today)
}

// IsDueToday reports whether the follow-up falls on today.
func IsDueToday(d, today Date) bool {
	if !d.IsSet() {
		return false
	}
	return d.Equal(today)
}

// Classify puts a follow-up date in exactly one urgency class. Unlike
// IsOverdue, a date equal to today is reported as UrgencyDueToday here.
func Classify(d, today Date) Urgency {
	switch {
	case !d.IsSet():
		return UrgencyUnscheduled
	case d.Equal(today):
		return UrgencyDueToday
	case d.Before(today):
		return UrgencyOverdue
	default:
		return UrgencyUpcoming
	}
}

// IsUrgent reports whether the prospect has a pending follow-up. Closed deals
// are never urgent.
func IsUrgent(p Prospect, today Date) bool {
	return IsOverdue(p.NextFollowUp, today) && !p.Status.IsClosed()
}
