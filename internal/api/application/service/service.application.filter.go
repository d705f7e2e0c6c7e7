package services

import (
	"strings"

	"github.com/JennyYuanZW/JianshanPortal/internal/api/application/models"
)

// Sentinel values that bypass individual filters.
const (
	FilterAllSubjects       = "All Subjects"
	FilterAllAvailabilities = "All Availabilities"
	FilterAllAllocations    = "All Allocations"
	FilterAllStatuses       = "All Statuses"
	FilterUnallocated       = "Unallocated"
)

// Status buckets offered by the roster view.
const (
	StatusBucketPending  = "Pending"
	StatusBucketAccepted = "Accepted"
	StatusBucketRejected = "Rejected"
)

// statusBuckets maps a coarse UI bucket to the underlying status values.
var statusBuckets = map[string][]string{
	StatusBucketPending:  {string(models.StatusSubmitted), string(models.StatusUnderReview)},
	StatusBucketAccepted: {string(models.StatusDecisionReleased), string(models.StatusEnrolled), "accepted"},
	StatusBucketRejected: {string(models.StatusRejected)},
}

// FilterState holds the roster filter selections. Zero-valued or sentinel
// fields match everything.
type FilterState struct {
	Search       string `json:"search" query:"search"`
	Subject      string `json:"subject" query:"subject"`
	Availability string `json:"availability" query:"availability"`
	Allocation   string `json:"allocation" query:"allocation"`
	Status       string `json:"status" query:"status"`
}

// Apply filters the collection as a conjunction of the independent
// predicates. Pure: the input slice is never modified, and the result is
// fully recomputed on every call.
func (f FilterState) Apply(apps []models.Application) []models.Application {
	result := make([]models.Application, 0, len(apps))
	for _, app := range apps {
		if f.matches(&app) {
			result = append(result, app)
		}
	}
	return result
}

func (f FilterState) matches(app *models.Application) bool {
	return f.matchesSearch(app) &&
		f.matchesSubject(app) &&
		f.matchesAvailability(app) &&
		f.matchesAllocation(app) &&
		f.matchesStatus(app)
}

// matchesSearch is a case-insensitive substring match over first name,
// last name, userId and school.
func (f FilterState) matchesSearch(app *models.Application) bool {
	query := strings.ToLower(strings.TrimSpace(f.Search))
	if query == "" {
		return true
	}
	snapshot := app.PersonalInfoSnapshot
	return strings.Contains(strings.ToLower(snapshot.FirstName), query) ||
		strings.Contains(strings.ToLower(snapshot.LastName), query) ||
		strings.Contains(strings.ToLower(app.UserID), query) ||
		strings.Contains(strings.ToLower(snapshot.School), query)
}

func (f FilterState) matchesSubject(app *models.Application) bool {
	if f.Subject == "" || f.Subject == FilterAllSubjects {
		return true
	}
	return app.SubjectGroup() == f.Subject
}

// matchesAvailability is a membership test against the array-valued
// availability form field.
func (f FilterState) matchesAvailability(app *models.Application) bool {
	if f.Availability == "" || f.Availability == FilterAllAvailabilities {
		return true
	}
	for _, a := range app.Availability() {
		if a == f.Availability {
			return true
		}
	}
	return false
}

// matchesAllocation matches the camp allocation exactly; the Unallocated
// sentinel matches records without one.
func (f FilterState) matchesAllocation(app *models.Application) bool {
	if f.Allocation == "" || f.Allocation == FilterAllAllocations {
		return true
	}
	if f.Allocation == FilterUnallocated {
		return app.Allocation() == ""
	}
	return app.Allocation() == f.Allocation
}

func (f FilterState) matchesStatus(app *models.Application) bool {
	if f.Status == "" || f.Status == FilterAllStatuses {
		return true
	}
	bucket, ok := statusBuckets[f.Status]
	if !ok {
		// Unknown bucket matches nothing rather than everything.
		return false
	}
	for _, status := range bucket {
		if string(app.Status) == status {
			return true
		}
	}
	return false
}
