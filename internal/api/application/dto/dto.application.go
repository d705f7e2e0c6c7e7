// Package dto - request and response shapes for the application domain.
package dto

// SaveFormInput carries a full replacement of the candidate's form data.
type SaveFormInput struct {
	FormData map[string]interface{} `json:"formData" validate:"required"`
}

// ReviewInput is an admin's review submission.
type ReviewInput struct {
	Score      *float64 `json:"score,omitempty" validate:"omitempty,gte=0,lte=10"`
	Decision   string   `json:"decision" validate:"required,no_xss"`
	Comment    string   `json:"comment" validate:"no_xss"`
	Flagged    bool     `json:"flagged"`
	FlagReason string   `json:"flagReason,omitempty" validate:"no_xss"`
	Stage      string   `json:"stage,omitempty" validate:"omitempty,oneof=first_round second_round"`
}

// DecisionInput marks the internal decision to be released.
type DecisionInput struct {
	Decision string `json:"decision" validate:"required,oneof=accepted rejected waitlisted"`
}

// AllocationInput assigns or clears a camp allocation. An empty value
// clears it.
type AllocationInput struct {
	Allocation string `json:"allocation" validate:"no_xss"`
}

// NoteInput appends an admin note.
type NoteInput struct {
	Content string `json:"content" validate:"required,no_xss"`
}

// ListQuery holds the roster filter selections plus pagination, bound from
// query parameters.
type ListQuery struct {
	Search       string `query:"search"`
	Subject      string `query:"subject"`
	Availability string `query:"availability"`
	Allocation   string `query:"allocation"`
	Status       string `query:"status"`
	Limit        int64  `query:"limit"`
	Offset       int64  `query:"offset"`
}
