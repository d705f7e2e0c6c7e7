// Package models - Application domain: one admission application per
// candidate, keyed by userId.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Application is the canonical admission record (applications collection).
// The document key is the candidate's userId, not a generated id, so the
// first-access get-or-create path stays idempotent.
type Application struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	UserID string `json:"userId" bson:"userId"`
	Status Status `json:"status" bson:"status"`

	// FormData maps form field ids to answers (string, []string or scalar).
	// Owned by the candidate while status == draft; read-only afterward.
	FormData map[string]interface{} `json:"formData" bson:"formData"`

	// PersonalInfoSnapshot is recomputed from FormData on every save.
	PersonalInfoSnapshot PersonalInfoSnapshot `json:"personalInfoSnapshot" bson:"personalInfoSnapshot"`

	Timeline Timeline `json:"timeline" bson:"timeline"`

	// AdminData is admin-owned and never visible to the candidate until a
	// decision is released.
	AdminData *AdminData `json:"adminData,omitempty" bson:"adminData,omitempty"`

	LastUpdatedAt int64 `json:"lastUpdatedAt" bson:"lastUpdatedAt"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// PersonalInfoSnapshot is a denormalized projection of FormData kept for
// fast listing and search.
type PersonalInfoSnapshot struct {
	FirstName string `json:"firstName" bson:"firstName"`
	LastName  string `json:"lastName" bson:"lastName"`
	Email     string `json:"email,omitempty" bson:"email,omitempty"`
	School    string `json:"school,omitempty" bson:"school,omitempty"`
	Grade     string `json:"grade,omitempty" bson:"grade,omitempty"`
}

// Timeline holds the lifecycle timestamps (UnixMilli). Each is written once
// and only cleared by an administrative reset.
type Timeline struct {
	RegisteredAt       int64 `json:"registeredAt,omitempty" bson:"registeredAt,omitempty"`
	SubmittedAt        int64 `json:"submittedAt,omitempty" bson:"submittedAt,omitempty"`
	DecisionReleasedAt int64 `json:"decisionReleasedAt,omitempty" bson:"decisionReleasedAt,omitempty"`
	EnrolledAt         int64 `json:"enrolledAt,omitempty" bson:"enrolledAt,omitempty"`
}

// AdminData carries the review-side state of an application.
type AdminData struct {
	InternalDecision FinalDecision `json:"internalDecision,omitempty" bson:"internalDecision,omitempty"`
	Stage            Stage         `json:"stage,omitempty" bson:"stage,omitempty"`
	CampAllocation   string        `json:"campAllocation,omitempty" bson:"campAllocation,omitempty"`
	ReviewScore      float64       `json:"reviewScore,omitempty" bson:"reviewScore,omitempty"`
	Reviews          []ReviewEntry `json:"reviews,omitempty" bson:"reviews,omitempty"`
	Notes            []NoteEntry   `json:"notes,omitempty" bson:"notes,omitempty"`
}

// ReviewEntry is one reviewer's assessment, append-only.
type ReviewEntry struct {
	Author     string   `json:"author" bson:"author"`
	Score      *float64 `json:"score,omitempty" bson:"score,omitempty"`
	Decision   string   `json:"decision" bson:"decision"`
	Comment    string   `json:"comment" bson:"comment"`
	Flagged    bool     `json:"flagged" bson:"flagged"`
	FlagReason string   `json:"flagReason,omitempty" bson:"flagReason,omitempty"`
	Date       int64    `json:"date" bson:"date"`
}

// NoteEntry is a free-form admin note, append-only.
type NoteEntry struct {
	Author  string `json:"author" bson:"author"`
	Content string `json:"content" bson:"content"`
	Date    int64  `json:"date" bson:"date"`
}

// Availability returns the candidate's availability selections from the
// form, tolerating both []string and []interface{} decodings.
func (a *Application) Availability() []string {
	raw, ok := a.FormData["availability"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// SubjectGroup returns the denormalized subject selection from the form.
func (a *Application) SubjectGroup() string {
	if s, ok := a.FormData["subjectGroup"].(string); ok {
		return s
	}
	return ""
}

// Allocation returns the camp allocation, empty when unallocated.
func (a *Application) Allocation() string {
	if a.AdminData == nil {
		return ""
	}
	return a.AdminData.CampAllocation
}

// CurrentStage returns the active review stage, defaulting to first round.
func (a *Application) CurrentStage() Stage {
	if a.AdminData == nil || a.AdminData.Stage == "" {
		return StageFirstRound
	}
	return a.AdminData.Stage
}
