// Package models - Application form configuration. Field ids here are the
// keys used inside Application.FormData.
package models

// FormField describes one form question.
type FormField struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// SelectionField is a multiple-choice question.
type SelectionField struct {
	ID      string   `json:"id"`
	Label   string   `json:"label"`
	Options []string `json:"options"`
}

// EssayFields are the open-ended questions. All of them are required at
// submission time.
var EssayFields = []FormField{
	{ID: "email", Label: "Email"},
	{ID: "fullName", Label: "Full Name"},
	{ID: "phoneNumber", Label: "Phone Number"},
	{ID: "nationality", Label: "Nationality"},
	{ID: "gender", Label: "Gender"},
	{ID: "dob", Label: "Date of Birth"},
	{ID: "fieldOfStudy", Label: "Field of Study"},
	{ID: "sessionOneTitle", Label: "Title of Session One"},
	{ID: "sessionOneOutline", Label: "Brief Outline of Session One"},
	{ID: "sessionTwoTitle", Label: "Title of Session Two"},
	{ID: "sessionTwoOutline", Label: "Brief Outline of Session Two"},
	{ID: "interest", Label: "Why are you interested in this program?"},
	{ID: "aboutMe", Label: "About Yourself"},
	{ID: "tutoringExp", Label: "Tutoring Experience"},
	{ID: "dietary", Label: "Dietary Requirements"},
	{ID: "additionalComments", Label: "Additional Comments"},
}

// SelectionFields are the multiple-choice questions.
var SelectionFields = []SelectionField{
	{
		ID:    "yearOfStudy",
		Label: "Year of Study",
		Options: []string{
			"Grade 9", "Grade 10", "Grade 11", "Grade 12",
			"University Year 1", "University Year 2", "University Year 3", "University Year 4",
			"Masters", "PhD", "Other",
		},
	},
	{
		ID:    "subjectGroup",
		Label: "Subject Interest",
		Options: []string{
			"Computer Science", "Mathematics", "Physics",
			"Biology", "Chemistry", "Economics",
			"History", "Philosophy", "Literature", "Art",
		},
	},
}

// ProgramPreferenceRows are the camp sessions a candidate ranks.
var ProgramPreferenceRows = []FormField{
	{ID: "hangzhou", Label: "Aug 6-10: Hangzhou"},
	{ID: "shanghai", Label: "Aug 13-17: Shanghai"},
}

// ProgramPreferenceOptions are the ranking choices for each session.
var ProgramPreferenceOptions = []string{
	"First Preference", "Second Preference", "Unavailable/Uninterested",
}

// UploadFields are the document attachments collected as pasted links.
var UploadFields = []FormField{
	{ID: "cv", Label: "CV / Resume"},
}

// MissingRequiredFields returns the labels of required fields that are
// empty or absent in formData, in form order.
func MissingRequiredFields(formData map[string]interface{}) []string {
	var missing []string
	for _, field := range EssayFields {
		value, ok := formData[field.ID]
		if !ok {
			missing = append(missing, field.Label)
			continue
		}
		if s, isStr := value.(string); isStr && s == "" {
			missing = append(missing, field.Label)
		}
	}
	return missing
}
