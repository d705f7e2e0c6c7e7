package services

import (
	"strings"

	"github.com/JennyYuanZW/JianshanPortal/internal/api/application/models"
)

// ExportHeaders are the CSV columns of the roster export, in order.
var ExportHeaders = []string{
	"ID", "Name", "Email", "School", "Grade",
	"Subject", "Availability", "Allocation", "Status",
}

// ExportCSV renders the applications as CSV. Rows are comma-joined and
// values are not escaped for embedded commas or quotes; availability
// entries are joined with "; ".
func ExportCSV(apps []models.Application) string {
	var b strings.Builder
	b.WriteString(strings.Join(ExportHeaders, ","))
	b.WriteString("\n")

	for _, app := range apps {
		snapshot := app.PersonalInfoSnapshot
		name := strings.TrimSpace(snapshot.FirstName + " " + snapshot.LastName)
		row := []string{
			app.UserID,
			name,
			snapshot.Email,
			snapshot.School,
			snapshot.Grade,
			app.SubjectGroup(),
			strings.Join(app.Availability(), "; "),
			app.Allocation(),
			string(app.Status),
		}
		b.WriteString(strings.Join(row, ","))
		b.WriteString("\n")
	}
	return b.String()
}
