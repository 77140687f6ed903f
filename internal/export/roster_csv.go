package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"coursehub/internal/domain"
)

// Roster CSV layout. Keep header order EXACT; downstream imports key on it.
var rosterHeader = []string{
	"ENROLLMENT_ID",
	"COURSE_ID",
	"COURSE_TITLE",
	"USER_ID",
	"USER_NAME",
	"USER_EMAIL",
}

// RosterRow is one enrollment with its course and user resolved.
type RosterRow struct {
	EnrollmentID string
	CourseID     string
	CourseTitle  string
	UserID       string
	UserName     string
	UserEmail    string
}

// BuildRoster joins enrollments with their course and user. Enrollments
// whose course or user is unknown keep blank title/name/email. Rows are
// ordered by course title, then user name, then enrollment id.
func BuildRoster(courses []domain.Course, users []domain.User, enrollments []domain.Enrollment) []RosterRow {
	courseByID := make(map[string]domain.Course, len(courses))
	for _, c := range courses {
		courseByID[c.ID] = c
	}
	userByID := make(map[string]domain.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}

	rows := make([]RosterRow, 0, len(enrollments))
	for _, e := range enrollments {
		c := courseByID[e.CourseID]
		u := userByID[e.UserID]
		rows = append(rows, RosterRow{
			EnrollmentID: e.ID,
			CourseID:     e.CourseID,
			CourseTitle:  c.Title,
			UserID:       e.UserID,
			UserName:     u.Name,
			UserEmail:    u.Email,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if ka, kb := strings.ToLower(a.CourseTitle), strings.ToLower(b.CourseTitle); ka != kb {
			return ka < kb
		}
		if ka, kb := strings.ToLower(a.UserName), strings.ToLower(b.UserName); ka != kb {
			return ka < kb
		}
		return a.EnrollmentID < b.EnrollmentID
	})
	return rows
}

// WriteRosterCSV writes rows with the roster header.
func WriteRosterCSV(w io.Writer, rows []RosterRow) error {
	cw := csv.NewWriter(w)
	// match typical templates
	cw.UseCRLF = true

	if err := cw.Write(rosterHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(toRosterRecord(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRosterCSVFile writes the roster to outPath.
func WriteRosterCSVFile(outPath string, rows []RosterRow) error {
	var buf bytes.Buffer
	if err := WriteRosterCSV(&buf, rows); err != nil {
		return fmt.Errorf("export: write csv: %w", err)
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("export: write csv: %w", err)
	}
	return nil
}

func toRosterRecord(r RosterRow) []string {
	return []string{
		r.EnrollmentID,                 // ENROLLMENT_ID
		r.CourseID,                     // COURSE_ID
		oneLine(r.CourseTitle),         // COURSE_TITLE
		r.UserID,                       // USER_ID
		oneLine(r.UserName),            // USER_NAME
		strings.TrimSpace(r.UserEmail), // USER_EMAIL
	}
}

// oneLine avoids newlines inside a cell.
func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
