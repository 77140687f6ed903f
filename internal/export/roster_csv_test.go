package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"coursehub/internal/domain"
)

func rosterFixture() ([]domain.Course, []domain.User, []domain.Enrollment) {
	courses := []domain.Course{
		{ID: "abc", Title: "Dynamic Programming"},
		{ID: "xyz", Title: "Graphs\nand Trees"},
	}
	users := []domain.User{
		{ID: "5", Name: "ana", Email: "ana@example.com"},
		{ID: "6", Name: "Bruno", Email: " bruno@example.com "},
	}
	enrollments := []domain.Enrollment{
		domain.NewEnrollment("xyz", "5"),
		domain.NewEnrollment("abc", "6"),
		domain.NewEnrollment("abc", "5"),
		domain.NewEnrollment("abc", "99"),
	}
	return courses, users, enrollments
}

func TestBuildRoster(t *testing.T) {
	rows := BuildRoster(rosterFixture())

	var ids []string
	for _, r := range rows {
		ids = append(ids, r.EnrollmentID)
	}
	// unknown user 99 sorts first inside its course (blank name)
	want := []string{"abc-99", "abc-5", "abc-6", "xyz-5"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("order = %v, want %v", ids, want)
	}
	if rows[0].UserName != "" || rows[0].CourseTitle != "Dynamic Programming" {
		t.Errorf("unexpected row for unknown user: %+v", rows[0])
	}
}

func TestWriteRosterCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRosterCSV(&buf, BuildRoster(rosterFixture())); err != nil {
		t.Fatalf("WriteRosterCSV: %v", err)
	}

	if !strings.Contains(buf.String(), "\r\n") {
		t.Error("Expected CRLF line endings")
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("Expected header + 4 rows, got %d", len(records))
	}
	if !reflect.DeepEqual(records[0], rosterHeader) {
		t.Errorf("header = %v", records[0])
	}
	wantLast := []string{"xyz-5", "xyz", "Graphs and Trees", "5", "ana", "ana@example.com"}
	if !reflect.DeepEqual(records[4], wantLast) {
		t.Errorf("last row = %v, want %v", records[4], wantLast)
	}
	if records[3][5] != "bruno@example.com" {
		t.Errorf("Expected trimmed email, got %q", records[3][5])
	}
}

func TestWriteRosterCSVFile(t *testing.T) {
	tempDir := t.TempDir()
	outPath := filepath.Join(tempDir, "roster.csv")

	if err := WriteRosterCSVFile(outPath, nil); err != nil {
		t.Fatalf("WriteRosterCSVFile: %v", err)
	}
	b, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != strings.Join(rosterHeader, ",")+"\r\n" {
		t.Errorf("unexpected content: %q", b)
	}
}

func TestWriteRosterCSVFileBadPath(t *testing.T) {
	err := WriteRosterCSVFile(filepath.Join(t.TempDir(), "missing", "roster.csv"), nil)
	if err == nil {
		t.Error("Expected error for missing directory")
	}
}
