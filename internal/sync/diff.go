package sync

import (
	"strings"

	"coursehub/internal/domain"
)

// DiffRoster compares the current roster of a course with the desired one.
// Returns:
// - Connect: in desired but not in current (desired order)
// - Disconnect: in current but not in desired (current order)
// Blank and repeated ids are ignored on both sides.
func DiffRoster(courseID string, current, desired []string) RosterDiff {
	cur := idSet(current)
	want := idSet(desired)

	d := RosterDiff{CourseID: courseID}
	for _, id := range uniqueIDs(desired) {
		if !cur[id] {
			d.Connect = append(d.Connect, id)
		}
	}
	for _, id := range uniqueIDs(current) {
		if !want[id] {
			d.Disconnect = append(d.Disconnect, id)
		}
	}
	return d
}

// RosterOf returns the user ids enrolled in courseID, in enrollment order.
func RosterOf(enrollments []domain.Enrollment, courseID string) []string {
	var out []string
	for _, e := range enrollments {
		if e.CourseID == courseID {
			out = append(out, e.UserID)
		}
	}
	return out
}

func idSet(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			m[id] = true
		}
	}
	return m
}

func uniqueIDs(ids []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
