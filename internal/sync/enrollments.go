package sync

import (
	"strings"

	"coursehub/internal/domain"
	"coursehub/internal/mappers"
)

type pair struct{ course, user string }

// DeriveEnrollments flattens course rosters into enrollments. The same
// (course, user) pair seen twice, from either side of the relation, yields a
// single enrollment.
func DeriveEnrollments(rosters ...[]mappers.Roster) []domain.Enrollment {
	var all []domain.Enrollment
	for _, rs := range rosters {
		for _, r := range rs {
			for _, uid := range r.UserIDs {
				all = append(all, domain.NewEnrollment(r.CourseID, uid))
			}
		}
	}
	return DedupeEnrollments(all)
}

// DedupeEnrollments keeps the first enrollment per (CourseID, UserID) and
// drops entries with a blank side.
func DedupeEnrollments(in []domain.Enrollment) []domain.Enrollment {
	seen := make(map[pair]bool, len(in))
	out := make([]domain.Enrollment, 0, len(in))
	for _, e := range in {
		k := pair{strings.TrimSpace(e.CourseID), strings.TrimSpace(e.UserID)}
		if k.course == "" || k.user == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, domain.NewEnrollment(k.course, k.user))
	}
	return out
}

// AddEnrollment records an enrollment unless it is already present.
func AddEnrollment(in []domain.Enrollment, courseID, userID string) []domain.Enrollment {
	return DedupeEnrollments(append(in, domain.NewEnrollment(courseID, userID)))
}

// RemoveEnrollment drops the (courseID, userID) enrollment.
func RemoveEnrollment(in []domain.Enrollment, courseID, userID string) []domain.Enrollment {
	out := make([]domain.Enrollment, 0, len(in))
	for _, e := range in {
		if e.CourseID == courseID && e.UserID == userID {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ApplyDiff returns enrollments with d applied to d.CourseID's roster.
func ApplyDiff(in []domain.Enrollment, d RosterDiff) []domain.Enrollment {
	out := in
	for _, uid := range d.Disconnect {
		out = RemoveEnrollment(out, d.CourseID, uid)
	}
	for _, uid := range d.Connect {
		out = AddEnrollment(out, d.CourseID, uid)
	}
	return out
}

// DropCourse removes every enrollment of courseID.
func DropCourse(in []domain.Enrollment, courseID string) []domain.Enrollment {
	out := make([]domain.Enrollment, 0, len(in))
	for _, e := range in {
		if e.CourseID != courseID {
			out = append(out, e)
		}
	}
	return out
}
