package domain

// Enrollment pairs a user with a course. It is not stored by the CMS; it is
// read off the Course<->User relation and keyed by EnrollmentID.
type Enrollment struct {
	ID       string
	UserID   string
	CourseID string
}

// EnrollmentID builds the composite key "<courseID>-<userID>".
func EnrollmentID(courseID, userID string) string {
	return courseID + "-" + userID
}

func NewEnrollment(courseID, userID string) Enrollment {
	return Enrollment{
		ID:       EnrollmentID(courseID, userID),
		UserID:   userID,
		CourseID: courseID,
	}
}
