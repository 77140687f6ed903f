package sync

// RosterDiff is the change needed to bring one course's users relation from
// what the CMS has to what the manager asked for.
type RosterDiff struct {
	CourseID   string
	Connect    []string
	Disconnect []string
}

// Empty reports whether the diff changes nothing.
func (d RosterDiff) Empty() bool {
	return len(d.Connect) == 0 && len(d.Disconnect) == 0
}
