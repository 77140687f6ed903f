package domain

// Course is the canonical representation of a course inside this service.
// ID is always the CMS documentId, never the numeric row key, so links and
// edits address the same identifier space everywhere.
type Course struct {
	ID          string
	Title       string
	Description string
	Modules     []Module
}

// Module is one unit of a course.
type Module struct {
	ID          string
	Name        string
	Description string // first paragraph of the CMS rich-text Details field
	ClassCount  int
	Topics      []string // never nil
}

// FindModule returns the index of the module with the given id, or -1.
func (c Course) FindModule(id string) int {
	for i, m := range c.Modules {
		if m.ID == id {
			return i
		}
	}
	return -1
}
