package entities

import "github.com/bysinka671-afk/notification-bot/internal/domain/notifier/consts"

// DepartmentSet is an unordered set of directory departments
type DepartmentSet map[string]struct{}

// NewDepartmentSet creates a set holding the given departments
func NewDepartmentSet(departments ...string) DepartmentSet {
	s := make(DepartmentSet, len(departments))
	for _, d := range departments {
		s[d] = struct{}{}
	}
	return s
}

// Has reports whether d is selected
func (s DepartmentSet) Has(d string) bool {
	_, ok := s[d]
	return ok
}

// Toggle adds d when absent and removes it otherwise.
// It returns true when d ends up selected.
func (s DepartmentSet) Toggle(d string) bool {
	if s.Has(d) {
		delete(s, d)
		return false
	}
	s[d] = struct{}{}
	return true
}

// AllSelected reports whether every directory department is selected
func (s DepartmentSet) AllSelected() bool {
	for _, d := range consts.Departments {
		if !s.Has(d) {
			return false
		}
	}
	return true
}

// ToggleAll clears the set when everything is selected and selects the
// whole directory otherwise. It returns true when the set ends up full.
func (s DepartmentSet) ToggleAll() bool {
	if s.AllSelected() {
		s.Clear()
		return false
	}
	for _, d := range consts.Departments {
		s[d] = struct{}{}
	}
	return true
}

// Clear removes every department
func (s DepartmentSet) Clear() {
	for d := range s {
		delete(s, d)
	}
}

// Len returns the number of selected departments
func (s DepartmentSet) Len() int {
	return len(s)
}

// Ordered returns the selection in directory order
func (s DepartmentSet) Ordered() []string {
	out := make([]string, 0, len(s))
	for _, d := range consts.Departments {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

// Clone returns an independent copy
func (s DepartmentSet) Clone() DepartmentSet {
	c := make(DepartmentSet, len(s))
	for d := range s {
		c[d] = struct{}{}
	}
	return c
}
