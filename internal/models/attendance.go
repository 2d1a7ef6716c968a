package models

import "sort"

// ChildSet holds the names of the children marked present for one group
// on one day.
type ChildSet map[string]struct{}

func NewChildSet(names ...string) ChildSet {
	set := make(ChildSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

func (s ChildSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

func (s ChildSet) Add(name string) {
	s[name] = struct{}{}
}

func (s ChildSet) Remove(name string) {
	delete(s, name)
}

func (s ChildSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AttendanceData maps an ISO day key (YYYY-MM-DD) to the per-group sets of
// present children.
type AttendanceData map[string]map[string]ChildSet

func (d AttendanceData) Present(day string, group string) ChildSet {
	if groups, ok := d[day]; ok {
		if set, ok := groups[group]; ok {
			return set
		}
	}
	return nil
}

func (d AttendanceData) Mark(day string, group string, child string) {
	groups, ok := d[day]
	if !ok {
		groups = make(map[string]ChildSet)
		d[day] = groups
	}
	set, ok := groups[group]
	if !ok {
		set = make(ChildSet)
		groups[group] = set
	}
	set.Add(child)
}

func (d AttendanceData) Unmark(day string, group string, child string) {
	if groups, ok := d[day]; ok {
		if set, ok := groups[group]; ok {
			set.Remove(child)
		}
	}
}

// HasMarks reports whether any child is marked present on the given day.
func (d AttendanceData) HasMarks(day string) bool {
	for _, set := range d[day] {
		if len(set) > 0 {
			return true
		}
	}
	return false
}

func (d AttendanceData) Empty() bool {
	for day := range d {
		if d.HasMarks(day) {
			return false
		}
	}
	return true
}

func (d AttendanceData) Clone() AttendanceData {
	clone := make(AttendanceData, len(d))
	for day, groups := range d {
		clonedGroups := make(map[string]ChildSet, len(groups))
		for group, set := range groups {
			clonedSet := make(ChildSet, len(set))
			for child := range set {
				clonedSet[child] = struct{}{}
			}
			clonedGroups[group] = clonedSet
		}
		clone[day] = clonedGroups
	}
	return clone
}

// AttendanceRecordModel is the SQL row shape of a single presence mark.
type AttendanceRecordModel struct {
	Id        int64  `db:"id"`
	Day       string `db:"day"`
	GroupName string `db:"group_name"`
	ChildName string `db:"child_name"`
}
