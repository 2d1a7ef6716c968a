package roster

import "sort"

// Roster is the immutable group → children mapping loaded from the last
// uploaded spreadsheet.
type Roster struct {
	groups map[string][]string
}

func New(groups map[string][]string) *Roster {
	copied := make(map[string][]string, len(groups))
	for group, children := range groups {
		sortedChildren := make([]string, len(children))
		copy(sortedChildren, children)
		sort.Strings(sortedChildren)
		copied[group] = sortedChildren
	}
	return &Roster{groups: copied}
}

func Empty() *Roster {
	return &Roster{groups: map[string][]string{}}
}

func (r *Roster) Groups() []string {
	groups := make([]string, 0, len(r.groups))
	for group := range r.groups {
		groups = append(groups, group)
	}
	sort.Strings(groups)
	return groups
}

func (r *Roster) Children(group string) []string {
	return r.groups[group]
}

func (r *Roster) HasGroup(group string) bool {
	_, ok := r.groups[group]
	return ok
}

func (r *Roster) HasChild(group string, child string) bool {
	for _, name := range r.groups[group] {
		if name == child {
			return true
		}
	}
	return false
}

func (r *Roster) GroupCount() int {
	return len(r.groups)
}

func (r *Roster) IsEmpty() bool {
	return len(r.groups) == 0
}
