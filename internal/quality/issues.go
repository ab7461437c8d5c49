package quality

import (
	"encoding/json"
	"sort"
)

// IssueSet records, per category, the field or table names that showed the
// issue. Field categories hold bare field names.
type IssueSet struct {
	sets [categoryCount]map[string]struct{}
}

func NewIssueSet() *IssueSet {
	s := &IssueSet{}
	for i := range s.sets {
		s.sets[i] = map[string]struct{}{}
	}
	return s
}

func (s *IssueSet) Add(c Category, name string) {
	s.sets[c][name] = struct{}{}
}

func (s *IssueSet) Has(c Category, name string) bool {
	_, ok := s.sets[c][name]
	return ok
}

func (s *IssueSet) Len(c Category) int {
	return len(s.sets[c])
}

// Names returns the members of a category in sorted order.
func (s *IssueSet) Names(c Category) []string {
	names := make([]string, 0, len(s.sets[c]))
	for name := range s.sets[c] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge unions other into s.
func (s *IssueSet) Merge(other *IssueSet) {
	if other == nil {
		return
	}
	for i, set := range other.sets {
		for name := range set {
			s.sets[i][name] = struct{}{}
		}
	}
}

func (s *IssueSet) Equal(other *IssueSet) bool {
	for i := range s.sets {
		if len(s.sets[i]) != len(other.sets[i]) {
			return false
		}
		for name := range s.sets[i] {
			if _, ok := other.sets[i][name]; !ok {
				return false
			}
		}
	}
	return true
}

func (s *IssueSet) MarshalJSON() ([]byte, error) {
	out := make(map[string][]string, categoryCount)
	for _, c := range Categories() {
		out[c.String()] = s.Names(c)
	}
	return json.Marshal(out)
}
