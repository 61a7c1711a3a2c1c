// Package types provides type definitions for structured data used throughout the resume screener.
package types

import (
	"encoding/json"
	"sort"
)

// SkillSet is an immutable set of skill phrases (or, for the statistical
// strategy, raw tokens). The zero value is an empty set.
type SkillSet struct {
	items map[string]struct{}
}

// NewSkillSet builds a set from the given items. Duplicates collapse.
func NewSkillSet(items ...string) SkillSet {
	m := make(map[string]struct{}, len(items))
	for _, item := range items {
		m[item] = struct{}{}
	}
	return SkillSet{items: m}
}

// Has reports whether item is in the set.
func (s SkillSet) Has(item string) bool {
	_, ok := s.items[item]
	return ok
}

// Len returns the number of items in the set.
func (s SkillSet) Len() int {
	return len(s.items)
}

// IsEmpty reports whether the set has no items.
func (s SkillSet) IsEmpty() bool {
	return len(s.items) == 0
}

// Sorted returns the items in lexicographic order.
func (s SkillSet) Sorted() []string {
	out := make([]string, 0, len(s.items))
	for item := range s.items {
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}

// Intersect returns the items present in both s and other.
func (s SkillSet) Intersect(other SkillSet) SkillSet {
	m := make(map[string]struct{})
	for item := range s.items {
		if other.Has(item) {
			m[item] = struct{}{}
		}
	}
	return SkillSet{items: m}
}

// Difference returns the items of s that are not in other.
func (s SkillSet) Difference(other SkillSet) SkillSet {
	m := make(map[string]struct{})
	for item := range s.items {
		if !other.Has(item) {
			m[item] = struct{}{}
		}
	}
	return SkillSet{items: m}
}

// Union returns the items present in either set.
func (s SkillSet) Union(other SkillSet) SkillSet {
	m := make(map[string]struct{}, len(s.items)+len(other.items))
	for item := range s.items {
		m[item] = struct{}{}
	}
	for item := range other.items {
		m[item] = struct{}{}
	}
	return SkillSet{items: m}
}

// Equal reports whether both sets hold exactly the same items.
func (s SkillSet) Equal(other SkillSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for item := range s.items {
		if !other.Has(item) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the set as a sorted array.
func (s SkillSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes a JSON array into the set.
func (s *SkillSet) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*s = NewSkillSet(items...)
	return nil
}
