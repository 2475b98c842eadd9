package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Competency is a single label from the closed competency taxonomy.
type Competency string

// Category groups four competencies.
type Category string

// Competency categories.
const (
	CategoryAction        Category = "Action"
	CategoryRelationships Category = "Relationships"
	CategoryDiscipline    Category = "Discipline"
	CategoryPurpose       Category = "Purpose"
)

// LabelsPerCategory is the number of competencies in every category.
const LabelsPerCategory = 4

// MaxTagsPerChunk caps how many validated competencies a chunk can carry.
const MaxTagsPerChunk = 5

// Taxonomy is an immutable, closed set of competencies grouped by category.
// The zero value is empty; use DefaultTaxonomy or NewTaxonomy.
type Taxonomy struct {
	categories []Category
	labels     map[Category][]Competency
	index      map[Competency]Category
}

// DefaultTaxonomy returns the 16-label behavioural competency taxonomy.
func DefaultTaxonomy() Taxonomy {
	t, err := NewTaxonomy([]Category{
		CategoryAction, CategoryRelationships, CategoryDiscipline, CategoryPurpose,
	}, map[Category][]Competency{
		CategoryAction:        {"Results", "Execution", "Fearless Presenter", "Seize Opportunities"},
		CategoryRelationships: {"Connection", "Leadership", "Collaboration", "Awareness"},
		CategoryDiscipline:    {"Planning", "Constructive Thinking", "Organize", "Control"},
		CategoryPurpose:       {"Authenticity", "CEO Perspective", "Vision", "Growth Mindset"},
	})
	if err != nil {
		panic(err) // static data
	}
	return t
}

// NewTaxonomy builds a taxonomy from ordered categories and their labels.
// Every category must hold exactly LabelsPerCategory labels and no label
// may appear twice.
func NewTaxonomy(order []Category, labels map[Category][]Competency) (Taxonomy, error) {
	if len(order) == 0 {
		return Taxonomy{}, fmt.Errorf("%w: taxonomy has no categories", ErrInvalidInput)
	}

	t := Taxonomy{
		categories: make([]Category, 0, len(order)),
		labels:     make(map[Category][]Competency, len(order)),
		index:      make(map[Competency]Category),
	}

	for _, cat := range order {
		if _, dup := t.labels[cat]; dup {
			return Taxonomy{}, fmt.Errorf("%w: duplicate category %q", ErrInvalidInput, cat)
		}
		list := labels[cat]
		if len(list) != LabelsPerCategory {
			return Taxonomy{}, fmt.Errorf("%w: category %q has %d labels, want %d",
				ErrInvalidInput, cat, len(list), LabelsPerCategory)
		}
		copied := make([]Competency, len(list))
		for i, c := range list {
			if c == "" {
				return Taxonomy{}, fmt.Errorf("%w: empty label in %q", ErrInvalidInput, cat)
			}
			if other, dup := t.index[c]; dup {
				return Taxonomy{}, fmt.Errorf("%w: label %q in both %q and %q", ErrInvalidInput, c, other, cat)
			}
			t.index[c] = cat
			copied[i] = c
		}
		t.categories = append(t.categories, cat)
		t.labels[cat] = copied
	}

	if len(labels) != len(order) {
		return Taxonomy{}, fmt.Errorf("%w: labels given for unlisted categories", ErrInvalidInput)
	}

	return t, nil
}

// Categories returns the categories in declaration order.
func (t Taxonomy) Categories() []Category {
	return append([]Category(nil), t.categories...)
}

// Labels returns the competencies of a category.
func (t Taxonomy) Labels(cat Category) []Competency {
	return append([]Competency(nil), t.labels[cat]...)
}

// All returns every competency, category by category.
func (t Taxonomy) All() []Competency {
	all := make([]Competency, 0, len(t.index))
	for _, cat := range t.categories {
		all = append(all, t.labels[cat]...)
	}
	return all
}

// Len returns the number of competencies.
func (t Taxonomy) Len() int {
	return len(t.index)
}

// Contains reports exact, case-sensitive membership.
func (t Taxonomy) Contains(label string) bool {
	_, ok := t.index[Competency(label)]
	return ok
}

// CategoryOf returns the category a competency belongs to.
func (t Taxonomy) CategoryOf(c Competency) (Category, bool) {
	cat, ok := t.index[c]
	return cat, ok
}

// Validate keeps the labels that are members of the taxonomy, in the
// order given, without duplicates, capped at limit entries.
// Unknown labels are dropped silently.
func (t Taxonomy) Validate(labels []string, limit int) []Competency {
	if limit <= 0 || limit > MaxTagsPerChunk {
		limit = MaxTagsPerChunk
	}

	out := make([]Competency, 0, limit)
	seen := make(map[Competency]bool, limit)
	for _, label := range labels {
		c := Competency(label)
		if _, ok := t.index[c]; !ok || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Filter builds a retrieval filter from competency labels or category
// names. A category name selects all four of its competencies. Unknown
// names are dropped, so the result may be empty.
func (t Taxonomy) Filter(names []string) Filter {
	var tags []Competency
	seen := make(map[Competency]bool)
	add := func(c Competency) {
		if !seen[c] {
			seen[c] = true
			tags = append(tags, c)
		}
	}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if _, ok := t.index[Competency(name)]; ok {
			add(Competency(name))
			continue
		}
		for _, c := range t.labels[Category(name)] {
			add(c)
		}
	}
	return Filter{Tags: tags}
}

// Group buckets competencies by category. Categories with no
// competencies are omitted and each bucket is sorted for stable output.
func (t Taxonomy) Group(tags []Competency) map[Category][]Competency {
	grouped := make(map[Category][]Competency)
	seen := make(map[Competency]bool)
	for _, c := range tags {
		cat, ok := t.index[c]
		if !ok || seen[c] {
			continue
		}
		seen[c] = true
		grouped[cat] = append(grouped[cat], c)
	}
	for cat := range grouped {
		sort.Slice(grouped[cat], func(i, j int) bool { return grouped[cat][i] < grouped[cat][j] })
	}
	return grouped
}

// Strings converts competencies to plain strings.
func Strings(tags []Competency) []string {
	out := make([]string, len(tags))
	for i, c := range tags {
		out[i] = string(c)
	}
	return out
}

// Competencies converts plain strings to competencies without validation.
func Competencies(labels []string) []Competency {
	out := make([]Competency, len(labels))
	for i, l := range labels {
		out[i] = Competency(l)
	}
	return out
}
