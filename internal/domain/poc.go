package domain

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Poc is a point of contact: a secondary person reachable on behalf of a client
type Poc struct {
	Name  Name
	Phone Phone
	Email Email
	Tags  []Tag
}

// NewPoc creates a poc; name is required
func NewPoc(name Name, phone Phone, email Email, tags []Tag) (Poc, error) {
	if name == "" {
		return Poc{}, fmt.Errorf("%w: poc name", ErrMissingField)
	}
	return Poc{Name: name, Phone: phone, Email: email, Tags: slices.Clone(tags)}, nil
}

func (p Poc) clone() Poc {
	p.Tags = slices.Clone(p.Tags)
	return p
}

// SamePoc reports whether two pocs refer to the same person (same name)
func (p Poc) SamePoc(other Poc) bool {
	return p.Name == other.Name
}

func (p Poc) String() string {
	var b strings.Builder
	b.WriteString(p.Name.String())
	if p.Phone != "" {
		b.WriteString("; Phone: " + p.Phone.String())
	}
	if p.Email != "" {
		b.WriteString("; Email: " + p.Email.String())
	}
	if len(p.Tags) > 0 {
		b.WriteString("; Tags: ")
		for _, t := range p.Tags {
			b.WriteString(t.String())
		}
	}
	return b.String()
}

// UniquePocList keeps pocs in insertion order and rejects a second poc
// with the same name.
type UniquePocList struct {
	pocs []Poc
}

// NewUniquePocList builds a list from pocs, failing on the first duplicate
func NewUniquePocList(pocs ...Poc) (*UniquePocList, error) {
	l := &UniquePocList{}
	for _, p := range pocs {
		if err := l.Add(p); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (l *UniquePocList) Contains(p Poc) bool {
	return slices.ContainsFunc(l.pocs, p.SamePoc)
}

// Add appends p. A blank name is ErrMissingField and a name already in the
// list is ErrDuplicatePoc.
func (l *UniquePocList) Add(p Poc) error {
	if strings.TrimSpace(string(p.Name)) == "" {
		return fmt.Errorf("%w: poc name", ErrMissingField)
	}
	if l.Contains(p) {
		return fmt.Errorf("%w: %s", ErrDuplicatePoc, p.Name)
	}
	l.pocs = append(l.pocs, p.clone())
	return nil
}

func (l *UniquePocList) Len() int { return len(l.pocs) }

// All iterates over copies of the pocs in insertion order
func (l *UniquePocList) All() iter.Seq[Poc] {
	return func(yield func(Poc) bool) {
		for _, p := range l.pocs {
			if !yield(p.clone()) {
				return
			}
		}
	}
}

// View returns a read-only view that tracks later additions
func (l *UniquePocList) View() PocView {
	return PocView{list: l}
}

// PocView is a live, read-only window onto a UniquePocList
type PocView struct {
	list *UniquePocList
}

func (v PocView) Len() int {
	if v.list == nil {
		return 0
	}
	return v.list.Len()
}

// At returns the poc at index i (0-based); it panics if i is out of range
func (v PocView) At(i int) Poc {
	return v.list.pocs[i].clone()
}

func (v PocView) All() iter.Seq[Poc] {
	if v.list == nil {
		return func(func(Poc) bool) {}
	}
	return v.list.All()
}

// Names returns the poc names in order
func (v PocView) Names() []string {
	names := make([]string, 0, v.Len())
	for p := range v.All() {
		names = append(names, p.Name.String())
	}
	return names
}
