package parser

import (
	"sort"
	"strings"
)

// Prefix marks the start of an argument, e.g. "g/" in "g/apple"
type Prefix string

const (
	PrefixName     Prefix = "n/"
	PrefixAddress  Prefix = "a/"
	PrefixPhone    Prefix = "p/"
	PrefixEmail    Prefix = "e/"
	PrefixTag      Prefix = "t/"
	PrefixGoods    Prefix = "g/"
	PrefixPrice    Prefix = "p/"
	PrefixQuantity Prefix = "q/"
	PrefixDate     Prefix = "d/"
)

// ArgumentMultimap holds the text before the first prefix (the preamble)
// and every value given for each prefix, in input order.
type ArgumentMultimap struct {
	preamble string
	values   map[Prefix][]string
}

// Preamble returns the trimmed text before the first recognised prefix
func (m ArgumentMultimap) Preamble() string {
	return m.preamble
}

// Value returns the last value given for p
func (m ArgumentMultimap) Value(p Prefix) (string, bool) {
	vals := m.values[p]
	if len(vals) == 0 {
		return "", false
	}
	return vals[len(vals)-1], true
}

// AllValues returns every value given for p
func (m ArgumentMultimap) AllValues(p Prefix) []string {
	return append([]string(nil), m.values[p]...)
}

type prefixPosition struct {
	prefix Prefix
	start  int
}

// Tokenize splits args into a preamble and prefixed values. A prefix only
// counts when it starts the string or follows whitespace.
func Tokenize(args string, prefixes ...Prefix) ArgumentMultimap {
	padded := " " + args

	var positions []prefixPosition
	seen := make(map[Prefix]bool, len(prefixes))
	for _, p := range prefixes {
		if seen[p] {
			continue
		}
		seen[p] = true
		positions = append(positions, findPrefixPositions(padded, p)...)
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i].start < positions[j].start })

	m := ArgumentMultimap{values: make(map[Prefix][]string)}
	if len(positions) == 0 {
		m.preamble = strings.TrimSpace(padded)
		return m
	}

	m.preamble = strings.TrimSpace(padded[:positions[0].start])
	for i, pos := range positions {
		end := len(padded)
		if i+1 < len(positions) {
			end = positions[i+1].start
		}
		value := strings.TrimSpace(padded[pos.start+len(pos.prefix) : end])
		m.values[pos.prefix] = append(m.values[pos.prefix], value)
	}
	return m
}

func findPrefixPositions(s string, p Prefix) []prefixPosition {
	var out []prefixPosition
	needle := " " + string(p)
	from := 0
	for {
		idx := strings.Index(s[from:], needle)
		if idx < 0 {
			return out
		}
		// skip the leading space
		start := from + idx + 1
		out = append(out, prefixPosition{prefix: p, start: start})
		from = start
	}
}
