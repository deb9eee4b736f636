package domain

import "strings"

// splitAreaNames splits "Danmark. Kattegat. Anholt" into its non-empty names,
// outermost first.
func splitAreaNames(phrase string) []string {
	var names []string
	for _, part := range strings.Split(phrase, ".") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// BuildAreaChain builds the parent chain for a dot-separated area phrase and
// returns the deepest node. An empty phrase yields nil.
func BuildAreaChain(phrase string) *Area {
	var area *Area
	for _, name := range splitAreaNames(phrase) {
		area = &Area{Name: name, Parent: area}
	}
	return area
}

// ApplyEnglish assigns English names to an existing chain by depth, walking
// from the deepest node up while consuming names right to left. Names on
// either side left over once the other side runs out are ignored; the
// return value reports whether that happened.
func (a *Area) ApplyEnglish(phrase string) (mismatch bool) {
	names := splitAreaNames(phrase)
	i := len(names) - 1
	node := a
	for ; node != nil && i >= 0; node, i = node.Parent, i-1 {
		node.EnglishName = names[i]
	}
	return node != nil || i >= 0
}

// Depth is the number of nodes from a up to the root.
func (a *Area) Depth() int {
	n := 0
	for node := a; node != nil; node = node.Parent {
		n++
	}
	return n
}

// Path returns the local names from the root down to a.
func (a *Area) Path() []string {
	names := make([]string, a.Depth())
	i := len(names) - 1
	for node := a; node != nil; node = node.Parent {
		names[i] = node.Name
		i--
	}
	return names
}
