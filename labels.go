package xlview

import (
	"fmt"
	"slices"
	"strings"
)

// resolve follows label hops until it reaches a cell or range. It fails on a
// missing mapping or a cycle.
func (c *ViewportCache) resolve(sel Selection) (Selection, bool) {
	if sel == nil {
		return nil, false
	}
	visited := make(map[string]struct{})
	for {
		label, ok := sel.(LabelName)
		if !ok {
			return sel, true
		}
		key := label.key()
		if _, seen := visited[key]; seen {
			return nil, false
		}
		visited[key] = struct{}{}
		m, ok := c.labels[key]
		if !ok {
			return nil, false
		}
		sel = m.Target
	}
}

// chain returns the label keys visited while resolving label, in order,
// starting with label itself. A cycle ends the chain.
func (c *ViewportCache) chain(label LabelName) []string {
	var keys []string
	visited := make(map[string]struct{})
	var sel Selection = label
	for {
		l, ok := sel.(LabelName)
		if !ok {
			return keys
		}
		key := l.key()
		if _, seen := visited[key]; seen {
			return keys
		}
		visited[key] = struct{}{}
		keys = append(keys, key)
		m, ok := c.labels[key]
		if !ok {
			return keys
		}
		sel = m.Target
	}
}

// labelsResolvingTo returns the keys of every label that resolves to exactly
// one of the given cells.
func (c *ViewportCache) labelsResolvingTo(refs []CellRef) map[string]struct{} {
	targets := make(map[CellRef]struct{}, len(refs))
	for _, ref := range refs {
		targets[ref] = struct{}{}
	}
	stale := make(map[string]struct{})
	for key, sel := range c.resolved {
		if ref, isCell := sel.(CellRef); isCell {
			if _, hit := targets[ref]; hit {
				stale[key] = struct{}{}
			}
		}
	}
	return stale
}

// reindexLabels brings the reverse index up to date after the given label
// keys were stored or removed. Only those labels and the labels whose chain
// passed, or now passes, through one of them are re-resolved.
func (c *ViewportCache) reindexLabels(changed map[string]struct{}) {
	if len(changed) == 0 {
		return
	}
	affected := make(map[string]struct{}, len(changed))
	for key := range changed {
		affected[key] = struct{}{}
	}
	for key, keys := range c.chains {
		if passesThrough(keys, changed) {
			affected[key] = struct{}{}
		}
	}
	for key, m := range c.labels {
		if _, ok := affected[key]; ok {
			continue
		}
		if passesThrough(c.chain(m.Label), changed) {
			affected[key] = struct{}{}
		}
	}

	for key := range affected {
		if sel, ok := c.resolved[key]; ok {
			c.unindex(key, sel)
			delete(c.resolved, key)
		}
		delete(c.chains, key)

		m, ok := c.labels[key]
		if !ok {
			continue
		}
		c.chains[key] = c.chain(m.Label)
		if sel, ok := c.resolve(m.Label); ok {
			c.resolved[key] = sel
			c.index(m.Label, sel)
		}
	}
}

func passesThrough(keys []string, set map[string]struct{}) bool {
	for _, key := range keys {
		if _, ok := set[key]; ok {
			return true
		}
	}
	return false
}

// index adds label to the reverse index of every cell sel covers.
func (c *ViewportCache) index(label LabelName, sel Selection) {
	add := func(ref CellRef) {
		set, ok := c.cellToLabels[ref]
		if !ok {
			set = make(map[string]LabelName)
			c.cellToLabels[ref] = set
		}
		set[label.key()] = label
	}
	switch t := sel.(type) {
	case CellRef:
		add(t)
	case CellRange:
		for _, ref := range t.Cells() {
			add(ref)
		}
	}
}

// unindex removes key from the reverse index of every cell sel covers.
func (c *ViewportCache) unindex(key string, sel Selection) {
	drop := func(ref CellRef) {
		set, ok := c.cellToLabels[ref]
		if !ok {
			return
		}
		delete(set, key)
		if len(set) == 0 {
			delete(c.cellToLabels, ref)
		}
	}
	switch t := sel.(type) {
	case CellRef:
		drop(t)
	case CellRange:
		for _, ref := range t.Cells() {
			drop(ref)
		}
	}
}

// Labels returns every label that resolves to the cell, sorted by name.
func (c *ViewportCache) Labels(ref CellRef) []LabelName {
	set := c.cellToLabels[ref]
	if len(set) == 0 {
		return nil
	}
	out := make([]LabelName, 0, len(set))
	for _, label := range set {
		out = append(out, label)
	}
	slices.SortFunc(out, func(a, b LabelName) int {
		return strings.Compare(a.key(), b.key())
	})
	return out
}

// Label returns the cached mapping for a label.
func (c *ViewportCache) Label(label LabelName) (LabelMapping, bool) {
	m, ok := c.labels[label.key()]
	return m, ok
}

// NonLabelSelection returns the concrete selection sel denotes. Concrete
// selections are returned unchanged; labels are followed to their final
// cell or range. The result is absent when a hop has no mapping or the
// chain loops.
func (c *ViewportCache) NonLabelSelection(sel Selection) (Selection, bool) {
	return c.resolve(sel)
}

// LabelMappings returns the mappings relevant to a selection, sorted by label.
//
// For a concrete selection these are the mappings whose resolved target
// intersects it, including every hop of a chain ending there. For a label
// they are the mappings along its own chain plus those of every label whose
// chain passes through it.
func (c *ViewportCache) LabelMappings(sel Selection) ([]LabelMapping, error) {
	if sel == nil {
		return nil, fmt.Errorf("label mappings: %w", ErrInvalidArgument)
	}

	found := make(map[string]LabelMapping)
	if label, ok := sel.(LabelName); ok {
		target := label.key()
		for _, key := range c.chain(label) {
			if m, ok := c.labels[key]; ok {
				found[key] = m
			}
		}
		for key, m := range c.labels {
			if key == target {
				continue
			}
			if slices.Contains(c.chain(m.Label), target) {
				found[key] = m
			}
		}
	} else {
		for key, resolved := range c.resolved {
			if Intersects(resolved, sel) {
				found[key] = c.labels[key]
			}
		}
	}

	if len(found) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(found))
	for key := range found {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	out := make([]LabelMapping, len(keys))
	for i, key := range keys {
		out[i] = found[key]
	}
	return out, nil
}
