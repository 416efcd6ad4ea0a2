// Package xlview keeps a client-side mirror of the part of a spreadsheet a
// viewport has fetched, merged from incremental server deltas.
package xlview

import (
	"errors"
	"slices"
)

// ErrInvalidArgument is returned when a query is given a missing or
// out-of-range reference.
var ErrInvalidArgument = errors.New("invalid argument")

// ViewportCache mirrors the part of a spreadsheet the viewport has fetched.
// It is fed by ApplyDelta and ApplyMetadata and answers rendering queries.
//
// A ViewportCache is not safe for concurrent use. It is meant to be driven
// from a single event loop.
type ViewportCache struct {
	opts *Options

	cells   map[CellRef]Cell
	columns map[ColumnRef]Column
	rows    map[RowRef]Row

	columnWidths map[ColumnRef]float64
	rowHeights   map[RowRef]float64

	labels       map[string]LabelMapping           // label key → mapping
	cellToLabels map[CellRef]map[string]LabelName // reverse index
	resolved     map[string]Selection             // label key → indexed target
	chains       map[string][]string              // label key → keys it passed through

	window      Window
	metadata    Metadata
	columnCount int
	rowCount    int
}

// New creates an empty ViewportCache.
func New(opts ...Option) *ViewportCache {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &ViewportCache{
		opts:         o,
		cells:        make(map[CellRef]Cell),
		columns:      make(map[ColumnRef]Column),
		rows:         make(map[RowRef]Row),
		columnWidths: make(map[ColumnRef]float64),
		rowHeights:   make(map[RowRef]float64),
		labels:       make(map[string]LabelMapping),
		cellToLabels: make(map[CellRef]map[string]LabelName),
		resolved:     make(map[string]Selection),
		chains:       make(map[string][]string),
		metadata:     o.metadata,
	}
}

// ApplyDelta merges one delta. All removals in the delta happen before any
// of its additions, so delete+add of the same key within a delta replaces.
//
// Every listener is asked before the merge. If any of them declines, the
// delta is dropped and no listener receives AfterApplyDelta.
func (c *ViewportCache) ApplyDelta(d Delta) {
	apply := true
	for _, l := range c.opts.listeners {
		if !l.BeforeApplyDelta(d) {
			apply = false
		}
	}
	if !apply {
		c.opts.logger.Debug("delta skipped by listener")
		return
	}

	changed := c.removeDeleted(d)
	for key := range c.mergeAdded(d) {
		changed[key] = struct{}{}
	}
	c.reindexLabels(changed)
	if len(d.Window) > 0 {
		c.window = d.Window.clone()
	}

	c.opts.logger.Debug("delta applied",
		"cells", len(d.Cells),
		"deletedCells", len(d.DeletedCells),
		"labels", len(d.Labels),
		"deletedLabels", len(d.DeletedLabels),
		"cachedCells", len(c.cells),
		"cachedLabels", len(c.labels),
	)

	for _, l := range c.opts.listeners {
		l.AfterApplyDelta(d, c)
	}
}

// removeDeleted is the first pass of ApplyDelta. It returns the keys of the
// labels it removed.
func (c *ViewportCache) removeDeleted(d Delta) map[string]struct{} {
	changed := make(map[string]struct{})
	if len(d.DeletedCells) > 0 {
		// The cell's whole label set goes. Range labels covering it stay
		// mapped but are not re-expanded over it until they change.
		stale := c.labelsResolvingTo(d.DeletedCells)
		for _, ref := range d.DeletedCells {
			delete(c.cells, ref)
			delete(c.cellToLabels, ref)
		}
		for key := range stale {
			delete(c.labels, key)
			changed[key] = struct{}{}
		}
	}
	for _, label := range d.DeletedLabels {
		key := label.key()
		if _, ok := c.labels[key]; ok {
			delete(c.labels, key)
			changed[key] = struct{}{}
		}
	}
	for _, ref := range d.DeletedColumns {
		delete(c.columns, ref)
	}
	for _, ref := range d.DeletedRows {
		delete(c.rows, ref)
	}
	return changed
}

// mergeAdded is the second pass of ApplyDelta. It returns the keys of the
// labels it stored.
func (c *ViewportCache) mergeAdded(d Delta) map[string]struct{} {
	changed := make(map[string]struct{}, len(d.Labels))
	for _, cell := range d.Cells {
		c.cells[cell.Ref] = cell
	}
	for _, col := range d.Columns {
		c.columns[col.Ref] = col
	}
	for _, row := range d.Rows {
		c.rows[row.Ref] = row
	}
	for ref, w := range d.ColumnWidths {
		c.columnWidths[ref] = w
	}
	for ref, h := range d.RowHeights {
		c.rowHeights[ref] = h
	}
	for _, m := range d.Labels {
		if m.Label == "" || m.Target == nil {
			continue
		}
		key := m.Label.key()
		c.labels[key] = m
		changed[key] = struct{}{}
	}
	if d.ColumnCount != nil {
		c.columnCount = *d.ColumnCount
	}
	if d.RowCount != nil {
		c.rowCount = *d.RowCount
	}
	return changed
}

// ApplyMetadata replaces the default column width and row height.
func (c *ViewportCache) ApplyMetadata(m Metadata) {
	c.metadata = m
	c.opts.logger.Debug("metadata applied",
		"defaultColumnWidth", m.DefaultColumnWidth,
		"defaultRowHeight", m.DefaultRowHeight,
	)
}

// Metadata returns the defaults currently in effect.
func (c *ViewportCache) Metadata() Metadata {
	return c.metadata
}

// Cell returns the cached cell at ref.
func (c *ViewportCache) Cell(ref CellRef) (Cell, bool) {
	cell, ok := c.cells[ref]
	return cell, ok
}

// Cells returns every cached cell in row-major order.
func (c *ViewportCache) Cells() []Cell {
	out := make([]Cell, 0, len(c.cells))
	for _, cell := range c.cells {
		out = append(out, cell)
	}
	slices.SortFunc(out, func(a, b Cell) int {
		switch {
		case a.Ref.less(b.Ref):
			return -1
		case b.Ref.less(a.Ref):
			return 1
		}
		return 0
	})
	return out
}

// Column returns the cached column at ref.
func (c *ViewportCache) Column(ref ColumnRef) (Column, bool) {
	col, ok := c.columns[ref]
	return col, ok
}

// Row returns the cached row at ref.
func (c *ViewportCache) Row(ref RowRef) (Row, bool) {
	row, ok := c.rows[ref]
	return row, ok
}

// Window returns the last non-empty window received.
func (c *ViewportCache) Window() Window {
	return c.window.clone()
}

// ColumnCount returns the last column count received, or 0.
func (c *ViewportCache) ColumnCount() int { return c.columnCount }

// RowCount returns the last row count received, or 0.
func (c *ViewportCache) RowCount() int { return c.rowCount }
