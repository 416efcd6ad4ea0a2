package xlview

import "fmt"

// Cell is a cached cell. Formula, Value and Style are opaque to the cache.
type Cell struct {
	Ref     CellRef
	Formula string // formula text without the leading '='
	Value   any    // last computed or entered value
	Style   string // style token understood by the renderer
}

// Column holds per-column attributes.
type Column struct {
	Ref    ColumnRef
	Hidden bool
}

// Row holds per-row attributes.
type Row struct {
	Ref    RowRef
	Hidden bool
}

// LabelMapping binds a label to a cell, a cell range or another label.
type LabelMapping struct {
	Label  LabelName
	Target Selection
}

// NewLabelMapping creates a LabelMapping, rejecting targets a label cannot
// point at.
func NewLabelMapping(label LabelName, target Selection) (LabelMapping, error) {
	if label == "" {
		return LabelMapping{}, fmt.Errorf("label mapping: %w", ErrInvalidArgument)
	}
	switch t := target.(type) {
	case CellRef, CellRange:
	case LabelName:
		if t.Equal(label) {
			return LabelMapping{}, fmt.Errorf("label %q cannot point at itself", label)
		}
	case nil:
		return LabelMapping{}, fmt.Errorf("label %q: missing target: %w", label, ErrInvalidArgument)
	default:
		return LabelMapping{}, fmt.Errorf("label %q: target %s is not a cell, range or label", label, target)
	}
	return LabelMapping{Label: label, Target: target}, nil
}

// ParseLabelMapping parses a label and target pair such as ("Total", "B9").
func ParseLabelMapping(label, target string) (LabelMapping, error) {
	name, err := ParseLabelName(label)
	if err != nil {
		return LabelMapping{}, err
	}
	sel, err := ParseSelection(target)
	if err != nil {
		return LabelMapping{}, fmt.Errorf("label %q: %w", label, err)
	}
	return NewLabelMapping(name, sel)
}

// String formats the mapping as "Label=Target".
func (m LabelMapping) String() string {
	if m.Target == nil {
		return m.Label.String() + "="
	}
	return m.Label.String() + "=" + m.Target.String()
}

// Window is the set of ranges the viewport currently shows.
type Window []CellRange

// Contains reports whether any range in the window contains the cell.
func (w Window) Contains(ref CellRef) bool {
	for _, r := range w {
		if r.Contains(ref) {
			return true
		}
	}
	return false
}

func (w Window) clone() Window {
	if w == nil {
		return nil
	}
	out := make(Window, len(w))
	copy(out, w)
	return out
}

// Metadata carries spreadsheet-wide defaults used when no explicit
// column width or row height override is cached.
type Metadata struct {
	DefaultColumnWidth float64
	DefaultRowHeight   float64
}

// Excel's defaults for a fresh sheet, in character widths and points.
const (
	DefaultColumnWidth = 9.140625
	DefaultRowHeight   = 15.0
)

// DefaultMetadata returns the defaults of a fresh Excel sheet.
func DefaultMetadata() Metadata {
	return Metadata{
		DefaultColumnWidth: DefaultColumnWidth,
		DefaultRowHeight:   DefaultRowHeight,
	}
}

// Delta is one incremental update from the server. Deletions in a delta are
// applied before its additions.
type Delta struct {
	Cells        []Cell
	DeletedCells []CellRef

	Columns        []Column
	DeletedColumns []ColumnRef

	Rows        []Row
	DeletedRows []RowRef

	Labels        []LabelMapping
	DeletedLabels []LabelName

	ColumnWidths map[ColumnRef]float64
	RowHeights   map[RowRef]float64

	// ColumnCount and RowCount, when set, replace the sheet extent.
	ColumnCount *int
	RowCount    *int

	// Window, when non-empty, replaces the cached window.
	Window Window
}

// IsEmpty reports whether the delta carries nothing at all.
func (d Delta) IsEmpty() bool {
	return len(d.Cells) == 0 && len(d.DeletedCells) == 0 &&
		len(d.Columns) == 0 && len(d.DeletedColumns) == 0 &&
		len(d.Rows) == 0 && len(d.DeletedRows) == 0 &&
		len(d.Labels) == 0 && len(d.DeletedLabels) == 0 &&
		len(d.ColumnWidths) == 0 && len(d.RowHeights) == 0 &&
		d.ColumnCount == nil && d.RowCount == nil &&
		len(d.Window) == 0
}
