package xlview

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// CellRef identifies a single cell. Col and Row are 1-based, matching the
// excelize coordinate functions. The zero value is not a valid reference.
type CellRef struct {
	Col int
	Row int
}

// NewCellRef creates a CellRef from 1-based column and row numbers.
func NewCellRef(col, row int) CellRef {
	return CellRef{Col: col, Row: row}
}

// ParseCellRef parses a cell reference string like "A1" or "$B$5".
func ParseCellRef(s string) (CellRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CellRef{}, fmt.Errorf("empty cell reference")
	}
	name := strings.ReplaceAll(s, "$", "")
	col, row, err := excelize.CellNameToCoordinates(name)
	if err != nil {
		return CellRef{}, fmt.Errorf("invalid cell reference %q: %w", s, err)
	}
	return CellRef{Col: col, Row: row}, nil
}

// IsValid reports whether the reference lies inside the sheet bounds.
func (c CellRef) IsValid() bool {
	return c.Col >= 1 && c.Col <= excelize.MaxColumns &&
		c.Row >= 1 && c.Row <= excelize.TotalRows
}

// Column returns the column containing the cell.
func (c CellRef) Column() ColumnRef { return ColumnRef{Col: c.Col} }

// RowRef returns the row containing the cell.
func (c CellRef) RowRef() RowRef { return RowRef{Row: c.Row} }

// String formats the reference as "A1". Invalid references format as "#REF!".
func (c CellRef) String() string {
	name, err := excelize.CoordinatesToCellName(c.Col, c.Row)
	if err != nil {
		return "#REF!"
	}
	return name
}

func (CellRef) isSelection() {}

// less orders references row-major, the order cells are rendered in.
func (c CellRef) less(o CellRef) bool {
	if c.Row != o.Row {
		return c.Row < o.Row
	}
	return c.Col < o.Col
}

// ColumnRef identifies a column by its 1-based number.
type ColumnRef struct {
	Col int
}

// ParseColumnRef parses a column name like "A", "$AA" or "XFD".
func ParseColumnRef(s string) (ColumnRef, error) {
	name := strings.ReplaceAll(strings.TrimSpace(s), "$", "")
	if name == "" {
		return ColumnRef{}, fmt.Errorf("empty column reference")
	}
	col, err := excelize.ColumnNameToNumber(name)
	if err != nil {
		return ColumnRef{}, fmt.Errorf("invalid column reference %q: %w", s, err)
	}
	return ColumnRef{Col: col}, nil
}

// IsValid reports whether the column lies inside the sheet bounds.
func (c ColumnRef) IsValid() bool {
	return c.Col >= 1 && c.Col <= excelize.MaxColumns
}

// String formats the column as its letter name.
func (c ColumnRef) String() string {
	name, err := excelize.ColumnNumberToName(c.Col)
	if err != nil {
		return "#REF!"
	}
	return name
}

func (ColumnRef) isSelection() {}

// RowRef identifies a row by its 1-based number.
type RowRef struct {
	Row int
}

// ParseRowRef parses a row number like "7" or "$7".
func ParseRowRef(s string) (RowRef, error) {
	digits := strings.ReplaceAll(strings.TrimSpace(s), "$", "")
	row, err := strconv.Atoi(digits)
	if err != nil {
		return RowRef{}, fmt.Errorf("invalid row reference %q: %w", s, err)
	}
	ref := RowRef{Row: row}
	if !ref.IsValid() {
		return RowRef{}, fmt.Errorf("invalid row reference %q: out of range", s)
	}
	return ref, nil
}

// IsValid reports whether the row lies inside the sheet bounds.
func (r RowRef) IsValid() bool {
	return r.Row >= 1 && r.Row <= excelize.TotalRows
}

// String formats the row as its number.
func (r RowRef) String() string {
	return strconv.Itoa(r.Row)
}

func (RowRef) isSelection() {}

// CellRange is a rectangular block of cells. First is always the top-left
// corner and Last the bottom-right one.
type CellRange struct {
	First CellRef
	Last  CellRef
}

// NewCellRange creates a CellRange spanning two corners given in any order.
func NewCellRange(a, b CellRef) CellRange {
	return CellRange{
		First: CellRef{Col: min(a.Col, b.Col), Row: min(a.Row, b.Row)},
		Last:  CellRef{Col: max(a.Col, b.Col), Row: max(a.Row, b.Row)},
	}
}

// ParseCellRange parses a range string like "A1:C5".
func ParseCellRange(s string) (CellRange, error) {
	s = strings.TrimSpace(s)
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return CellRange{}, fmt.Errorf("invalid cell range (missing ':'): %q", s)
	}
	first, err := ParseCellRef(parts[0])
	if err != nil {
		return CellRange{}, fmt.Errorf("invalid cell range %q: %w", s, err)
	}
	last, err := ParseCellRef(parts[1])
	if err != nil {
		return CellRange{}, fmt.Errorf("invalid cell range %q: %w", s, err)
	}
	return NewCellRange(first, last), nil
}

// String formats the range as "A1:C5".
func (r CellRange) String() string {
	return r.First.String() + ":" + r.Last.String()
}

// Contains returns true if the cell lies within the range.
func (r CellRange) Contains(ref CellRef) bool {
	return ref.Row >= r.First.Row && ref.Row <= r.Last.Row &&
		ref.Col >= r.First.Col && ref.Col <= r.Last.Col
}

// Width returns the number of columns spanned.
func (r CellRange) Width() int { return r.Last.Col - r.First.Col + 1 }

// Height returns the number of rows spanned.
func (r CellRange) Height() int { return r.Last.Row - r.First.Row + 1 }

// Cells returns every cell in the range in row-major order.
func (r CellRange) Cells() []CellRef {
	if r.Width() <= 0 || r.Height() <= 0 {
		return nil
	}
	refs := make([]CellRef, 0, r.Width()*r.Height())
	for row := r.First.Row; row <= r.Last.Row; row++ {
		for col := r.First.Col; col <= r.Last.Col; col++ {
			refs = append(refs, CellRef{Col: col, Row: row})
		}
	}
	return refs
}

func (CellRange) isSelection() {}
