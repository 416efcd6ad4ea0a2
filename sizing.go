package xlview

import "fmt"

// ColumnWidth returns the width of a column: its explicit override if one
// has been received, otherwise the current metadata default.
func (c *ViewportCache) ColumnWidth(ref ColumnRef) (float64, error) {
	if !ref.IsValid() {
		return 0, fmt.Errorf("column width of column %d: %w", ref.Col, ErrInvalidArgument)
	}
	if w, ok := c.columnWidths[ref]; ok {
		return w, nil
	}
	return c.metadata.DefaultColumnWidth, nil
}

// RowHeight returns the height of a row: its explicit override if one has
// been received, otherwise the current metadata default.
func (c *ViewportCache) RowHeight(ref RowRef) (float64, error) {
	if !ref.IsValid() {
		return 0, fmt.Errorf("row height of row %d: %w", ref.Row, ErrInvalidArgument)
	}
	if h, ok := c.rowHeights[ref]; ok {
		return h, nil
	}
	return c.metadata.DefaultRowHeight, nil
}

// IsColumnHidden reports the hidden flag of a cached column. Columns never
// received are not hidden.
func (c *ViewportCache) IsColumnHidden(ref ColumnRef) bool {
	return c.columns[ref].Hidden
}

// IsRowHidden reports the hidden flag of a cached row. Rows never received
// are not hidden.
func (c *ViewportCache) IsRowHidden(ref RowRef) bool {
	return c.rows[ref].Hidden
}
