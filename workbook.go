package xlview

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// MetadataFromWorkbook reads the default column width and row height of a
// sheet. Properties the sheet does not set fall back to Excel's defaults.
func MetadataFromWorkbook(f *excelize.File, sheet string) (Metadata, error) {
	props, err := f.GetSheetProps(sheet)
	if err != nil {
		return Metadata{}, fmt.Errorf("read sheet properties of %q: %w", sheet, err)
	}
	m := DefaultMetadata()
	if props.DefaultColWidth != nil && *props.DefaultColWidth > 0 {
		m.DefaultColumnWidth = *props.DefaultColWidth
	}
	if props.DefaultRowHeight != nil && *props.DefaultRowHeight > 0 {
		m.DefaultRowHeight = *props.DefaultRowHeight
	}
	return m, nil
}

// DeltaFromWorkbook builds the delta a server would send for the given
// window of a sheet: the non-empty cells inside it, the columns and rows it
// spans with their visibility, sizes that differ from the sheet defaults, and
// every defined name visible from the sheet as a label.
func DeltaFromWorkbook(f *excelize.File, sheet string, window Window) (Delta, error) {
	meta, err := MetadataFromWorkbook(f, sheet)
	if err != nil {
		return Delta{}, err
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return Delta{}, fmt.Errorf("read rows from sheet %q: %w", sheet, err)
	}
	maxCol := 0
	for _, row := range rows {
		maxCol = max(maxCol, len(row))
	}

	d := Delta{
		ColumnWidths: make(map[ColumnRef]float64),
		RowHeights:   make(map[RowRef]float64),
		Window:       window.clone(),
	}
	seenCols := make(map[ColumnRef]struct{})
	seenRows := make(map[RowRef]struct{})

	for _, area := range window {
		for col := area.First.Col; col <= area.Last.Col; col++ {
			ref := ColumnRef{Col: col}
			if _, ok := seenCols[ref]; ok {
				continue
			}
			seenCols[ref] = struct{}{}
			if err := readColumn(f, sheet, ref, meta, &d); err != nil {
				return Delta{}, err
			}
		}
		for row := area.First.Row; row <= area.Last.Row; row++ {
			ref := RowRef{Row: row}
			if _, ok := seenRows[ref]; ok {
				continue
			}
			seenRows[ref] = struct{}{}
			if err := readRow(f, sheet, ref, meta, &d); err != nil {
				return Delta{}, err
			}
		}

		lastRow := min(area.Last.Row, len(rows))
		lastCol := min(area.Last.Col, maxCol)
		for row := area.First.Row; row <= lastRow; row++ {
			for col := area.First.Col; col <= lastCol; col++ {
				cell, ok, err := readCell(f, sheet, CellRef{Col: col, Row: row})
				if err != nil {
					return Delta{}, err
				}
				if ok {
					d.Cells = append(d.Cells, cell)
				}
			}
		}
	}

	d.Labels = definedNameLabels(f, sheet)

	colCount, rowCount := maxCol, len(rows)
	d.ColumnCount = &colCount
	d.RowCount = &rowCount
	return d, nil
}

func readColumn(f *excelize.File, sheet string, ref ColumnRef, meta Metadata, d *Delta) error {
	name := ref.String()
	visible, err := f.GetColVisible(sheet, name)
	if err != nil {
		return fmt.Errorf("read visibility of column %s: %w", name, err)
	}
	d.Columns = append(d.Columns, Column{Ref: ref, Hidden: !visible})
	width, err := f.GetColWidth(sheet, name)
	if err != nil {
		return fmt.Errorf("read width of column %s: %w", name, err)
	}
	if width != meta.DefaultColumnWidth {
		d.ColumnWidths[ref] = width
	}
	return nil
}

func readRow(f *excelize.File, sheet string, ref RowRef, meta Metadata, d *Delta) error {
	visible, err := f.GetRowVisible(sheet, ref.Row)
	if err != nil {
		return fmt.Errorf("read visibility of row %d: %w", ref.Row, err)
	}
	d.Rows = append(d.Rows, Row{Ref: ref, Hidden: !visible})
	height, err := f.GetRowHeight(sheet, ref.Row)
	if err != nil {
		return fmt.Errorf("read height of row %d: %w", ref.Row, err)
	}
	if height != meta.DefaultRowHeight {
		d.RowHeights[ref] = height
	}
	return nil
}

// readCell returns false for cells with neither a value nor a formula.
func readCell(f *excelize.File, sheet string, ref CellRef) (Cell, bool, error) {
	name := ref.String()
	value, err := f.GetCellValue(sheet, name)
	if err != nil {
		return Cell{}, false, fmt.Errorf("read cell %s: %w", name, err)
	}
	formula, err := f.GetCellFormula(sheet, name)
	if err != nil {
		return Cell{}, false, fmt.Errorf("read formula of cell %s: %w", name, err)
	}
	if value == "" && formula == "" {
		return Cell{}, false, nil
	}
	cell := Cell{Ref: ref, Formula: formula, Value: value}
	if styleID, err := f.GetCellStyle(sheet, name); err == nil && styleID != 0 {
		cell.Style = strconv.Itoa(styleID)
	}
	return cell, true, nil
}

// definedNameLabels converts the workbook- and sheet-scoped defined names
// that point into sheet (or at other names) into label mappings. Names that
// hold constants or formulas have no cell target and are skipped.
func definedNameLabels(f *excelize.File, sheet string) []LabelMapping {
	var labels []LabelMapping
	for _, dn := range f.GetDefinedName() {
		if dn.Scope != "" && dn.Scope != "Workbook" && dn.Scope != sheet {
			continue
		}
		target, ok := definedNameTarget(dn.RefersTo, sheet)
		if !ok {
			continue
		}
		m, err := ParseLabelMapping(dn.Name, target)
		if err != nil {
			continue
		}
		labels = append(labels, m)
	}
	return labels
}

// definedNameTarget strips the sheet prefix from a RefersTo formula such as
// "Sheet1!$A$1:$B$2". Targets on other sheets are skipped.
func definedNameTarget(refersTo, sheet string) (string, bool) {
	s := strings.TrimPrefix(strings.TrimSpace(refersTo), "=")
	if idx := strings.LastIndex(s, "!"); idx >= 0 {
		owner := strings.Trim(s[:idx], "'")
		if owner != sheet {
			return "", false
		}
		s = s[idx+1:]
	}
	if s == "" {
		return "", false
	}
	return s, true
}
