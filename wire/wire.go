// Package wire encodes viewport deltas and metadata as CBOR for the
// transport between the spreadsheet server and the viewport cache.
//
// References travel in A1 text form ("B3", "C", "7", "A1:B2") so payloads
// stay readable with any CBOR diagnostic tool.
package wire

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/javajack/xlview"
)

type cellPayload struct {
	Ref     string `cbor:"ref"`
	Formula string `cbor:"formula,omitempty"`
	Value   any    `cbor:"value,omitempty"`
	Style   string `cbor:"style,omitempty"`
}

type flagPayload struct {
	Ref    string `cbor:"ref"`
	Hidden bool   `cbor:"hidden,omitempty"`
}

type labelPayload struct {
	Label  string `cbor:"label"`
	Target string `cbor:"target"`
}

type deltaPayload struct {
	Cells          []cellPayload      `cbor:"cells,omitempty"`
	DeletedCells   []string           `cbor:"deletedCells,omitempty"`
	Columns        []flagPayload      `cbor:"columns,omitempty"`
	DeletedColumns []string           `cbor:"deletedColumns,omitempty"`
	Rows           []flagPayload      `cbor:"rows,omitempty"`
	DeletedRows    []string           `cbor:"deletedRows,omitempty"`
	Labels         []labelPayload     `cbor:"labels,omitempty"`
	DeletedLabels  []string           `cbor:"deletedLabels,omitempty"`
	ColumnWidths   map[string]float64 `cbor:"columnWidths,omitempty"`
	RowHeights     map[string]float64 `cbor:"rowHeights,omitempty"`
	ColumnCount    *int               `cbor:"columnCount,omitempty"`
	RowCount       *int               `cbor:"rowCount,omitempty"`
	Window         []string           `cbor:"window,omitempty"`
}

type metadataPayload struct {
	DefaultColumnWidth float64 `cbor:"defaultColumnWidth"`
	DefaultRowHeight   float64 `cbor:"defaultRowHeight"`
}

// MarshalDelta encodes a delta. Numeric cell values of any Go integer or
// float type travel as float64 and come back from UnmarshalDelta as float64.
func MarshalDelta(d xlview.Delta) ([]byte, error) {
	p := deltaPayload{
		ColumnCount: d.ColumnCount,
		RowCount:    d.RowCount,
	}
	for _, c := range d.Cells {
		p.Cells = append(p.Cells, cellPayload{Ref: c.Ref.String(), Formula: c.Formula, Value: number(c.Value), Style: c.Style})
	}
	p.DeletedCells = stringsOf(d.DeletedCells)
	for _, c := range d.Columns {
		p.Columns = append(p.Columns, flagPayload{Ref: c.Ref.String(), Hidden: c.Hidden})
	}
	p.DeletedColumns = stringsOf(d.DeletedColumns)
	for _, r := range d.Rows {
		p.Rows = append(p.Rows, flagPayload{Ref: r.Ref.String(), Hidden: r.Hidden})
	}
	p.DeletedRows = stringsOf(d.DeletedRows)
	for _, m := range d.Labels {
		if m.Target == nil {
			return nil, fmt.Errorf("encode label %q: missing target", m.Label)
		}
		p.Labels = append(p.Labels, labelPayload{Label: m.Label.String(), Target: m.Target.String()})
	}
	p.DeletedLabels = stringsOf(d.DeletedLabels)
	if len(d.ColumnWidths) > 0 {
		p.ColumnWidths = make(map[string]float64, len(d.ColumnWidths))
		for ref, w := range d.ColumnWidths {
			p.ColumnWidths[ref.String()] = w
		}
	}
	if len(d.RowHeights) > 0 {
		p.RowHeights = make(map[string]float64, len(d.RowHeights))
		for ref, h := range d.RowHeights {
			p.RowHeights[ref.String()] = h
		}
	}
	p.Window = stringsOf([]xlview.CellRange(d.Window))

	data, err := cbor.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("cbor encode delta: %w", err)
	}
	return data, nil
}

// UnmarshalDelta decodes a delta produced by MarshalDelta.
func UnmarshalDelta(data []byte) (xlview.Delta, error) {
	var p deltaPayload
	if err := cbor.Unmarshal(data, &p); err != nil {
		return xlview.Delta{}, fmt.Errorf("cbor decode delta: %w", err)
	}

	d := xlview.Delta{
		ColumnCount: p.ColumnCount,
		RowCount:    p.RowCount,
	}
	var err error
	for _, c := range p.Cells {
		ref, err := xlview.ParseCellRef(c.Ref)
		if err != nil {
			return xlview.Delta{}, fmt.Errorf("decode cell: %w", err)
		}
		d.Cells = append(d.Cells, xlview.Cell{Ref: ref, Formula: c.Formula, Value: number(c.Value), Style: c.Style})
	}
	if d.DeletedCells, err = parseAll(p.DeletedCells, xlview.ParseCellRef); err != nil {
		return xlview.Delta{}, fmt.Errorf("decode deleted cells: %w", err)
	}
	for _, c := range p.Columns {
		ref, err := xlview.ParseColumnRef(c.Ref)
		if err != nil {
			return xlview.Delta{}, fmt.Errorf("decode column: %w", err)
		}
		d.Columns = append(d.Columns, xlview.Column{Ref: ref, Hidden: c.Hidden})
	}
	if d.DeletedColumns, err = parseAll(p.DeletedColumns, xlview.ParseColumnRef); err != nil {
		return xlview.Delta{}, fmt.Errorf("decode deleted columns: %w", err)
	}
	for _, r := range p.Rows {
		ref, err := xlview.ParseRowRef(r.Ref)
		if err != nil {
			return xlview.Delta{}, fmt.Errorf("decode row: %w", err)
		}
		d.Rows = append(d.Rows, xlview.Row{Ref: ref, Hidden: r.Hidden})
	}
	if d.DeletedRows, err = parseAll(p.DeletedRows, xlview.ParseRowRef); err != nil {
		return xlview.Delta{}, fmt.Errorf("decode deleted rows: %w", err)
	}
	for _, l := range p.Labels {
		m, err := xlview.ParseLabelMapping(l.Label, l.Target)
		if err != nil {
			return xlview.Delta{}, fmt.Errorf("decode label: %w", err)
		}
		d.Labels = append(d.Labels, m)
	}
	if d.DeletedLabels, err = parseAll(p.DeletedLabels, xlview.ParseLabelName); err != nil {
		return xlview.Delta{}, fmt.Errorf("decode deleted labels: %w", err)
	}
	if len(p.ColumnWidths) > 0 {
		d.ColumnWidths = make(map[xlview.ColumnRef]float64, len(p.ColumnWidths))
		for name, w := range p.ColumnWidths {
			ref, err := xlview.ParseColumnRef(name)
			if err != nil {
				return xlview.Delta{}, fmt.Errorf("decode column width: %w", err)
			}
			d.ColumnWidths[ref] = w
		}
	}
	if len(p.RowHeights) > 0 {
		d.RowHeights = make(map[xlview.RowRef]float64, len(p.RowHeights))
		for name, h := range p.RowHeights {
			ref, err := xlview.ParseRowRef(name)
			if err != nil {
				return xlview.Delta{}, fmt.Errorf("decode row height: %w", err)
			}
			d.RowHeights[ref] = h
		}
	}
	window, err := parseAll(p.Window, xlview.ParseCellRange)
	if err != nil {
		return xlview.Delta{}, fmt.Errorf("decode window: %w", err)
	}
	d.Window = xlview.Window(window)
	return d, nil
}

// MarshalMetadata encodes a metadata snapshot.
func MarshalMetadata(m xlview.Metadata) ([]byte, error) {
	data, err := cbor.Marshal(metadataPayload{
		DefaultColumnWidth: m.DefaultColumnWidth,
		DefaultRowHeight:   m.DefaultRowHeight,
	})
	if err != nil {
		return nil, fmt.Errorf("cbor encode metadata: %w", err)
	}
	return data, nil
}

// UnmarshalMetadata decodes a metadata snapshot produced by MarshalMetadata.
func UnmarshalMetadata(data []byte) (xlview.Metadata, error) {
	var p metadataPayload
	if err := cbor.Unmarshal(data, &p); err != nil {
		return xlview.Metadata{}, fmt.Errorf("cbor decode metadata: %w", err)
	}
	return xlview.Metadata{
		DefaultColumnWidth: p.DefaultColumnWidth,
		DefaultRowHeight:   p.DefaultRowHeight,
	}, nil
}

// number widens integer and float32 values to float64. CBOR decodes
// unsigned integers as uint64 and negative ones as int64.
func number(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case float32:
		return float64(n)
	}
	return v
}

func stringsOf[T fmt.Stringer](items []T) []string {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.String()
	}
	return out
}

func parseAll[T any](items []string, parse func(string) (T, error)) ([]T, error) {
	if len(items) == 0 {
		return nil, nil
	}
	out := make([]T, 0, len(items))
	for _, s := range items {
		v, err := parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
