package xlview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// newTestWorkbook builds a small sheet:
//
//	A1: "Region"   B1: =C1*2    C1: 5     (column B width 20, column C hidden)
//	A2: "North"                           (row 2 height 30, row 3 hidden)
//
// with defined names Region=A1, Block=A1:B2 and Elsewhere=Other!A1.
func newTestWorkbook(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { f.Close() })
	sheet := "Sheet1"

	_, err := f.NewSheet("Other")
	require.NoError(t, err)

	require.NoError(t, f.SetCellValue(sheet, "A1", "Region"))
	require.NoError(t, f.SetCellFormula(sheet, "B1", "C1*2"))
	require.NoError(t, f.SetCellValue(sheet, "C1", 5))
	require.NoError(t, f.SetCellValue(sheet, "A2", "North"))
	require.NoError(t, f.SetColWidth(sheet, "B", "B", 20))
	require.NoError(t, f.SetColVisible(sheet, "C", false))
	require.NoError(t, f.SetRowHeight(sheet, 2, 30))
	require.NoError(t, f.SetRowVisible(sheet, 3, false))

	require.NoError(t, f.SetDefinedName(&excelize.DefinedName{Name: "Region", RefersTo: "Sheet1!$A$1"}))
	require.NoError(t, f.SetDefinedName(&excelize.DefinedName{Name: "Block", RefersTo: "Sheet1!$A$1:$B$2"}))
	require.NoError(t, f.SetDefinedName(&excelize.DefinedName{Name: "Elsewhere", RefersTo: "Other!$A$1"}))
	return f
}

func TestMetadataFromWorkbook(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	width, height := 12.5, 18.0
	require.NoError(t, f.SetSheetProps("Sheet1", &excelize.SheetPropsOptions{
		DefaultColWidth:  &width,
		DefaultRowHeight: &height,
	}))

	m, err := MetadataFromWorkbook(f, "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, Metadata{DefaultColumnWidth: 12.5, DefaultRowHeight: 18}, m)
}

func TestMetadataFromWorkbook_MissingSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	_, err := MetadataFromWorkbook(f, "Nope")
	assert.Error(t, err)

	_, err = DeltaFromWorkbook(f, "Nope", Window{mustRange(t, "A1:B2")})
	assert.Error(t, err)
}

func TestDeltaFromWorkbook(t *testing.T) {
	f := newTestWorkbook(t)
	window := Window{mustRange(t, "A1:C3")}

	d, err := DeltaFromWorkbook(f, "Sheet1", window)
	require.NoError(t, err)

	cells := make(map[string]Cell)
	for _, c := range d.Cells {
		cells[c.Ref.String()] = c
	}
	assert.Equal(t, "Region", cells["A1"].Value)
	assert.Equal(t, "C1*2", cells["B1"].Formula)
	assert.Equal(t, "5", cells["C1"].Value)
	assert.Equal(t, "North", cells["A2"].Value)
	assert.NotContains(t, cells, "B2")

	var labels []string
	for _, m := range d.Labels {
		labels = append(labels, m.String())
	}
	assert.ElementsMatch(t, []string{"Region=A1", "Block=A1:B2"}, labels)

	assert.Equal(t, 20.0, d.ColumnWidths[ColumnRef{Col: 2}])
	assert.Equal(t, 30.0, d.RowHeights[RowRef{Row: 2}])
	assert.Len(t, d.Columns, 3)
	assert.Len(t, d.Rows, 3)
	require.NotNil(t, d.ColumnCount)
	assert.Equal(t, 3, *d.ColumnCount)
	assert.Equal(t, window, d.Window)
}

func TestDeltaFromWorkbook_IntoCache(t *testing.T) {
	f := newTestWorkbook(t)
	d, err := DeltaFromWorkbook(f, "Sheet1", Window{mustRange(t, "A1:C3")})
	require.NoError(t, err)
	meta, err := MetadataFromWorkbook(f, "Sheet1")
	require.NoError(t, err)

	c := New()
	c.ApplyMetadata(meta)
	c.ApplyDelta(d)

	assert.Equal(t, []LabelName{"Block", "Region"}, c.Labels(mustRef(t, "A1")))
	assert.Equal(t, []LabelName{"Block"}, c.Labels(mustRef(t, "B2")))
	assert.True(t, c.IsColumnHidden(ColumnRef{Col: 3}))
	assert.False(t, c.IsColumnHidden(ColumnRef{Col: 1}))
	assert.True(t, c.IsRowHidden(RowRef{Row: 3}))

	w, err := c.ColumnWidth(ColumnRef{Col: 2})
	require.NoError(t, err)
	assert.Equal(t, 20.0, w)
	h, err := c.RowHeight(RowRef{Row: 2})
	require.NoError(t, err)
	assert.Equal(t, 30.0, h)
	w, err = c.ColumnWidth(ColumnRef{Col: 200})
	require.NoError(t, err)
	assert.Equal(t, meta.DefaultColumnWidth, w)
}

func TestDefinedNameTarget(t *testing.T) {
	tests := []struct {
		refersTo string
		want     string
		ok       bool
	}{
		{"Sheet1!$A$1", "$A$1", true},
		{"=Sheet1!$A$1:$B$4", "$A$1:$B$4", true},
		{"'My Sheet'!$C$3", "", false},
		{"Other!A1", "", false},
		{"Region", "Region", true},
		{"Sheet1!", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.refersTo, func(t *testing.T) {
			got, ok := definedNameTarget(tt.refersTo, "Sheet1")
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	got, ok := definedNameTarget("'My Sheet'!$C$3", "My Sheet")
	assert.True(t, ok)
	assert.Equal(t, "$C$3", got)
}
