package xlview_test

import (
	"fmt"

	"github.com/javajack/xlview"
)

func Example() {
	cache := xlview.New()

	total, _ := xlview.ParseLabelMapping("Total", "B3")
	alias, _ := xlview.ParseLabelMapping("GrandTotal", "Total")
	window, _ := xlview.ParseCellRange("A1:D20")

	cache.ApplyDelta(xlview.Delta{
		Cells: []xlview.Cell{
			{Ref: xlview.NewCellRef(2, 3), Formula: "SUM(B1:B2)", Value: 42.0},
		},
		Labels:       []xlview.LabelMapping{total, alias},
		ColumnWidths: map[xlview.ColumnRef]float64{{Col: 2}: 120},
		Window:       xlview.Window{window},
	})
	cache.ApplyMetadata(xlview.Metadata{DefaultColumnWidth: 100, DefaultRowHeight: 30})

	sel, ok := cache.NonLabelSelection(xlview.LabelName("GrandTotal"))
	fmt.Println(sel, ok)
	fmt.Println(cache.Labels(xlview.NewCellRef(2, 3)))

	widthA, _ := cache.ColumnWidth(xlview.ColumnRef{Col: 1})
	widthB, _ := cache.ColumnWidth(xlview.ColumnRef{Col: 2})
	fmt.Println(widthA, widthB)

	cache.ApplyDelta(xlview.Delta{DeletedCells: []xlview.CellRef{xlview.NewCellRef(2, 3)}})
	_, ok = cache.NonLabelSelection(xlview.LabelName("GrandTotal"))
	fmt.Println(ok, cache.Window())
	// Output:
	// B3 true
	// [GrandTotal Total]
	// 100 120
	// false [A1:D20]
}
