package xlview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnWidth_DefaultFallback(t *testing.T) {
	c := New()
	colZ := ColumnRef{Col: 26}

	w, err := c.ColumnWidth(colZ)
	require.NoError(t, err)
	assert.Equal(t, DefaultColumnWidth, w)

	c.ApplyMetadata(Metadata{DefaultColumnWidth: 80, DefaultRowHeight: 22})
	w, err = c.ColumnWidth(colZ)
	require.NoError(t, err)
	assert.Equal(t, 80.0, w)

	c.ApplyDelta(Delta{ColumnWidths: map[ColumnRef]float64{colZ: 125}})
	w, err = c.ColumnWidth(colZ)
	require.NoError(t, err)
	assert.Equal(t, 125.0, w)

	// A later metadata change does not override the explicit width.
	c.ApplyMetadata(Metadata{DefaultColumnWidth: 60, DefaultRowHeight: 22})
	w, err = c.ColumnWidth(colZ)
	require.NoError(t, err)
	assert.Equal(t, 125.0, w)
}

func TestRowHeight_DefaultFallback(t *testing.T) {
	c := New(WithMetadata(Metadata{DefaultColumnWidth: 100, DefaultRowHeight: 30}))
	row9 := RowRef{Row: 9}

	h, err := c.RowHeight(row9)
	require.NoError(t, err)
	assert.Equal(t, 30.0, h)

	c.ApplyDelta(Delta{RowHeights: map[RowRef]float64{row9: 45}})
	h, err = c.RowHeight(row9)
	require.NoError(t, err)
	assert.Equal(t, 45.0, h)

	h, err = c.RowHeight(RowRef{Row: 10})
	require.NoError(t, err)
	assert.Equal(t, 30.0, h)
}

func TestColumnWidth_InvalidArgument(t *testing.T) {
	c := New()
	_, err := c.ColumnWidth(ColumnRef{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = c.ColumnWidth(ColumnRef{Col: 16385})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestRowHeight_InvalidArgument(t *testing.T) {
	c := New()
	_, err := c.RowHeight(RowRef{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = c.RowHeight(RowRef{Row: -3})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestHidden_DefaultsToVisible(t *testing.T) {
	c := New()
	assert.False(t, c.IsColumnHidden(ColumnRef{Col: 7}))
	assert.False(t, c.IsRowHidden(RowRef{Row: 7}))
	assert.False(t, c.IsColumnHidden(ColumnRef{}))
}

func TestHidden_Flags(t *testing.T) {
	c := New()
	c.ApplyDelta(Delta{
		Columns: []Column{{Ref: ColumnRef{Col: 2}, Hidden: true}, {Ref: ColumnRef{Col: 3}}},
		Rows:    []Row{{Ref: RowRef{Row: 4}, Hidden: true}},
	})
	assert.True(t, c.IsColumnHidden(ColumnRef{Col: 2}))
	assert.False(t, c.IsColumnHidden(ColumnRef{Col: 3}))
	assert.True(t, c.IsRowHidden(RowRef{Row: 4}))

	c.ApplyDelta(Delta{Columns: []Column{{Ref: ColumnRef{Col: 2}}}})
	assert.False(t, c.IsColumnHidden(ColumnRef{Col: 2}))
}

func TestHidden_IndependentOfSizing(t *testing.T) {
	c := New()
	colD := ColumnRef{Col: 4}
	c.ApplyDelta(Delta{
		Columns:      []Column{{Ref: colD, Hidden: true}},
		ColumnWidths: map[ColumnRef]float64{colD: 33},
	})
	c.ApplyDelta(Delta{Columns: []Column{{Ref: colD}}})

	assert.False(t, c.IsColumnHidden(colD))
	w, err := c.ColumnWidth(colD)
	require.NoError(t, err)
	assert.Equal(t, 33.0, w)
}
