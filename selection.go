package xlview

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Selection is anything a user can select or a label can point at: a cell,
// a cell range, a column, a row or a label name.
type Selection interface {
	String() string
	isSelection()
}

// LabelName names a cell or range. Label identity is case-insensitive.
type LabelName string

const maxLabelLength = 255

// ParseLabelName validates a label name. Names must start with a letter or
// underscore, contain only letters, digits, '_' and '.', and must not be
// readable as a cell, column or row reference.
func ParseLabelName(s string) (LabelName, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty label name")
	}
	if len(s) > maxLabelLength {
		return "", fmt.Errorf("invalid label name %q: longer than %d characters", s, maxLabelLength)
	}
	if !isAlpha(s[0]) && s[0] != '_' {
		return "", fmt.Errorf("invalid label name %q: must start with a letter or '_'", s)
	}
	for i := 1; i < len(s); i++ {
		ch := s[i]
		if !isAlpha(ch) && !isDigit(ch) && ch != '_' && ch != '.' {
			return "", fmt.Errorf("invalid label name %q: unexpected character %q", s, ch)
		}
	}
	if _, err := ParseCellRef(s); err == nil {
		return "", fmt.Errorf("invalid label name %q: looks like a cell reference", s)
	}
	if _, err := ParseColumnRef(s); err == nil {
		return "", fmt.Errorf("invalid label name %q: looks like a column reference", s)
	}
	return LabelName(s), nil
}

// String returns the label as written.
func (l LabelName) String() string { return string(l) }

// Equal reports whether two labels name the same thing.
func (l LabelName) Equal(o LabelName) bool { return l.key() == o.key() }

func (l LabelName) key() string { return strings.ToUpper(string(l)) }

func (LabelName) isSelection() {}

// ParseSelection parses a range ("A1:B2"), cell ("A1"), column ("C"),
// row ("7") or label name, in that order of precedence.
func ParseSelection(s string) (Selection, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty selection")
	}
	if strings.Contains(s, ":") {
		return ParseCellRange(s)
	}
	if ref, err := ParseCellRef(s); err == nil {
		return ref, nil
	}
	if isAllDigits(strings.TrimPrefix(s, "$")) {
		return ParseRowRef(s)
	}
	if ref, err := ParseColumnRef(s); err == nil {
		return ref, nil
	}
	label, err := ParseLabelName(s)
	if err != nil {
		return nil, fmt.Errorf("invalid selection %q: %w", s, err)
	}
	return label, nil
}

// IsLabel reports whether the selection is a label name.
func IsLabel(s Selection) bool {
	_, ok := s.(LabelName)
	return ok
}

// box is the inclusive rectangle a concrete selection covers.
type box struct {
	left, top, right, bottom int
}

// boxOf returns the rectangle covered by a concrete selection. Labels have
// no rectangle until resolved.
func boxOf(s Selection) (box, bool) {
	switch v := s.(type) {
	case CellRef:
		return box{v.Col, v.Row, v.Col, v.Row}, true
	case CellRange:
		return box{v.First.Col, v.First.Row, v.Last.Col, v.Last.Row}, true
	case ColumnRef:
		return box{v.Col, 1, v.Col, excelize.TotalRows}, true
	case RowRef:
		return box{1, v.Row, excelize.MaxColumns, v.Row}, true
	default:
		return box{}, false
	}
}

// Intersects reports whether two concrete selections share at least one
// cell. It is false whenever either side is a label.
func Intersects(a, b Selection) bool {
	ba, ok := boxOf(a)
	if !ok {
		return false
	}
	bb, ok := boxOf(b)
	if !ok {
		return false
	}
	return ba.left <= bb.right && bb.left <= ba.right &&
		ba.top <= bb.bottom && bb.top <= ba.bottom
}

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}
