package extract

import (
	"github.com/PuerkitoBio/goquery"
)

// Column names one cell of a statistics row by its position relative to the
// row's anchor. Offset counts element siblings forward from the first anchor
// match; with FromEnd it counts backwards from the last anchor match instead.
type Column struct {
	Name    string
	Offset  int
	FromEnd bool
}

// Row is a resolved statistics row. Cells the page did not have are absent.
type Row struct {
	cells map[string]*goquery.Selection
}

// ReadRow looks up the anchor once under root and resolves every column from
// it. Only a missing anchor is an error; missing cells surface when read.
func ReadRow(root *goquery.Selection, field, anchor string, columns []Column) (Row, error) {
	if root == nil || root.Length() == 0 {
		return Row{}, &FieldError{Field: field, Step: "root", Err: ErrFieldNotFound}
	}

	matches := root.Find(anchor)
	if matches.Length() == 0 {
		return Row{}, &FieldError{Field: field, Step: anchor, Err: ErrFieldNotFound}
	}

	row := Row{cells: make(map[string]*goquery.Selection, len(columns))}
	first := matches.First()
	for _, col := range columns {
		var cell *goquery.Selection
		if col.FromEnd {
			idx := matches.Length() - 1 - col.Offset
			if idx < 0 {
				continue
			}
			cell = matches.Eq(idx)
		} else {
			cell = sibling(first, col.Offset)
		}
		if cell.Length() > 0 {
			row.cells[col.Name] = cell
		}
	}
	return row, nil
}

// Cell returns the selection for a column.
func (r Row) Cell(name string) (*goquery.Selection, error) {
	cell, ok := r.cells[name]
	if !ok {
		return nil, &FieldError{Field: name, Err: ErrFieldNotFound}
	}
	return cell, nil
}

// Text returns a cell's normalized text.
func (r Row) Text(name string) (string, error) {
	cell, err := r.Cell(name)
	if err != nil {
		return "", err
	}
	return NormalizeSpace(cell.Text()), nil
}

// OwnText returns a cell's own text.
func (r Row) OwnText(name string) (string, error) {
	cell, err := r.Cell(name)
	if err != nil {
		return "", err
	}
	return OwnText(cell), nil
}

// Abbreviated returns a cell cleaned with CleanAbbreviated.
func (r Row) Abbreviated(name string) (string, error) {
	text, err := r.Text(name)
	if err != nil {
		return "", err
	}
	return CleanAbbreviated(text), nil
}

// Int parses a cell as an integer.
func (r Row) Int(name string) (int, error) {
	text, err := r.Text(name)
	if err != nil {
		return 0, err
	}
	n, err := ParseInt(text)
	if err != nil {
		return 0, named(name, err)
	}
	return n, nil
}

// Int64 parses a cell as a 64-bit integer.
func (r Row) Int64(name string) (int64, error) {
	text, err := r.Text(name)
	if err != nil {
		return 0, err
	}
	n, err := ParseInt64(text)
	if err != nil {
		return 0, named(name, err)
	}
	return n, nil
}
