/*
 * table.go, part of somngo.
 *
 * Copyright 2024 The somngo Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package data

import (
	"fmt"
	"strconv"
	"strings"

	chem "github.com/rmera/somngo"
)

//Table is a labelled table of cells kept as strings. Index holds the row labels (the handles)
//and Columns the column labels. Cells[i][j] is the cell in row i, column j.
//Numeric interpretation is done on demand.
type Table struct {
	IndexName string
	Index     []string
	Columns   []string
	Cells     [][]string
}

//NewTable returns a table with the given labels and cells, checking that the
//dimensions agree. The slices are not copied.
func NewTable(index, columns []string, cells [][]string) (*Table, error) {
	T := &Table{Index: index, Columns: columns, Cells: cells}
	if err := T.Check(); err != nil {
		return nil, chem.ErrDecorate(err, "NewTable")
	}
	return T, nil
}

//Check returns an error of kind chem.ErrUnsupportedInput if the row labels don't
//match the rows, or a row doesn't have one cell per column.
func (T *Table) Check() error {
	if len(T.Cells) != len(T.Index) {
		return chem.NewError(chem.ErrUnsupportedInput, "", fmt.Sprintf("%d row labels for %d rows", len(T.Index), len(T.Cells)), "Table.Check")
	}
	for i, row := range T.Cells {
		if len(row) != len(T.Columns) {
			return chem.NewError(chem.ErrUnsupportedInput, "", fmt.Sprintf("Row %d has %d cells, expected %d", i, len(row), len(T.Columns)), "Table.Check")
		}
	}
	return nil
}

//Dims returns the number of rows and columns of the table.
func (T *Table) Dims() (int, int) {
	return len(T.Index), len(T.Columns)
}

//Copy returns a deep copy of the table.
func (T *Table) Copy() *Table {
	ret := &Table{IndexName: T.IndexName}
	ret.Index = append([]string(nil), T.Index...)
	ret.Columns = append([]string(nil), T.Columns...)
	ret.Cells = make([][]string, len(T.Cells))
	for i, row := range T.Cells {
		ret.Cells[i] = append([]string(nil), row...)
	}
	return ret
}

//Transpose returns a new table where rows become columns and columns become rows.
func (T *Table) Transpose() *Table {
	r, c := T.Dims()
	ret := &Table{Index: append([]string(nil), T.Columns...), Columns: append([]string(nil), T.Index...)}
	ret.Cells = make([][]string, c)
	for j := 0; j < c; j++ {
		ret.Cells[j] = make([]string, r)
		for i := 0; i < r; i++ {
			ret.Cells[j][i] = T.Cells[i][j]
		}
	}
	return ret
}

//ColumnIndex returns the position of the column called name, or -1.
func (T *Table) ColumnIndex(name string) int {
	for i, v := range T.Columns {
		if v == name {
			return i
		}
	}
	return -1
}

//Column returns a copy of the cells of the column called name.
func (T *Table) Column(name string) ([]string, error) {
	j := T.ColumnIndex(name)
	if j < 0 {
		return nil, chem.NewError(chem.ErrUnsupportedInput, "", fmt.Sprintf("No column %q", name), "Column")
	}
	ret := make([]string, len(T.Cells))
	for i, row := range T.Cells {
		ret[i] = row[j]
	}
	return ret, nil
}

//Floats returns the numeric values of the column called name, together with the
//handles of the rows they come from. Empty cells are skipped. A non-empty cell that
//is not a number is an error.
func (T *Table) Floats(name string) ([]float64, []string, error) {
	col, err := T.Column(name)
	if err != nil {
		return nil, nil, chem.ErrDecorate(err, "Floats")
	}
	vals := make([]float64, 0, len(col))
	handles := make([]string, 0, len(col))
	for i, v := range col {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, nil, chem.NewError(chem.ErrParse, "", fmt.Sprintf("Cell %q of row %s, column %s is not a number", v, T.Index[i], name), "Floats")
		}
		vals = append(vals, f)
		handles = append(handles, T.Index[i])
	}
	return vals, handles, nil
}

//numeric returns true if every non-empty cell in column j parses as a float,
//and there is at least one such cell.
func (T *Table) numeric(j int) bool {
	found := false
	for _, row := range T.Cells {
		v := strings.TrimSpace(row[j])
		if v == "" {
			continue
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return false
		}
		found = true
	}
	return found
}

//fromRecords builds a table from records where the first one is the header and
//the first field of each record is the row label. Short records are padded with
//empty cells, and long ones truncated.
func fromRecords(records [][]string, filename string) (*Table, error) {
	if len(records) == 0 {
		return nil, chem.NewError(chem.ErrParse, filename, "No header row", "fromRecords")
	}
	header := records[0]
	if len(header) == 0 {
		return nil, chem.NewError(chem.ErrParse, filename, "Empty header row", "fromRecords")
	}
	T := &Table{IndexName: header[0], Columns: append([]string(nil), header[1:]...)}
	ncols := len(T.Columns)
	for _, rec := range records[1:] {
		if len(rec) == 0 {
			continue
		}
		row := make([]string, ncols)
		if len(rec) > 1 {
			copy(row, rec[1:])
		}
		T.Index = append(T.Index, rec[0])
		T.Cells = append(T.Cells, row)
	}
	return T, nil
}
