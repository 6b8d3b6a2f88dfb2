/*
 * feather.go, part of somngo.
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
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"
	chem "github.com/rmera/somngo"
)

//IndexColumn is the name of the Feather column holding the row labels.
const IndexColumn = "index"

//LabelsColumn is the name of the only column of the label files written with OrientBoth.
const LabelsColumn = "labels"

//Orient selects how a table is laid out in a Feather file.
type Orient int

const (
	OrientDefault Orient = iota //same as OrientColumn
	OrientColumn                //the table as it is
	OrientIndex                 //transposed, one on-disk column per row
	OrientBoth                  //transposed, plus a file with the labels of the longer axis
)

func (o Orient) String() string {
	switch o {
	case OrientColumn:
		return "column"
	case OrientIndex:
		return "index"
	case OrientBoth:
		return "both"
	default:
		return ""
	}
}

//ParseOrient returns the orientation called s: "", "column", "index" or "both".
func ParseOrient(s string) (Orient, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return OrientDefault, nil
	case "column":
		return OrientColumn, nil
	case "index":
		return OrientIndex, nil
	case "both":
		return OrientBoth, nil
	}
	return OrientDefault, chem.NewError(chem.ErrBadConfig, "", fmt.Sprintf("Unknown orientation %q, use index, column or both", s), "ParseOrient")
}

//ToFeather writes the table of the handler to path with the orientation orient.
//With OrientBoth, the labels of the longer axis of the table (the column labels,
//on ties) are also written to <base>_cols<ext>.
func (H *Handler) ToFeather(path string, orient Orient) error {
	switch orient {
	case OrientDefault, OrientColumn:
		return chem.ErrDecorate(WriteFeather(path, H.table), "ToFeather")
	case OrientIndex:
		return chem.ErrDecorate(WriteFeather(path, H.table.Transpose()), "ToFeather")
	case OrientBoth:
		if err := WriteFeather(path, H.table.Transpose()); err != nil {
			return chem.ErrDecorate(err, "ToFeather")
		}
		r, c := H.table.Dims()
		labels := H.table.Columns
		if r > c {
			labels = H.table.Index
		}
		return chem.ErrDecorate(writeLabels(ColsName(path), labels), "ToFeather")
	default:
		return chem.NewError(chem.ErrBadConfig, path, fmt.Sprintf("Unknown orientation %d", orient), "ToFeather")
	}
}

//ColsName returns the name of the label file written next to path with OrientBoth.
func ColsName(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_cols" + ext
}

//WriteFeather writes T to path as a Feather (Arrow IPC) file. The first column, "index",
//holds the row labels. Columns where every non-empty cell is a number are stored as
//float64, the rest as strings. Empty cells are stored as nulls.
func WriteFeather(path string, T *Table) error {
	_, c := T.Dims()
	fields := make([]arrow.Field, 0, c+1)
	fields = append(fields, arrow.Field{Name: IndexColumn, Type: arrow.BinaryTypes.String})
	numeric := make([]bool, c)
	for j, name := range T.Columns {
		numeric[j] = T.numeric(j)
		typ := arrow.DataType(arrow.BinaryTypes.String)
		if numeric[j] {
			typ = arrow.PrimitiveTypes.Float64
		}
		fields = append(fields, arrow.Field{Name: name, Type: typ, Nullable: true})
	}
	schema := arrow.NewSchema(fields, nil)
	mem := memory.NewGoAllocator()
	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()
	b.Field(0).(*array.StringBuilder).AppendValues(T.Index, nil)
	for j := range T.Columns {
		for _, row := range T.Cells {
			v := strings.TrimSpace(row[j])
			if numeric[j] {
				fb := b.Field(j + 1).(*array.Float64Builder)
				if v == "" {
					fb.AppendNull()
					continue
				}
				f, _ := strconv.ParseFloat(v, 64)
				fb.Append(f)
				continue
			}
			sb := b.Field(j + 1).(*array.StringBuilder)
			if row[j] == "" {
				sb.AppendNull()
				continue
			}
			sb.Append(row[j])
		}
	}
	rec := b.NewRecord()
	defer rec.Release()
	return writeRecord(path, schema, mem, rec)
}

//writeLabels writes labels as a single string column.
func writeLabels(path string, labels []string) error {
	schema := arrow.NewSchema([]arrow.Field{{Name: LabelsColumn, Type: arrow.BinaryTypes.String}}, nil)
	mem := memory.NewGoAllocator()
	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()
	b.Field(0).(*array.StringBuilder).AppendValues(labels, nil)
	rec := b.NewRecord()
	defer rec.Release()
	return writeRecord(path, schema, mem, rec)
}

func writeRecord(path string, schema *arrow.Schema, mem memory.Allocator, rec arrow.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return chem.WrapError(chem.ErrExternal, path, err, "writeRecord")
	}
	defer f.Close()
	w, err := ipc.NewFileWriter(f, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	if err != nil {
		return chem.WrapError(chem.ErrExternal, path, err, "writeRecord")
	}
	if err := w.Write(rec); err != nil {
		w.Close()
		return chem.WrapError(chem.ErrExternal, path, err, "writeRecord")
	}
	if err := w.Close(); err != nil {
		return chem.WrapError(chem.ErrExternal, path, err, "writeRecord")
	}
	return nil
}

//ReadFeather reads a Feather file as it is on disk, without transposing it.
//The column called "index", or the first one if there is none, gives the row labels.
//Nulls become empty cells.
func ReadFeather(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, chem.WrapError(chem.ErrMissingFile, path, err, "ReadFeather")
	}
	defer f.Close()
	r, err := ipc.NewFileReader(f, ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, chem.WrapError(chem.ErrParse, path, err, "ReadFeather")
	}
	defer r.Close()
	schema := r.Schema()
	idx := 0
	if found := schema.FieldIndices(IndexColumn); len(found) > 0 {
		idx = found[0]
	}
	T := &Table{IndexName: schema.Field(idx).Name}
	for j, fld := range schema.Fields() {
		if j != idx {
			T.Columns = append(T.Columns, fld.Name)
		}
	}
	for n := 0; n < r.NumRecords(); n++ {
		rec, err := r.Record(n)
		if err != nil {
			return nil, chem.WrapError(chem.ErrParse, path, err, "ReadFeather")
		}
		for i := 0; i < int(rec.NumRows()); i++ {
			row := make([]string, 0, len(T.Columns))
			for j := 0; j < int(rec.NumCols()); j++ {
				v := cell(rec.Column(j), i)
				if j == idx {
					T.Index = append(T.Index, v)
					continue
				}
				row = append(row, v)
			}
			T.Cells = append(T.Cells, row)
		}
	}
	return T, nil
}

//ReadLabels reads a label file written with OrientBoth.
func ReadLabels(path string) ([]string, error) {
	T, err := ReadFeather(path)
	if err != nil {
		return nil, chem.ErrDecorate(err, "ReadLabels")
	}
	return T.Index, nil
}

//cell returns the value in row i of arr as a string.
func cell(arr arrow.Array, i int) string {
	if arr.IsNull(i) {
		return ""
	}
	switch a := arr.(type) {
	case *array.String:
		return strings.Clone(a.Value(i))
	case *array.Float64:
		return strconv.FormatFloat(a.Value(i), 'g', -1, 64)
	default:
		return arr.ValueStr(i)
	}
}
