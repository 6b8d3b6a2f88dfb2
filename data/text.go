/*
 * text.go, part of somngo.
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
	"encoding/csv"
	"os"

	chem "github.com/rmera/somngo"
	"github.com/xuri/excelize/v2"
)

//ReadCSV reads a comma-separated file with a header row and an index column.
//Cells are kept as they are; only the handles are trimmed, by CleanupHandles.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, chem.WrapError(chem.ErrMissingFile, path, err, "ReadCSV")
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, chem.WrapError(chem.ErrParse, path, err, "ReadCSV")
	}
	T, err := fromRecords(records, path)
	if err != nil {
		return nil, chem.ErrDecorate(err, "ReadCSV")
	}
	return T, nil
}

//WriteCSV writes T as a comma-separated file with a header row and an index column.
func WriteCSV(path string, T *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return chem.WrapError(chem.ErrExternal, path, err, "WriteCSV")
	}
	defer f.Close()
	w := csv.NewWriter(f)
	w.Write(append([]string{T.IndexName}, T.Columns...))
	for i, row := range T.Cells {
		w.Write(append([]string{T.Index[i]}, row...))
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return chem.WrapError(chem.ErrExternal, path, err, "WriteCSV")
	}
	return nil
}

//ReadXLSX reads the sheet called sheet, or the first one if sheet is empty,
//from a workbook. The sheet must have a header row and an index column.
func ReadXLSX(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, chem.WrapError(chem.ErrParse, path, err, "ReadXLSX")
	}
	defer f.Close()
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, chem.NewError(chem.ErrParse, path, "Workbook without sheets", "ReadXLSX")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, chem.WrapError(chem.ErrParse, path, err, "ReadXLSX")
	}
	T, err := fromRecords(rows, path)
	if err != nil {
		return nil, chem.ErrDecorate(err, "ReadXLSX")
	}
	return T, nil
}
