/*
 * data.go, part of somngo.
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

//Package data loads tabular experimental data (CSV, XLSX or Feather) into a Table,
//cleans the row labels and writes the result back to Feather.
//
//CSV and XLSX files must have a header row and an index column. Feather files are
//assumed to store the table transposed, so each on-disk column is one row of the table.
package data

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	chem "github.com/rmera/somngo"
)

//Source is where a table comes from. It is either a File or an InMemory table.
type Source interface {
	isSource()
}

//File is a table stored in a file. The format is given by the extension.
type File struct {
	Path string
}

//InMemory is a table that is already loaded.
type InMemory struct {
	Table *Table
}

func (File) isSource()     {}
func (InMemory) isSource() {}

//Handler holds a loaded and cleaned table.
type Handler struct {
	table *Table
	name  string
	sheet string
}

//LoadOption configures Load.
type LoadOption func(*Handler)

//WithSheet selects the sheet read from XLSX files. The default is the first one.
func WithSheet(name string) LoadOption {
	return func(H *Handler) { H.sheet = name }
}

//WithName sets the name of the dataset.
func WithName(name string) LoadOption {
	return func(H *Handler) { H.name = name }
}

//Load reads the table from src and cleans its handles (see CleanupHandles).
func Load(src Source, opts ...LoadOption) (*Handler, error) {
	H := new(Handler)
	for _, o := range opts {
		o(H)
	}
	var T *Table
	var err error
	switch s := src.(type) {
	case InMemory:
		if s.Table == nil {
			return nil, chem.NewError(chem.ErrUnsupportedInput, "", "Nil in-memory table", "data.Load")
		}
		if err := s.Table.Check(); err != nil {
			return nil, chem.ErrDecorate(err, "data.Load")
		}
		T = s.Table.Copy()
	case File:
		T, err = ReadFile(s.Path, H.sheet)
		if err != nil {
			return nil, chem.ErrDecorate(err, "data.Load")
		}
	default:
		return nil, chem.NewError(chem.ErrUnsupportedInput, "", fmt.Sprintf("Cannot parse input type %T", src), "data.Load")
	}
	H.table = CleanupHandles(T)
	return H, nil
}

//ReadFile reads a table from a file, choosing the reader by extension. sheet is only used
//for XLSX files. Unlike Load, it doesn't clean the handles.
func ReadFile(path, sheet string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, chem.WrapError(chem.ErrMissingFile, path, err, "ReadFile")
		}
		return nil, chem.WrapError(chem.ErrUnsupportedInput, path, err, "ReadFile")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(path)
	case ".xlsx":
		return ReadXLSX(path, sheet)
	case ".feather":
		T, err := ReadFeather(path)
		if err != nil {
			return nil, err
		}
		return T.Transpose(), nil
	default:
		return nil, chem.NewError(chem.ErrBadExtension, path, "Expected .csv, .xlsx or .feather", "ReadFile")
	}
}

//Table returns the table held by the handler.
func (H *Handler) Table() *Table {
	return H.table
}

//Name returns the name of the dataset, if one was set.
func (H *Handler) Name() string {
	return H.name
}

//Handles returns the row labels of the table.
func (H *Handler) Handles() []string {
	return append([]string(nil), H.table.Index...)
}

//CleanupHandles cleans the handles of the table again, for instance after the
//table was modified in place.
func (H *Handler) CleanupHandles() {
	H.table = CleanupHandles(H.table)
}
