/*
 * input.go, part of somngo.
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

package parsing

import (
	"context"
	"fmt"

	chem "github.com/rmera/somngo"
)

//Input is one of CDXMLFile, SMILES, SMILESList or SMILESTable.
type Input interface {
	isInput()
}

//CDXMLFile is a ChemDraw XML file with one or more structures.
type CDXMLFile struct {
	Path string
}

//SMILES is a single SMILES string.
type SMILES struct {
	Value string
}

//SMILESList is a list of SMILES strings, with optional names.
type SMILESList struct {
	Values []string
	Names  []string
}

//SMILESTable is a CSV or XLSX file with a header row and an index column, followed by
//a column of SMILES and, optionally, a column of names.
type SMILESTable struct {
	Path string
}

func (CDXMLFile) isInput()   {}
func (SMILES) isInput()      {}
func (SMILESList) isInput()  {}
func (SMILESTable) isInput() {}

//Parse converts in into a collection of molecules.
func (P *Parser) Parse(ctx context.Context, in Input) (*Result, error) {
	var res *Result
	var err error
	switch v := in.(type) {
	case CDXMLFile:
		res, err = P.FromCDXML(ctx, v.Path)
	case SMILES:
		res, err = P.FromSMILES(ctx, v.Value)
	case SMILESList:
		res, err = P.FromSMILESList(ctx, v.Values, v.Names)
	case SMILESTable:
		res, err = P.FromSMILESTable(ctx, v.Path)
	default:
		return nil, chem.NewError(chem.ErrUnsupportedInput, "", fmt.Sprintf("Cannot parse input of type %T", in), "Parser.Parse")
	}
	return res, chem.ErrDecorate(err, "Parser.Parse")
}

//Prepare readies the collection col, parsed from in, for later calculations. Structures
//built from SMILES already carry explicit hydrogens, so they are only pre-optimized.
//Structures read from CDXML go through PrepCollection. The notices of res are kept.
func (P *Parser) Prepare(ctx context.Context, in Input, res *Result, update int) (*Result, error) {
	if res == nil {
		return nil, chem.NewError(chem.ErrUnsupportedInput, "", "Nil result", "Parser.Prepare")
	}
	var prep *Result
	var err error
	switch in.(type) {
	case CDXMLFile:
		prep, err = P.PrepCollection(ctx, res.Collection, update)
	case SMILES, SMILESList, SMILESTable:
		prep, err = P.PreoptGeom(ctx, res.Collection, update)
	default:
		return nil, chem.NewError(chem.ErrUnsupportedInput, "", fmt.Sprintf("Cannot prepare input of type %T", in), "Parser.Prepare")
	}
	if err != nil {
		return nil, chem.ErrDecorate(err, "Parser.Prepare")
	}
	return &Result{
		Collection: prep.Collection,
		Failures:   append(append([]Failure(nil), res.Failures...), prep.Failures...),
		Notices:    append(append([]Notice(nil), res.Notices...), prep.Notices...),
	}, nil
}
