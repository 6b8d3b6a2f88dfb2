/*
 * smiles.go, part of somngo.
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
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	chem "github.com/rmera/somngo"
	"github.com/rmera/somngo/babel"
	"github.com/rmera/somngo/cdxml"
	"github.com/rmera/somngo/data"
)

//SMILESCollection is the name of the collections built from SMILES.
const SMILESCollection = "from_smi_hadd"

//FromCDXML reads the structures in the CDXML file path. They are named with the parser's
//prefix followed by their 1-based position in the file.
func (P *Parser) FromCDXML(ctx context.Context, path string) (*Result, error) {
	if !strings.EqualFold(filepath.Ext(path), ".cdxml") {
		return nil, chem.NewError(chem.ErrBadExtension, path, "cdxml path not specified - wrong extension", "Parser.FromCDXML")
	}
	col, err := cdxml.ReadFile(path, P.prefix)
	if err != nil {
		return nil, chem.ErrDecorate(err, "Parser.FromCDXML")
	}
	P.log(ctx).Info("read CDXML file", "path", path, "molecules", col.Len())
	return &Result{Collection: col}, nil
}

//FromSMILES builds a 3D structure with explicit hydrogens from smiles, with the fastest preset.
//The molecule is named after the parser's SMILES base name.
func (P *Parser) FromSMILES(ctx context.Context, smiles string) (*Result, error) {
	name := P.baseName()
	mol, err := P.builder.FromSMILES(ctx, smiles, name, babel.Fastest)
	if err != nil {
		return nil, smilesError(smiles, err, "Parser.FromSMILES")
	}
	mol.Name = name
	mols := []*chem.Molecule{mol}
	if err := P.write(mols, "smiles_preopt"); err != nil {
		return nil, chem.ErrDecorate(err, "Parser.FromSMILES")
	}
	return &Result{Collection: chem.NewCollection(SMILESCollection, mols)}, nil
}

//FromSMILESList builds a 3D structure with explicit hydrogens for each SMILES in smiles, with the best preset.
//If names has the same length as smiles, molecule i is named with the parser's prefix followed by names[i].
//Otherwise, the molecules are named with the SMILES base name followed by _1, _2..., and, if names
//was given, a notice is returned. A single SMILES that can't be converted aborts the whole list.
func (P *Parser) FromSMILESList(ctx context.Context, smiles, names []string) (*Result, error) {
	res := new(Result)
	if names != nil && len(names) != len(smiles) {
		res.Notices = append(res.Notices, P.notice(ctx, StageSMILES, fmt.Sprintf("list of %d names is not the same length as the %d input SMILES; enumerating structures instead", len(names), len(smiles))))
		names = nil
	}
	base := P.baseName()
	mols := make([]*chem.Molecule, 0, len(smiles))
	for i, smi := range smiles {
		name := fmt.Sprintf("%s_%d", base, i+1)
		if names != nil {
			name = P.prefix + names[i]
		}
		P.log(ctx).Debug("building structure", "index", i, "smiles", smi, "name", name)
		mol, err := P.builder.FromSMILES(ctx, smi, name, babel.Best)
		if err != nil {
			return nil, smilesError(smi, err, "Parser.FromSMILESList")
		}
		mol.Name = name
		mols = append(mols, mol)
	}
	if err := P.write(mols, "smiles_preopt"); err != nil {
		return nil, chem.ErrDecorate(err, "Parser.FromSMILESList")
	}
	res.Collection = chem.NewCollection(SMILESCollection, mols)
	return res, nil
}

//FromSMILESTable reads SMILES, and optionally names, from a CSV or XLSX table, and builds
//them as FromSMILESList does. The first column after the index holds the SMILES, the second,
//if present, the names.
func (P *Parser) FromSMILESTable(ctx context.Context, path string) (*Result, error) {
	T, err := data.ReadFile(path, "")
	if err != nil {
		return nil, chem.ErrDecorate(err, "Parser.FromSMILESTable")
	}
	_, c := T.Dims()
	if c == 0 {
		return nil, chem.NewError(chem.ErrParse, path, "No SMILES column", "Parser.FromSMILESTable")
	}
	smiles, _ := T.Column(T.Columns[0])
	var names []string
	if c > 1 {
		names, _ = T.Column(T.Columns[1])
		for i, v := range names {
			names[i] = strings.TrimSpace(v)
		}
	}
	res, err := P.FromSMILESList(ctx, smiles, names)
	return res, chem.ErrDecorate(err, "Parser.FromSMILESTable")
}

//smilesError turns a conversion failure into a parse error. Errors that already have
//a kind keep it.
func smilesError(smiles string, err error, caller string) error {
	if errors.Is(err, chem.ErrParse) || errors.Is(err, chem.ErrExternal) {
		return chem.ErrDecorate(err, caller)
	}
	return chem.WrapError(chem.ErrParse, "", fmt.Errorf("failed to parse smiles string %q; check format for errors: %w", smiles, err), caller)
}
