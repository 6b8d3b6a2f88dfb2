/*
 * serialize.go, part of somngo.
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
	"fmt"
	"os"
	"path/filepath"

	chem "github.com/rmera/somngo"
)

//write serializes mols as <outdir>/<name>_<tag>.mol2, if serialization is on.
func (P *Parser) write(mols []*chem.Molecule, tag string) error {
	if !P.serialize || len(mols) == 0 {
		return nil
	}
	if err := os.MkdirAll(P.outDir, 0o755); err != nil {
		return chem.WrapError(chem.ErrExternal, P.outDir, err, "write")
	}
	for _, mol := range mols {
		if err := chem.Mol2FileWrite(P.Path(mol, tag), mol); err != nil {
			return chem.ErrDecorate(err, "write")
		}
	}
	return nil
}

//writeStage serializes the failures of res with the tag <stage>_err and its collection with <stage>_suc.
func (P *Parser) writeStage(res *Result, stage string) error {
	failed := make([]*chem.Molecule, 0, len(res.Failures))
	for _, f := range res.Failures {
		failed = append(failed, f.Molecule)
	}
	if err := P.write(failed, stage+"_err"); err != nil {
		return err
	}
	return P.write(res.Collection.Molecules, stage+"_suc")
}

//Path returns the file where mol is serialized with the tag tag.
func (P *Parser) Path(mol *chem.Molecule, tag string) string {
	return filepath.Join(P.outDir, fmt.Sprintf("%s_%s.mol2", mol.Name, tag))
}
