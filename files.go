/*
 * files.go, part of somngo.
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

package chem

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	v3 "github.com/rmera/somngo/v3"
)

//XYZFileRead reads the first frame of the xyz file xyzname and returns it as a Molecule
//named after the comment line (or the file, if the comment is empty).
func XYZFileRead(xyzname string) (*Molecule, error) {
	xyzfile, err := os.Open(xyzname)
	if err != nil {
		return nil, WrapError(ErrMissingFile, xyzname, err, "XYZFileRead")
	}
	defer xyzfile.Close()
	mol, err := XYZRead(xyzfile)
	if err != nil {
		return nil, ErrDecorate(err, "XYZFileRead")
	}
	if mol.Name == "" {
		mol.Name = xyzname
	}
	return mol, nil
}

//XYZRead reads the first frame of an xyz stream.
func XYZRead(xyzp io.Reader) (*Molecule, error) {
	xyz := bufio.NewReader(xyzp)
	line, err := xyz.ReadString('\n')
	if err != nil {
		return nil, NewError(ErrParse, "", "Ill formatted XYZ file: no atom count", "XYZRead")
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || natoms <= 0 {
		return nil, NewError(ErrParse, "", "Ill formatted XYZ file: bad atom count", "XYZRead")
	}
	comment, err := xyz.ReadString('\n')
	if err != nil {
		return nil, NewError(ErrParse, "", "Ill formatted XYZ file: no comment line", "XYZRead")
	}
	atoms := make([]*Atom, natoms)
	coords := make([]float64, natoms*3)
	for i := 0; i < natoms; i++ {
		line, err = xyz.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return nil, NewError(ErrParse, "", fmt.Sprintf("XYZ file ended after %d of %d atoms", i, natoms), "XYZRead")
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, NewError(ErrParse, "", fmt.Sprintf("Line number %d ill formed", i+3), "XYZRead")
		}
		atoms[i] = new(Atom)
		atoms[i].Symbol = fields[0]
		atoms[i].Name = fields[0]
		atoms[i].Id = i + 1
		atoms[i].Mass = symbolMass[atoms[i].Symbol]
		for k := 0; k < 3; k++ {
			coords[i*3+k], err = strconv.ParseFloat(fields[k+1], 64)
			if err != nil {
				return nil, WrapError(ErrParse, "", err, "XYZRead")
			}
		}
	}
	mcoords, err := v3.NewMatrix(coords)
	if err != nil {
		return nil, WrapError(ErrParse, "", err, "XYZRead")
	}
	return NewMolecule(strings.TrimSpace(comment), NewTopology(atoms, 0, 0), mcoords)
}

//XYZFileWrite writes the coordinates coords for the atoms mol in an XYZ file with name xyzname which will
//be created for that. If the file exist it will be overwritten.
func XYZFileWrite(xyzname string, coords *v3.Matrix, mol Atomer) error {
	out, err := os.Create(xyzname)
	if err != nil {
		return WrapError(ErrExternal, xyzname, err, "XYZFileWrite")
	}
	defer out.Close()
	if err := XYZWrite(out, coords, mol); err != nil {
		return ErrDecorate(err, "XYZFileWrite")
	}
	return nil
}

//XYZWrite writes the coordinates coords for the atoms mol in XYZ format to out.
func XYZWrite(out io.Writer, coords *v3.Matrix, mol Atomer) error {
	if mol.Len() != coords.NVecs() {
		return NewError(ErrParse, "", fmt.Sprintf("Ref and Coords don't have the same number of atoms: %d vs %d", mol.Len(), coords.NVecs()), "XYZWrite")
	}
	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "%-4d\n\n", mol.Len())
	for i := 0; i < mol.Len(); i++ {
		fmt.Fprintf(w, "%-2s  %12.6f%12.6f%12.6f\n", mol.Atom(i).Symbol, coords.At(i, 0), coords.At(i, 1), coords.At(i, 2))
	}
	if err := w.Flush(); err != nil {
		return WrapError(ErrExternal, "", err, "XYZWrite")
	}
	return nil
}
