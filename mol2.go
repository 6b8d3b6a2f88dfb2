/*
 * mol2.go, part of somngo.
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
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	v3 "github.com/rmera/somngo/v3"
)

const (
	mol2Molecule = "@<TRIPOS>MOLECULE"
	mol2Atom     = "@<TRIPOS>ATOM"
	mol2Bond     = "@<TRIPOS>BOND"
	mol2Attr     = "@<TRIPOS>UNITY_ATOM_ATTR"
)

//Mol2FileRead reads all the molecules in the MOL2 file mol2name.
func Mol2FileRead(mol2name string) ([]*Molecule, error) {
	f, err := os.Open(mol2name)
	if err != nil {
		return nil, WrapError(ErrMissingFile, mol2name, err, "Mol2FileRead")
	}
	defer f.Close()
	mols, err := Mol2Read(f)
	if err != nil {
		return nil, ErrDecorate(err, "Mol2FileRead")
	}
	return mols, nil
}

//Mol2Read reads all the molecules in a MOL2 stream. Only the MOLECULE, ATOM, BOND
//and UNITY_ATOM_ATTR records are interpreted, the others are skipped. Formal charges
//are read from the "charge" attributes of UNITY_ATOM_ATTR. The total charge of each
//molecule is the sum of the formal charges if any atom has one, and the rounded sum
//of the partial charges otherwise.
func Mol2Read(r io.Reader) ([]*Molecule, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	var mols []*Molecule
	var cur *mol2Builder
	section := ""
	molLine := 0
	lineno := 0
	flush := func() error {
		if cur == nil {
			return nil
		}
		mol, err := cur.build()
		if err != nil {
			return err
		}
		mols = append(mols, mol)
		cur = nil
		return nil
	}
	for sc.Scan() {
		lineno++
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "@<TRIPOS>") {
			section = trimmed
			if section == mol2Molecule {
				if err := flush(); err != nil {
					return nil, ErrDecorate(err, "Mol2Read")
				}
				cur = new(mol2Builder)
				molLine = 0
			}
			continue
		}
		if cur == nil || trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		var err error
		switch section {
		case mol2Molecule:
			molLine++
			if molLine == 1 {
				cur.name = trimmed
			}
		case mol2Atom:
			err = cur.atom(trimmed)
		case mol2Bond:
			err = cur.bond(trimmed)
		case mol2Attr:
			err = cur.attr(trimmed)
		}
		if err != nil {
			return nil, NewError(ErrParse, "", fmt.Sprintf("line %d: %s", lineno, err.Error()), "Mol2Read")
		}
	}
	if err := sc.Err(); err != nil {
		return nil, WrapError(ErrParse, "", err, "Mol2Read")
	}
	if err := flush(); err != nil {
		return nil, ErrDecorate(err, "Mol2Read")
	}
	if len(mols) == 0 {
		return nil, NewError(ErrParse, "", "no molecules in MOL2 input", "Mol2Read")
	}
	return mols, nil
}

//mol2Builder accumulates the records of one molecule.
type mol2Builder struct {
	name   string
	atoms  []*Atom
	ids    map[int]int //MOL2 atom id to position
	coords []float64
	bonds  [][2]int
	orders []float64
	types  []string
	attrAt int //position of the atom whose attributes are being read, -1 if none
	attrN  int //attribute lines left for that atom
}

func (B *mol2Builder) atom(line string) error {
	f := strings.Fields(line)
	if len(f) < 6 {
		return fmt.Errorf("ill formed atom record %q", line)
	}
	at := new(Atom)
	var err error
	if at.Id, err = strconv.Atoi(f[0]); err != nil {
		return err
	}
	at.Name = f[1]
	for k := 0; k < 3; k++ {
		c, err := strconv.ParseFloat(f[2+k], 64)
		if err != nil {
			return err
		}
		B.coords = append(B.coords, c)
	}
	at.Type = f[5]
	at.Symbol = symbolFromType(at.Type, at.Name)
	at.Mass = symbolMass[at.Symbol]
	if len(f) > 6 {
		at.Molid, _ = strconv.Atoi(f[6])
	}
	if len(f) > 7 {
		at.Molname = f[7]
	}
	if len(f) > 8 {
		if at.Charge, err = strconv.ParseFloat(f[8], 64); err != nil {
			return err
		}
	}
	if B.ids == nil {
		B.ids = make(map[int]int)
	}
	B.ids[at.Id] = len(B.atoms)
	B.atoms = append(B.atoms, at)
	return nil
}

func (B *mol2Builder) bond(line string) error {
	f := strings.Fields(line)
	if len(f) < 4 {
		return fmt.Errorf("ill formed bond record %q", line)
	}
	a1, err := strconv.Atoi(f[1])
	if err != nil {
		return err
	}
	a2, err := strconv.Atoi(f[2])
	if err != nil {
		return err
	}
	i, ok1 := B.ids[a1]
	j, ok2 := B.ids[a2]
	if !ok1 || !ok2 {
		return fmt.Errorf("bond %s refers to unknown atoms", f[0])
	}
	B.bonds = append(B.bonds, [2]int{i, j})
	B.orders = append(B.orders, bondOrder(f[3]))
	B.types = append(B.types, f[3])
	return nil
}

//attr reads a line of the UNITY_ATOM_ATTR section: either an "atom_id count" header,
//or one of the count attribute lines that follow it.
func (B *mol2Builder) attr(line string) error {
	f := strings.Fields(line)
	if B.attrN > 0 {
		B.attrN--
		if len(f) >= 2 && f[0] == "charge" && B.attrAt >= 0 {
			q, err := strconv.Atoi(f[1])
			if err != nil {
				return fmt.Errorf("bad formal charge %q", f[1])
			}
			B.atoms[B.attrAt].Formal = q
		}
		return nil
	}
	if len(f) < 2 {
		return fmt.Errorf("ill formed atom attribute record %q", line)
	}
	id, err := strconv.Atoi(f[0])
	if err != nil {
		return err
	}
	if B.attrN, err = strconv.Atoi(f[1]); err != nil {
		return err
	}
	B.attrAt = -1
	if i, ok := B.ids[id]; ok {
		B.attrAt = i
	}
	return nil
}

func (B *mol2Builder) build() (*Molecule, error) {
	if len(B.atoms) == 0 {
		return nil, NewError(ErrParse, "", fmt.Sprintf("molecule %q has no atoms", B.name), "build")
	}
	var q float64
	formal, hasFormal := 0, false
	for _, v := range B.atoms {
		q += v.Charge
		if v.Formal != 0 {
			hasFormal = true
		}
		formal += v.Formal
	}
	charge := int(math.Round(q))
	if hasFormal {
		charge = formal
	}
	top := NewTopology(B.atoms, charge, 0)
	for k, v := range B.bonds {
		if _, err := top.AddBond(v[0], v[1], B.orders[k], B.types[k]); err != nil {
			return nil, ErrDecorate(err, "build")
		}
	}
	coords, err := v3.NewMatrix(B.coords)
	if err != nil {
		return nil, WrapError(ErrParse, "", err, "build")
	}
	return NewMolecule(B.name, top, coords)
}

//symbolFromType guesses the element from a Tripos atom type, i.e. "C.ar"
//gives C. Dummy or missing types fall back to the leading letters of the atom name.
func symbolFromType(kind, name string) string {
	s := kind
	if i := strings.Index(s, "."); i >= 0 {
		s = s[:i]
	}
	if NumberFromSymbol(s) > 0 {
		return s
	}
	letters := strings.TrimRightFunc(name, func(r rune) bool { return r < 'A' || (r > 'Z' && r < 'a') || r > 'z' })
	for l := 2; l > 0; l-- {
		if len(letters) >= l {
			cand := strings.ToUpper(letters[:1]) + strings.ToLower(letters[1:l])
			if NumberFromSymbol(cand) > 0 {
				return cand
			}
		}
	}
	return s
}

func bondOrder(kind string) float64 {
	switch kind {
	case "1", "am":
		return 1
	case "2":
		return 2
	case "3":
		return 3
	case "ar":
		return 1.5
	}
	return 0
}

func bondType(b *Bond) string {
	if b.Type != "" {
		return b.Type
	}
	switch b.Order {
	case 1, 2, 3:
		return strconv.Itoa(int(b.Order))
	case 1.5:
		return "ar"
	}
	return "un"
}

//Mol2Write writes the frame frame of mol to out, in MOL2 format. Formal charges
//are written as "charge" attributes in a UNITY_ATOM_ATTR section.
func Mol2Write(out io.Writer, mol *Molecule, frame int) error {
	if err := mol.Corrupted(); err != nil {
		return ErrDecorate(err, "Mol2Write")
	}
	if frame >= mol.LenFrames() {
		return NewError(ErrUnsupportedInput, "", fmt.Sprintf("frame %d requested, %s has %d", frame, mol.Name, mol.LenFrames()), "Mol2Write")
	}
	mol.FillIndexes()
	coords := mol.Coords[frame]
	chargeType := "NO_CHARGES"
	for _, v := range mol.Atoms {
		if v.Charge != 0 {
			chargeType = "USER_CHARGES"
			break
		}
	}
	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "%s\n%s\n %d %d 1 0 0\nSMALL\n%s\n\n", mol2Molecule, mol.Name, mol.Len(), len(mol.Bonds), chargeType)
	fmt.Fprintf(w, "%s\n", mol2Atom)
	for i, at := range mol.Atoms {
		name := at.Name
		if name == "" {
			name = fmt.Sprintf("%s%d", at.Symbol, i+1)
		}
		kind := at.Type
		if kind == "" {
			kind = at.Symbol
		}
		molid := at.Molid
		if molid == 0 {
			molid = 1
		}
		molname := at.Molname
		if molname == "" {
			molname = "UNL1"
		}
		fmt.Fprintf(w, "%7d %-8s %10.4f %10.4f %10.4f %-6s %5d %-8s %9.4f\n", i+1, name, coords.At(i, 0), coords.At(i, 1), coords.At(i, 2), kind, molid, molname, at.Charge)
	}
	fmt.Fprintf(w, "%s\n", mol2Bond)
	for k, b := range mol.Bonds {
		fmt.Fprintf(w, "%6d %5d %5d %4s\n", k+1, b.At1.Index+1, b.At2.Index+1, bondType(b))
	}
	attrs := false
	for i, at := range mol.Atoms {
		if at.Formal == 0 {
			continue
		}
		if !attrs {
			fmt.Fprintf(w, "%s\n", mol2Attr)
			attrs = true
		}
		fmt.Fprintf(w, "%d 1\ncharge %d\n", i+1, at.Formal)
	}
	if err := w.Flush(); err != nil {
		return WrapError(ErrExternal, "", err, "Mol2Write")
	}
	return nil
}

//Mol2String returns the first frame of mol in MOL2 format.
func Mol2String(mol *Molecule) (string, error) {
	var b bytes.Buffer
	if err := Mol2Write(&b, mol, 0); err != nil {
		return "", ErrDecorate(err, "Mol2String")
	}
	return b.String(), nil
}

//Mol2FileWrite writes the first frame of mol to the file mol2name, which is
//created or truncated.
func Mol2FileWrite(mol2name string, mol *Molecule) error {
	out, err := os.Create(mol2name)
	if err != nil {
		return WrapError(ErrExternal, mol2name, err, "Mol2FileWrite")
	}
	defer out.Close()
	if err := Mol2Write(out, mol, 0); err != nil {
		return ErrDecorate(err, "Mol2FileWrite")
	}
	return out.Close()
}
