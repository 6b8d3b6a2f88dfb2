/*
 * bonds.go, part of somngo.
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
	"fmt"
	"sort"

	v3 "github.com/rmera/somngo/v3"
)

//constants from DOI:10.1186/1758-2946-3-33
const (
	tooclose = 0.63
	bondtol  = 0.45
)

//Bond joins two atoms of a topology.
type Bond struct {
	Index int
	At1   *Atom
	At2   *Atom
	Dist  float64
	Order float64 //Order 0 means undetermined, 1.5 aromatic.
	Type  string  //Tripos bond type (1, 2, 3, ar, am...), kept for writing.
}

//Cross returns the atom bonded to origin through B
func (B *Bond) Cross(origin *Atom) *Atom {
	if origin == B.At1 {
		return B.At2
	}
	if origin == B.At2 {
		return B.At1
	}
	panic("Trying to cross a bond: The origin atom given is not present in the bond!") //a programming error, so a panic is warranted.
}

//key returns the (lower, higher) pair of atom indexes of the bond.
func (B *Bond) key() [2]int {
	i, j := B.At1.Index, B.At2.Index
	if i > j {
		i, j = j, i
	}
	return [2]int{i, j}
}

//PerceiveBonds returns the pairs of atom indexes (lower index first) that are bonded
//according to a simple distance criterium, similar to that described in DOI:10.1186/1758-2946-3-33
//The topology is not modified.
func PerceiveBonds(coord *v3.Matrix, mol Atomer) ([][2]int, error) {
	//might get slow for large systems. It's really not thought
	//for proteins or macromolecules.
	tot := mol.Len()
	if coord.NVecs() != tot {
		return nil, NewError(ErrParse, "", fmt.Sprintf("%d coordinates for %d atoms", coord.NVecs(), tot), "PerceiveBonds")
	}
	type cand struct {
		i, j int
		d    float64
	}
	perAtom := make([][]cand, tot)
	for i := 0; i < tot; i++ {
		at1 := mol.Atom(i)
		cov1 := symbolCovrad[at1.Symbol]
		if cov1 == 0 {
			return nil, NewError(ErrParse, "", fmt.Sprintf("Couldn't find the covalent radii for %s %d", at1.Symbol, i), "PerceiveBonds")
		}
		for j := i + 1; j < tot; j++ {
			at2 := mol.Atom(j)
			cov2 := symbolCovrad[at2.Symbol]
			if cov2 == 0 {
				return nil, NewError(ErrParse, "", fmt.Sprintf("Couldn't find the covalent radii for %s %d", at2.Symbol, j), "PerceiveBonds")
			}
			d := coord.Dist(i, j)
			if d < cov1+cov2+bondtol && d > tooclose {
				c := cand{i, j, d}
				perAtom[i] = append(perAtom[i], c)
				perAtom[j] = append(perAtom[j], c)
			}
		}
	}
	//Now we check that no atom has too many bonds, removing the longest ones.
	removed := make(map[[2]int]bool)
	for i := 0; i < tot; i++ {
		max := symbolMaxBonds[mol.Atom(i).Symbol]
		if max == 0 { //means there is not a specified number of bonds for this atom.
			continue
		}
		bs := make([]cand, 0, len(perAtom[i]))
		for _, c := range perAtom[i] {
			if !removed[[2]int{c.i, c.j}] {
				bs = append(bs, c)
			}
		}
		sort.Slice(bs, func(a, b int) bool { return bs[a].d < bs[b].d })
		for k := max; k < len(bs); k++ {
			removed[[2]int{bs[k].i, bs[k].j}] = true
		}
	}
	ret := make([][2]int, 0, tot)
	for i := 0; i < tot; i++ {
		for _, c := range perAtom[i] {
			if c.i == i && !removed[[2]int{c.i, c.j}] {
				ret = append(ret, [2]int{c.i, c.j})
			}
		}
	}
	return ret, nil
}

//SameConnectivity returns true if the bonds perceived from coord are exactly the bonds
//declared in the topology of mol. A topology without bonds is always considered
//consistent, as there is nothing to compare with.
func SameConnectivity(mol *Molecule, coord *v3.Matrix) (bool, error) {
	if len(mol.Bonds) == 0 {
		return true, nil
	}
	mol.FillIndexes()
	perceived, err := PerceiveBonds(coord, mol)
	if err != nil {
		return false, ErrDecorate(err, "SameConnectivity")
	}
	if len(perceived) != len(mol.Bonds) {
		return false, nil
	}
	declared := make(map[[2]int]bool, len(mol.Bonds))
	for _, b := range mol.Bonds {
		declared[b.key()] = true
	}
	for _, p := range perceived {
		if !declared[p] {
			return false, nil
		}
	}
	return true, nil
}
