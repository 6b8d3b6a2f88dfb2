/*
 * chem.go, part of somngo.
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

	v3 "github.com/rmera/somngo/v3"
)

/**Note: Many funcitons here panic instead of returning errors. This is because they are "fundamental"
 * functions. If something goes wrong here, the program is most likely wrong and should
 * crash. Most panics are related to using the function on a nil object or trying to access out-of bounds
 * fields**/

//Atom contains the atoms read except for the coordinates, which will be in a matrix.
type Atom struct {
	Name    string
	Id      int    //1-based, as in the MOL2 file.
	Index   int    //0-based position in the topology, filled by FillIndexes.
	Type    string //Tripos atom type, i.e. C.3, N.ar.
	Molid   int    //substructure id
	Molname string //substructure name
	Mass    float64
	Charge  float64 //partial charge
	Formal  int     //formal charge, when known.
	Symbol  string
	Bonds   []*Bond
}

//Copy returns a copy of the Atom object. Bonds are not copied.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	Newat := new(Atom)
	*Newat = *A
	Newat.Bonds = nil
	return Newat
}

/*****Topology type***/

//Topology contains information about a molecule which is not expected to change in time (i.e. everything except for coordinates)
type Topology struct {
	Atoms    []*Atom
	Bonds    []*Bond
	charge   int
	unpaired int
}

//NewTopology makes a topology with ats atoms, charge charge and unpaired unpaired electrons.
//It doesnt check for correct charge or unpaired electrons.
func NewTopology(ats []*Atom, charge, unpaired int) *Topology {
	top := new(Topology)
	top.Atoms = ats
	top.charge = charge
	top.unpaired = unpaired
	top.FillIndexes()
	return top
}

//Charge gets the total charge of the topology
func (T *Topology) Charge() int {
	return T.charge
}

//Unpaired gets the number of unpaired electrons in the topology
func (T *Topology) Unpaired() int {
	return T.unpaired
}

//Multi returns the multiplicity of the topology
func (T *Topology) Multi() int {
	return T.unpaired + 1
}

//SetCharge sets the total charge of the topology to i
func (T *Topology) SetCharge(i int) {
	T.charge = i
}

//SetUnpaired sets the number of unpaired electrons in the topology to i
func (T *Topology) SetUnpaired(i int) {
	T.unpaired = i
}

//FillIndexes sets the Index field of each atom to its position in the topology.
func (T *Topology) FillIndexes() {
	for i, v := range T.Atoms {
		v.Index = i
	}
}

//Atom returns the Atom corresponding to the index i
//of the Atom slice in the Topology. Panics if
//out of range.
func (T *Topology) Atom(i int) *Atom {
	if i >= T.Len() {
		panic("Topology: Requested Atom out of bounds")
	}
	return T.Atoms[i]
}

//Len returns the length of the topology.
func (T *Topology) Len() int {
	return len(T.Atoms)
}

//AddBond bonds the atoms in positions i and j, with the given order and Tripos type.
func (T *Topology) AddBond(i, j int, order float64, kind string) (*Bond, error) {
	if i < 0 || j < 0 || i >= T.Len() || j >= T.Len() || i == j {
		return nil, NewError(ErrParse, "", fmt.Sprintf("invalid bond between atoms %d and %d", i, j), "AddBond")
	}
	b := &Bond{Index: len(T.Bonds), At1: T.Atoms[i], At2: T.Atoms[j], Order: order, Type: kind}
	T.Atoms[i].Bonds = append(T.Atoms[i].Bonds, b)
	T.Atoms[j].Bonds = append(T.Atoms[j].Bonds, b)
	T.Bonds = append(T.Bonds, b)
	return b, nil
}

//Copy returns a deep copy of the topology, including the bonds.
func (T *Topology) Copy() *Topology {
	T.FillIndexes()
	ats := make([]*Atom, T.Len())
	for key, val := range T.Atoms {
		ats[key] = val.Copy()
	}
	top := NewTopology(ats, T.charge, T.unpaired)
	for _, b := range T.Bonds {
		//can't fail, the original bonds were valid.
		_, _ = top.AddBond(b.At1.Index, b.At2.Index, b.Order, b.Type)
	}
	return top
}

/**Type Molecule**/

//Molecule contains a named topology and one or more sets of coordinates
//for it, one per frame.
type Molecule struct {
	*Topology
	Name   string
	Coords []*v3.Matrix
}

//NewMolecule makes a molecule with the given name, topology and coordinates, and returns it.
//It returns error if the coordinates don't match the topology.
func NewMolecule(name string, top *Topology, coords ...*v3.Matrix) (*Molecule, error) {
	if top == nil {
		return nil, NewError(ErrUnsupportedInput, "", "Supplied a nil Topology", "NewMolecule")
	}
	mol := &Molecule{Topology: top, Name: name, Coords: coords}
	if err := mol.Corrupted(); err != nil {
		return nil, ErrDecorate(err, "NewMolecule")
	}
	return mol, nil
}

//Copy returns a copy of the molecule including coordinates
func (M *Molecule) Copy() *Molecule {
	if err := M.Corrupted(); err != nil {
		panic(err.Error())
	}
	mol := &Molecule{Topology: M.Topology.Copy(), Name: M.Name}
	mol.Coords = make([]*v3.Matrix, 0, len(M.Coords))
	for _, val := range M.Coords {
		mol.Coords = append(mol.Coords, val.Clone())
	}
	return mol
}

//WithCoords returns a copy of the molecule with a single frame, the given coordinates.
//The coordinates are not copied.
func (M *Molecule) WithCoords(coords *v3.Matrix) (*Molecule, error) {
	return NewMolecule(M.Name, M.Topology.Copy(), coords)
}

//Corrupted checks whether the molecule is corrupted, i.e. the
//coordinates don't match the number of atoms.
func (M *Molecule) Corrupted() error {
	if M.Topology == nil {
		return NewError(ErrUnsupportedInput, "", "Molecule without topology", "Corrupted")
	}
	for i := range M.Coords {
		if M.Coords[i] == nil || M.Len() != M.Coords[i].NVecs() {
			return NewError(ErrParse, "", fmt.Sprintf("Inconsistent coordinates/atoms in frame %d of %s", i, M.Name), "Corrupted")
		}
	}
	return nil
}

//LenFrames returns the number of frames in the molecule
func (M *Molecule) LenFrames() int {
	return len(M.Coords)
}

/**Type Collection**/

//Collection is a named, ordered set of molecules.
type Collection struct {
	Name      string
	Molecules []*Molecule
}

//NewCollection returns a collection with the given name and molecules.
//The slice is not copied.
func NewCollection(name string, mols []*Molecule) *Collection {
	if mols == nil {
		mols = []*Molecule{}
	}
	return &Collection{Name: name, Molecules: mols}
}

//Len returns the number of molecules in the collection.
func (C *Collection) Len() int {
	return len(C.Molecules)
}

//Names returns the names of the molecules in the collection, in order.
func (C *Collection) Names() []string {
	ret := make([]string, 0, len(C.Molecules))
	for _, v := range C.Molecules {
		ret = append(ret, v.Name)
	}
	return ret
}
