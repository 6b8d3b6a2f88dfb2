/*
 * geometric.go, part of somngo.
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
	"math"

	v3 "github.com/rmera/somngo/v3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//Masses returns the masses of the atoms in mol. Atoms without a mass get the one of their element,
//or 1 if the element is unknown.
func Masses(mol Atomer) []float64 {
	ret := make([]float64, mol.Len())
	for i := range ret {
		at := mol.Atom(i)
		switch {
		case at.Mass > 0:
			ret[i] = at.Mass
		case symbolMass[at.Symbol] > 0:
			ret[i] = symbolMass[at.Symbol]
		default:
			ret[i] = 1
		}
	}
	return ret
}

//CenterOfMass returns the center of mass of the atoms represented by the coordinates in geometry
//and the masses in mass, as a 1x3 matrix. If mass is nil, it calculates the geometric center.
func CenterOfMass(geometry *v3.Matrix, mass []float64) (*v3.Matrix, error) {
	if geometry == nil {
		return nil, NewError(ErrUnsupportedInput, "", "nil matrix to get the center of mass", "CenterOfMass")
	}
	gr := geometry.NVecs()
	if mass == nil { //just obtain the geometric center
		mass = make([]float64, gr)
		floats.AddConst(1, mass)
	}
	if len(mass) != gr {
		return nil, NewError(ErrUnsupportedInput, "", fmt.Sprintf("%d masses for %d atoms", len(mass), gr), "CenterOfMass")
	}
	w := mat.NewVecDense(gr, mass)
	ret := v3.Zeros(1)
	for k := 0; k < 3; k++ {
		ret.Set(0, k, mat.Dot(w, geometry.ColView(k))/floats.Sum(mass))
	}
	return ret, nil
}

//MassCentrate returns a copy of in, translated so the center of mass of oref is at the origin.
//It also returns the center of mass of oref.
func MassCentrate(in, oref *v3.Matrix, mass []float64) (*v3.Matrix, *v3.Matrix, error) {
	com, err := CenterOfMass(oref, mass)
	if err != nil {
		return nil, nil, ErrDecorate(err, "MassCentrate")
	}
	returned := in.Clone()
	returned.Translate(-com.At(0, 0), -com.At(0, 1), -com.At(0, 2))
	return returned, com, nil
}

//RMSD returns the RSMD (root of the mean square deviation) for the sets of cartesian
//coordinates in test and template. The structures are not superimposed.
func RMSD(test, template *v3.Matrix) (float64, error) {
	if test.NVecs() != template.NVecs() {
		return 0, NewError(ErrUnsupportedInput, "", "Ill formed matrices for RMSD calculation", "RMSD")
	}
	diff := mat.NewDense(template.NVecs(), 3, nil)
	diff.Sub(template, test)
	n := mat.Norm(diff, 2)
	return math.Sqrt(n * n / float64(template.NVecs())), nil
}
