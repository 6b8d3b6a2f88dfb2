/*
 * gocoords.go, part of somngo.
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

package v3

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

//Zeros returns a zero-filled Matrix with vecs vectors and 3 in the other dimension.
func Zeros(vecs int) *Matrix {
	const cols int = 3
	f := make([]float64, cols*vecs)
	m, err := NewMatrix(f)
	if err != nil {
		panic(err.Error())
	}
	return m
}

//NVecs returns the number of vecs in F.
func (F *Matrix) NVecs() int {
	r, c := F.Dims()
	if c != 3 {
		panic(not3xXMatrix)
	}
	return r
}

//SwapVecs exchanges the vectors i and j.
func (F *Matrix) SwapVecs(i, j int) {
	if i >= F.NVecs() || j >= F.NVecs() {
		panic("Indexes out of range")
	}
	rowi := mat.Row(nil, i, F.Dense)
	rowj := mat.Row(nil, j, F.Dense)
	for k := 0; k < 3; k++ {
		F.Set(i, k, rowj[k])
		F.Set(j, k, rowi[k])
	}
}

//Dist returns the euclidean distance between the vectors i and j of F.
func (F *Matrix) Dist(i, j int) float64 {
	var s float64
	for k := 0; k < 3; k++ {
		d := F.At(i, k) - F.At(j, k)
		s += d * d
	}
	return math.Sqrt(s)
}

//Translate adds (x, y, z) to every vector in F.
func (F *Matrix) Translate(x, y, z float64) {
	d := [3]float64{x, y, z}
	for i := 0; i < F.NVecs(); i++ {
		for k := 0; k < 3; k++ {
			F.Set(i, k, F.At(i, k)+d[k])
		}
	}
}

//Finite returns false if any element of F is NaN or infinite.
func (F *Matrix) Finite() bool {
	r, c := F.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := F.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

//String returns a neat string representation of a Matrix
func (F *Matrix) String() string {
	r, c := F.Dims()
	v := make([]string, r)
	for i := 0; i < r; i++ {
		row := make([]string, c)
		for j := range row {
			row[j] = fmt.Sprintf("%8.3f", F.At(i, j))
		}
		v[i] = "[" + strings.Join(row, " ") + "]"
	}
	return strings.Join(v, "\n")
}
