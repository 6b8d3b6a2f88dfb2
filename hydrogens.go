/*
 * hydrogens.go, part of somngo.
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

//ExplicitHydrogens returns the number of hydrogen atoms present in the topology.
func ExplicitHydrogens(mol Atomer) int {
	n := 0
	for i := 0; i < mol.Len(); i++ {
		if mol.Atom(i).Symbol == "H" {
			n++
		}
	}
	return n
}

//HasExplicitHydrogens returns true if at least one atom in mol is a hydrogen.
func HasExplicitHydrogens(mol Atomer) bool {
	return ExplicitHydrogens(mol) > 0
}
