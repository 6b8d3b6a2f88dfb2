/*
 * qm.go, part of somngo.
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

//Package qm runs semiempirical geometry optimizations with the xtb program.
//The calculation settings (Calc) are kept separate from the program handle,
//so the same settings can be reused for many molecules.
package qm

import (
	"context"

	chem "github.com/rmera/somngo"
)

//Optimizer optimizes the geometry of a molecule, working in the scratch directory dir.
type Optimizer interface {
	Optimize(ctx context.Context, mol *chem.Molecule, dir string) (*chem.Molecule, error)
}

//Calc contains the settings for a calculation.
type Calc struct {
	Method     string  //gfn0, gfn1, gfn2 or gfnff
	OptLevel   string  //crude, sloppy, loose, normal, tight, vtight or extreme
	Dielectric float64 //0 means gas phase
}

//SetDefaults sets a gfn2 optimization with the normal convergence criteria, in gas phase.
func (Q *Calc) SetDefaults() {
	Q.Method = "gfn2"
	Q.OptLevel = "normal"
	Q.Dielectric = 0
}

var methods = []string{"gfn0", "gfn1", "gfn2", "gfnff"}

var optLevels = []string{"crude", "sloppy", "loose", "lax", "normal", "tight", "vtight", "extreme"}

//Same as the previous, but with strings.
func isInString(container []string, test string) bool {
	for _, i := range container {
		if test == i {
			return true
		}
	}
	return false
}
