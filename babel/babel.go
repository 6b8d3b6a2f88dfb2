/*
 * babel.go, part of somngo.
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

//Package babel drives the Open Babel command line program, obabel, to build 3D
//structures from SMILES and to add explicit hydrogens to existing structures.
//Open Babel must be obtained independently and the obabel executable must be
//in the PATH (or set with SetCommand).
//Please cite Open Babel (DOI:10.1186/1758-2946-3-33) if you use this package.
package babel

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	chem "github.com/rmera/somngo"
	"github.com/rmera/somngo/ctxlog"
)

//Speed selects the gen3d preset, which trades quality of the initial
//3D structure for time.
type Speed string

const (
	Fastest Speed = "fastest"
	Fast    Speed = "fast"
	Medium  Speed = "med"
	Slow    Speed = "slow"
	Best    Speed = "best"
)

//Handle runs obabel. The zero value is not usable, use NewHandle.
type Handle struct {
	command string
	extra   []string
}

//NewHandle returns a Handle with the default settings.
func NewHandle() *Handle {
	run := new(Handle)
	run.SetDefaults()
	return run
}

//SetDefaults sets the command to "obabel".
func (O *Handle) SetDefaults() {
	O.command = "obabel"
	O.extra = nil
}

//SetCommand sets the obabel executable.
func (O *Handle) SetCommand(name string) {
	O.command = name
}

//Command returns the obabel executable used.
func (O *Handle) Command() string {
	return O.command
}

//SetExtra sets additional arguments appended to every obabel invocation.
func (O *Handle) SetExtra(args ...string) {
	O.extra = args
}

//FromSMILES builds a 3D structure, with explicit hydrogens, from a single SMILES string.
//The returned molecule is named title. SMILES that obabel can't read give an error of kind chem.ErrParse.
func (O *Handle) FromSMILES(ctx context.Context, smiles, title string, speed Speed) (*chem.Molecule, error) {
	smiles = strings.TrimSpace(smiles)
	if smiles == "" || strings.ContainsAny(smiles, " \t\n\r") {
		return nil, chem.NewError(chem.ErrParse, "", fmt.Sprintf("Failed to parse smiles string %q; check format for errors", smiles), "babel.FromSMILES")
	}
	if speed == "" {
		speed = Medium
	}
	in := smiles + " " + title + "\n"
	mol, err := O.convert(ctx, in, "smi", "-h", "--gen3d", string(speed))
	if err != nil {
		if errors.Is(err, chem.ErrParse) {
			return nil, chem.WrapError(chem.ErrParse, "", fmt.Errorf("Failed to parse smiles string %q; check format for errors: %w", smiles, err), "babel.FromSMILES")
		}
		return nil, chem.ErrDecorate(err, "babel.FromSMILES")
	}
	mol.Name = title
	return mol, nil
}

//AddHydrogens returns a copy of mol with explicit hydrogens added by obabel.
//mol is not modified.
func (O *Handle) AddHydrogens(ctx context.Context, mol *chem.Molecule) (*chem.Molecule, error) {
	in, err := chem.Mol2String(mol)
	if err != nil {
		return nil, chem.ErrDecorate(err, "babel.AddHydrogens")
	}
	out, err := O.convert(ctx, in, "mol2", "-h")
	if err != nil {
		return nil, chem.ErrDecorate(err, "babel.AddHydrogens")
	}
	out.Name = mol.Name
	return out, nil
}

//convert feeds in, in the format informat, to obabel and reads back a single MOL2 molecule.
func (O *Handle) convert(ctx context.Context, in, informat string, args ...string) (*chem.Molecule, error) {
	full := append([]string{"-i" + informat, "-omol2"}, args...)
	full = append(full, O.extra...)
	log := ctxlog.FromContext(ctx)
	log.Debug("running obabel", "command", O.command, "args", strings.Join(full, " "))
	cmd := exec.CommandContext(ctx, O.command, full...)
	cmd.Stdin = strings.NewReader(in)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, chem.WrapError(chem.ErrExternal, "", ctx.Err(), "convert")
		}
		return nil, chem.WrapError(chem.ErrExternal, "", fmt.Errorf("%s: %w: %s", O.command, err, strings.TrimSpace(stderr.String())), "convert")
	}
	if stdout.Len() == 0 || strings.Contains(stderr.String(), "0 molecules converted") {
		return nil, chem.NewError(chem.ErrParse, "", fmt.Sprintf("obabel produced no structure: %s", strings.TrimSpace(stderr.String())), "convert")
	}
	mols, err := chem.Mol2Read(&stdout)
	if err != nil {
		return nil, chem.ErrDecorate(err, "convert")
	}
	if len(mols) != 1 {
		return nil, chem.NewError(chem.ErrParse, "", fmt.Sprintf("obabel produced %d structures, expected 1", len(mols)), "convert")
	}
	return mols[0], nil
}
