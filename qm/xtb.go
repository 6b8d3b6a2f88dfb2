/*
 * xtb.go, part of somngo.
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

//In order to use this part of the library you need the xtb program, which must be obtained from Prof. Stefan Grimme's group.
//Please cite the the xtb references if you used the program.

package qm

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	chem "github.com/rmera/somngo"
	"github.com/rmera/somngo/ctxlog"
	v3 "github.com/rmera/somngo/v3"
)

//Names of the files xtb reads and writes in the scratch directory.
const (
	inputName  = "input.xyz"
	outputName = "xtb.out"
	optName    = "xtbopt.xyz"
)

//XTBHandle runs xtb optimizations. Each call to Optimize uses its own
//directory, so several can run at the same time.
type XTBHandle struct {
	command string
	nCPU    int
	calc    Calc
}

//NewXTBHandle returns a handle with the default settings.
func NewXTBHandle() *XTBHandle {
	run := new(XTBHandle)
	run.SetDefaults()
	return run
}

//XTBHandle methods

//SetDefaults sets the command to "xtb", one CPU per process, and the default Calc.
func (O *XTBHandle) SetDefaults() {
	O.command = "xtb"
	O.nCPU = 1
	O.calc.SetDefaults()
}

//Sets the number of CPU to be used by each xtb process
func (O *XTBHandle) SetnCPU(cpu int) {
	if cpu < 1 {
		cpu = runtime.NumCPU()
	}
	O.nCPU = cpu
}

func (O *XTBHandle) Command() string {
	return O.command
}

func (O *XTBHandle) SetCommand(name string) {
	O.command = name
}

//SetCalc sets the calculation settings. Empty fields take the default values.
func (O *XTBHandle) SetCalc(Q Calc) error {
	if Q.Method == "" {
		Q.Method = "gfn2"
	}
	if Q.OptLevel == "" {
		Q.OptLevel = "normal"
	}
	if !isInString(methods, Q.Method) {
		return chem.NewError(chem.ErrBadConfig, "", fmt.Sprintf("Unknown xtb method %q", Q.Method), "SetCalc")
	}
	if !isInString(optLevels, Q.OptLevel) {
		return chem.NewError(chem.ErrBadConfig, "", fmt.Sprintf("Unknown xtb optimization level %q", Q.OptLevel), "SetCalc")
	}
	O.calc = Q
	return nil
}

//Calc returns the current calculation settings.
func (O *XTBHandle) Calc() Calc {
	return O.calc
}

//args builds the command line for a molecule with the given charge and unpaired electrons.
func (O *XTBHandle) args(charge, unpaired int) []string {
	ret := []string{inputName, "--opt", O.calc.OptLevel}
	if O.calc.Method == "gfnff" {
		ret = append(ret, "--gfnff")
	} else {
		ret = append(ret, "--gfn", strings.TrimPrefix(O.calc.Method, "gfn"))
	}
	ret = append(ret, "-c", strconv.Itoa(charge), "-u", strconv.Itoa(unpaired), "-P", strconv.Itoa(O.nCPU))
	//as of the current version, gfn0 doesn't support implicit solvation
	if O.calc.Dielectric > 0 && O.calc.Method != "gfn0" {
		if solvent, ok := dielectric2Solvent[int(O.calc.Dielectric)]; ok {
			ret = append(ret, "--alpb", solvent)
		}
	}
	return ret
}

//Optimize writes mol to dir, runs an xtb optimization there and returns a copy of mol with the
//optimized geometry as its only frame. The optimization fails if xtb doesn't end normally,
//if it doesn't produce a geometry, or if the optimized geometry no longer matches the bonds
//in the topology of mol. mol is not modified.
func (O *XTBHandle) Optimize(ctx context.Context, mol *chem.Molecule, dir string) (*chem.Molecule, error) {
	if mol == nil || mol.LenFrames() == 0 {
		return nil, chem.NewError(chem.ErrUnsupportedInput, "", "Molecule without coordinates", "XTBHandle.Optimize")
	}
	if err := mol.Corrupted(); err != nil {
		return nil, chem.ErrDecorate(err, "XTBHandle.Optimize")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, chem.WrapError(chem.ErrExternal, dir, err, "XTBHandle.Optimize")
	}
	if err := chem.XYZFileWrite(filepath.Join(dir, inputName), mol.Coords[0], mol); err != nil {
		return nil, chem.ErrDecorate(err, "XTBHandle.Optimize")
	}
	if err := O.run(ctx, dir, mol); err != nil {
		return nil, chem.ErrDecorate(err, "XTBHandle.Optimize")
	}
	opt, err := OptimizedGeometry(dir)
	if err != nil {
		return nil, chem.ErrDecorate(err, "XTBHandle.Optimize")
	}
	if opt.NVecs() != mol.Len() {
		return nil, chem.NewError(chem.ErrExternal, filepath.Join(dir, optName), fmt.Sprintf("Optimized geometry has %d atoms, expected %d", opt.NVecs(), mol.Len()), "XTBHandle.Optimize")
	}
	same, err := chem.SameConnectivity(mol, opt)
	if err != nil {
		return nil, chem.ErrDecorate(err, "XTBHandle.Optimize")
	}
	if !same {
		return nil, chem.NewError(chem.ErrExternal, "", fmt.Sprintf("Optimized geometry of %s doesn't match its bonds", mol.Name), "XTBHandle.Optimize")
	}
	log := ctxlog.FromContext(ctx)
	if e, err := Energy(dir); err == nil {
		log.Debug("xtb optimization done", "molecule", mol.Name, "energy_kcal", e)
	}
	if rmsd, err := displacement(mol, opt); err == nil {
		log.Debug("geometry change", "molecule", mol.Name, "rmsd", rmsd)
	}
	return mol.WithCoords(opt)
}

//displacement returns the RMSD between the geometry of mol and opt, after
//moving both to their centers of mass.
func displacement(mol *chem.Molecule, opt *v3.Matrix) (float64, error) {
	mass := chem.Masses(mol)
	a, _, err := chem.MassCentrate(mol.Coords[0], mol.Coords[0], mass)
	if err != nil {
		return 0, err
	}
	b, _, err := chem.MassCentrate(opt, opt, mass)
	if err != nil {
		return 0, err
	}
	return chem.RMSD(a, b)
}

//run runs xtb in dir, with both outputs going to xtb.out.
func (O *XTBHandle) run(ctx context.Context, dir string, mol *chem.Molecule) error {
	args := O.args(mol.Charge(), mol.Unpaired())
	ctxlog.FromContext(ctx).Debug("running xtb", "command", O.command, "args", strings.Join(args, " "), "dir", dir)
	out, err := os.Create(filepath.Join(dir, outputName))
	if err != nil {
		return chem.WrapError(chem.ErrExternal, dir, err, "run")
	}
	defer out.Close()
	command := exec.CommandContext(ctx, O.command, args...)
	command.Dir = dir
	command.Stdout = out
	command.Stderr = out
	if err := command.Run(); err != nil {
		if ctx.Err() != nil {
			return chem.WrapError(chem.ErrExternal, mol.Name, ctx.Err(), "run")
		}
		return chem.WrapError(chem.ErrExternal, mol.Name, fmt.Errorf("%s: %w", O.command, err), "run")
	}
	os.Remove(filepath.Join(dir, "xtbrestart"))
	if !normalTermination(filepath.Join(dir, outputName)) {
		return chem.NewError(chem.ErrExternal, mol.Name, "Calculation didn't end normally", "run")
	}
	return nil
}

//OptimizedGeometry reads the latest geometry from an xtb optimization run in dir.
func OptimizedGeometry(dir string) (*v3.Matrix, error) {
	mol, err := chem.XYZFileRead(filepath.Join(dir, optName))
	if err != nil {
		return nil, chem.WrapError(chem.ErrExternal, filepath.Join(dir, optName), fmt.Errorf("no optimized geometry: %w", err), "OptimizedGeometry")
	}
	return mol.Coords[0], nil
}

//Energy gets the total energy, in kcal/mol, of a previous xtb calculation in dir.
func Energy(dir string) (float64, error) {
	name := filepath.Join(dir, outputName)
	energyline := searchBackwards("TOTAL ENERGY", name)
	if energyline == "" {
		energyline = searchBackwards("total E", name)
	}
	if energyline == "" {
		return 0, chem.NewError(chem.ErrParse, name, "No energy found", "Energy")
	}
	for _, field := range strings.Fields(energyline) {
		if energy, err := strconv.ParseFloat(field, 64); err == nil {
			return energy * chem.H2Kcal, nil
		}
	}
	return 0, chem.NewError(chem.ErrParse, name, fmt.Sprintf("Can't read energy from %q", energyline), "Energy")
}

//This checks that an xtb calculation has terminated normally
func normalTermination(filename string) bool {
	return searchBackwards("normal termination of x", filename) != "" && searchBackwards("abnormal termination of x", filename) == ""
}

//search a file backwards, i.e., starting from the end, for a string. Returns the last line that contains the string, or an empty string.
func searchBackwards(str, filename string) string {
	f, err := os.Open(filename)
	if err != nil {
		return ""
	}
	defer f.Close()
	var last string
	scan := bufio.NewScanner(f)
	for scan.Scan() {
		if strings.Contains(scan.Text(), str) {
			last = scan.Text()
		}
	}
	return last
}

var dielectric2Solvent = map[int]string{
	80: "h2o",
	5:  "chcl3",
	9:  "ch2cl2",
	21: "acetone",
	37: "acetonitrile",
	33: "methanol",
	2:  "toluene",
	7:  "thf",
	47: "dmso",
	38: "dmf",
}
