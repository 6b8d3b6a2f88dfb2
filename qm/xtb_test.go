/*
 * xtb_test.go, part of somngo.
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

package qm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	chem "github.com/rmera/somngo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//fakeXTB writes an executable shell script with the given body, which runs in the scratch directory.
func fakeXTB(Te *testing.T, body string) string {
	Te.Helper()
	if runtime.GOOS == "windows" {
		Te.Skip("fake xtb needs a POSIX shell")
	}
	name := filepath.Join(Te.TempDir(), "xtb")
	require.NoError(Te, os.WriteFile(name, []byte("#!/bin/sh\n"+body), 0o755))
	return name
}

const goodXTB = `echo "$@" > args
cp input.xyz xtbopt.xyz
echo "          | TOTAL ENERGY              -11.391305971734 Eh   |"
echo "normal termination of xtb"
`

func ethanol(Te *testing.T) *chem.Molecule {
	Te.Helper()
	mols, err := chem.Mol2FileRead("../testdata/ethanol.mol2")
	require.NoError(Te, err)
	return mols[0]
}

func TestXTBOptimize(Te *testing.T) {
	O := NewXTBHandle()
	O.SetCommand(fakeXTB(Te, goodXTB))
	mol := ethanol(Te)
	dir := filepath.Join(Te.TempDir(), "pr1")
	opt, err := O.Optimize(context.Background(), mol, dir)
	require.NoError(Te, err)
	assert.Equal(Te, mol.Name, opt.Name)
	assert.Equal(Te, 1, opt.LenFrames())
	assert.InDelta(Te, mol.Coords[0].At(0, 0), opt.Coords[0].At(0, 0), 1e-4)
	args, err := os.ReadFile(filepath.Join(dir, "args"))
	require.NoError(Te, err)
	assert.Equal(Te, "input.xyz --opt normal --gfn 2 -c 0 -u 0 -P 1", strings.TrimSpace(string(args)))
	e, err := Energy(dir)
	require.NoError(Te, err)
	assert.InDelta(Te, -11.391305971734*chem.H2Kcal, e, 1e-6)
}

func TestXTBAbnormal(Te *testing.T) {
	O := NewXTBHandle()
	O.SetCommand(fakeXTB(Te, "cp input.xyz xtbopt.xyz\necho 'abnormal termination of xtb'\n"))
	_, err := O.Optimize(context.Background(), ethanol(Te), Te.TempDir())
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, chem.ErrExternal))
	assert.Contains(Te, err.Error(), "didn't end normally")
}

func TestXTBNoGeometry(Te *testing.T) {
	O := NewXTBHandle()
	O.SetCommand(fakeXTB(Te, "echo 'normal termination of xtb'\n"))
	_, err := O.Optimize(context.Background(), ethanol(Te), Te.TempDir())
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, chem.ErrExternal))
}

func TestXTBFails(Te *testing.T) {
	O := NewXTBHandle()
	O.SetCommand(fakeXTB(Te, "exit 1\n"))
	_, err := O.Optimize(context.Background(), ethanol(Te), Te.TempDir())
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, chem.ErrExternal))
}

func TestXTBConnectivityChanged(Te *testing.T) {
	mol := ethanol(Te)
	var b strings.Builder
	fmt.Fprintf(&b, "%d\n\n", mol.Len())
	for i, at := range mol.Atoms {
		fmt.Fprintf(&b, "%s %d.0 0.0 0.0\n", at.Symbol, 10*i)
	}
	O := NewXTBHandle()
	O.SetCommand(fakeXTB(Te, "cat > xtbopt.xyz <<'END'\n"+b.String()+"END\necho 'normal termination of xtb'\n"))
	_, err := O.Optimize(context.Background(), mol, Te.TempDir())
	require.Error(Te, err)
	assert.Contains(Te, err.Error(), "doesn't match its bonds")
}

func TestXTBArgs(Te *testing.T) {
	O := NewXTBHandle()
	require.NoError(Te, O.SetCalc(Calc{Method: "gfnff", OptLevel: "tight", Dielectric: 80}))
	O.SetnCPU(4)
	assert.Equal(Te, []string{"input.xyz", "--opt", "tight", "--gfnff", "-c", "-1", "-u", "1", "-P", "4", "--alpb", "h2o"}, O.args(-1, 1))
	err := O.SetCalc(Calc{Method: "pm7"})
	assert.True(Te, errors.Is(err, chem.ErrBadConfig))
	err = O.SetCalc(Calc{OptLevel: "forever"})
	assert.True(Te, errors.Is(err, chem.ErrBadConfig))
	//a failed SetCalc leaves the previous settings
	assert.Equal(Te, "gfnff", O.Calc().Method)
}
