/*
 * commands_test.go, part of somngo.
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

package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chem "github.com/rmera/somngo"
	"github.com/rmera/somngo/data"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestDataClean(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "yields.csv")
	require.NoError(t, os.WriteFile(in, []byte("handle,yield\n a ,1\na,2\nb,3\n"), 0o644))
	out := filepath.Join(dir, "clean.feather")
	stdout, err := run(t, "data", "clean", in, "-o", out, "--orient", "index")
	require.NoError(t, err)
	assert.Contains(t, stdout, out)
	H, err := data.Load(data.File{Path: out})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, H.Handles())
	assert.Equal(t, [][]string{{"1"}, {"3"}}, H.Table().Cells)
}

func TestDataCleanBadOrient(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "yields.csv")
	require.NoError(t, os.WriteFile(in, []byte("handle,yield\na,1\n"), 0o644))
	_, err := run(t, "data", "clean", in, "--orient", "sideways")
	assert.True(t, errors.Is(err, chem.ErrBadConfig))
}

func TestDataDescribe(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "yields.csv")
	require.NoError(t, os.WriteFile(in, []byte("handle,yield,solvent\na,1,thf\nb,2,dmso\nc,3,thf\n"), 0o644))
	stdout, err := run(t, "data", "describe", in, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, stdout, "yield: n=3 mean=2")
	assert.NotContains(t, stdout, "solvent:")
}

func TestParseInputSelection(t *testing.T) {
	_, err := run(t, "parse")
	assert.True(t, errors.Is(err, chem.ErrUnsupportedInput))
	_, err = run(t, "parse", "mol.cdxml", "--smiles", "CCO")
	assert.True(t, errors.Is(err, chem.ErrUnsupportedInput))
	_, err = run(t, "parse", "mol.mol")
	assert.True(t, errors.Is(err, chem.ErrBadExtension))
}

func TestParseCDXML(t *testing.T) {
	stdout, err := run(t, "parse", "../../../cdxml/testdata/three.cdxml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "collection three: 3 structures")
	assert.Contains(t, stdout, "pr3")
}

func TestBadConfig(t *testing.T) {
	name := filepath.Join(t.TempDir(), "somn.hcl")
	require.NoError(t, os.WriteFile(name, []byte("parser {\n update = 1.5\n}\n"), 0o644))
	_, err := run(t, "--config", name, "parse", "x.cdxml")
	assert.True(t, errors.Is(err, chem.ErrBadConfig))
}

//fakeTools writes obabel and xtb stand-ins, and a configuration file that uses them.
//obabel always prints a copy of the ethanol fixture; xtb "optimizes" by copying its input.
func fakeTools(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake programs need a POSIX shell")
	}
	dir := t.TempDir()
	ethanol, err := filepath.Abs("../../../testdata/ethanol.mol2")
	require.NoError(t, err)
	obabel := filepath.Join(dir, "obabel")
	require.NoError(t, os.WriteFile(obabel, []byte("#!/bin/sh\ncat > /dev/null\ncat \""+ethanol+"\"\n"), 0o755))
	xtb := filepath.Join(dir, "xtb")
	require.NoError(t, os.WriteFile(xtb, []byte("#!/bin/sh\ncp input.xyz xtbopt.xyz\necho \"normal termination of xtb\"\n"), 0o755))
	cfg := filepath.Join(dir, "somn.hcl")
	src := "parser {\n  out_dir = \"" + filepath.Join(dir, "out") + "\"\n}\n" +
		"babel {\n  command = \"" + obabel + "\"\n}\n" +
		"xtb {\n  command = \"" + xtb + "\"\n}\n"
	require.NoError(t, os.WriteFile(cfg, []byte(src), 0o644))
	return cfg
}

//TestParseSMILESPrep checks that structures built from SMILES, which come with their
//hydrogens, are pre-optimized instead of failing the hydrogen step.
func TestParseSMILESPrep(t *testing.T) {
	cfg := fakeTools(t)
	stdout, err := run(t, "--config", cfg, "--log-level", "error", "parse", "--smiles", "CCO", "--prep")
	require.NoError(t, err)
	assert.Contains(t, stdout, "collection from_smi_hadd_preopt: 1 structures")
	assert.NotContains(t, stdout, "failed:")

	stdout, err = run(t, "--config", cfg, "--log-level", "error", "parse", "--smiles", "CCO", "--smiles", "CO", "--prep")
	require.NoError(t, err)
	assert.Contains(t, stdout, "collection from_smi_hadd_preopt: 2 structures")
	assert.NotContains(t, stdout, "failed:")
}
