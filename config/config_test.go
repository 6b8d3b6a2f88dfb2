/*
 * config_test.go, part of somngo.
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

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	chem "github.com/rmera/somngo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

var day = time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)

func TestParseFull(t *testing.T) {
	src := `
parser {
  out_dir     = "out"
  serialize   = true
  smiles_name = "pr${today}"
  update      = 5
  workers     = 3
}
babel {
  command = "/opt/ob/bin/obabel"
  extra   = ["--errorlevel", "1"]
}
xtb {
  method     = "gfnff"
  opt_level  = "tight"
  dielectric = 80
  cpus       = 2
}
`
	C, err := Parse([]byte(src), "somn.hcl", day)
	require.NoError(t, err)
	want := &Config{
		Parser: Parser{OutDir: "out", Serialize: true, SMILESName: "pr2024-03-07", CDXMLPrefix: "pr", Update: 5, Workers: 3},
		Babel:  Babel{Command: "/opt/ob/bin/obabel", Extra: []string{"--errorlevel", "1"}},
		XTB:    XTB{Command: "xtb", Method: "gfnff", OptLevel: "tight", Dielectric: 80, CPUs: 2},
	}
	if diff := cmp.Diff(want, C); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEmpty(t *testing.T) {
	C, err := Parse(nil, "empty.hcl", day)
	require.NoError(t, err)
	assert.Equal(t, Default(), C)
}

func TestParseBadUpdate(t *testing.T) {
	for _, v := range []string{"2.5", "0", "-3", `"two"`} {
		_, err := Parse([]byte("parser {\n update = "+v+"\n}\n"), "bad.hcl", day)
		require.Error(t, err, v)
		assert.True(t, errors.Is(err, chem.ErrBadConfig), v)
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse([]byte("parser {"), "broken.hcl", day)
	require.Error(t, err)
	assert.True(t, errors.Is(err, chem.ErrBadConfig))
	_, err = Parse([]byte("unknown {}\n"), "unknown.hcl", day)
	assert.True(t, errors.Is(err, chem.ErrBadConfig))
}

func TestLoad(t *testing.T) {
	C, err := Load(context.Background(), "", day)
	require.NoError(t, err)
	assert.Equal(t, 2, C.Parser.Update)

	_, err = Load(context.Background(), filepath.Join(t.TempDir(), "none.hcl"), day)
	assert.True(t, errors.Is(err, chem.ErrMissingFile))

	name := filepath.Join(t.TempDir(), "somn.hcl")
	require.NoError(t, os.WriteFile(name, []byte("babel {\n command = \"ob\"\n}\n"), 0o644))
	C, err = Load(context.Background(), name, day)
	require.NoError(t, err)
	assert.Equal(t, "ob", C.Babel.Command)
}

func TestUpdate(t *testing.T) {
	u, err := Update(cty.NumberIntVal(7))
	require.NoError(t, err)
	assert.Equal(t, 7, u)
	_, err = Update(cty.NumberFloatVal(1.5))
	assert.True(t, errors.Is(err, chem.ErrBadConfig))
	_, err = Update(cty.StringVal("3"))
	assert.True(t, errors.Is(err, chem.ErrBadConfig))
}
