/*
 * cdxml_test.go, part of somngo.
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

package cdxml

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	chem "github.com/rmera/somngo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFile(Te *testing.T) {
	col, err := ReadFile("testdata/three.cdxml", DefaultPrefix)
	require.NoError(Te, err)
	assert.Equal(Te, "three", col.Name)
	require.Equal(Te, 3, col.Len())
	for _, name := range col.Names() {
		assert.True(Te, strings.HasPrefix(name, DefaultPrefix), name)
	}
	assert.Equal(Te, []string{"pr1", "pr2", "pr3"}, col.Names())

	ethanol := col.Molecules[0]
	assert.Equal(Te, 3, ethanol.Len())
	assert.Len(Te, ethanol.Bonds, 2)
	assert.Equal(Te, "O", ethanol.Atom(2).Symbol)
	assert.False(Te, chem.HasExplicitHydrogens(ethanol))
	//bond length in the drawing is 14.4 pt, should become 1.5 A
	assert.InDelta(Te, 1.5, ethanol.Coords[0].Dist(0, 1), 0.01)
	assert.Less(Te, ethanol.Coords[0].At(1, 1), ethanol.Coords[0].At(0, 1)) //y flipped
}

//TestAbbreviation checks that the OMe label is expanded and bonded through its connection point.
func TestAbbreviation(Te *testing.T) {
	col, err := ReadFile("testdata/three.cdxml", "x")
	require.NoError(Te, err)
	formate := col.Molecules[1]
	require.Equal(Te, 4, formate.Len())
	require.Len(Te, formate.Bonds, 3)
	symbols := ""
	for _, a := range formate.Atoms {
		symbols += a.Symbol
	}
	assert.Equal(Te, "COCO", symbols)
	var double int
	for _, b := range formate.Bonds {
		if b.Order == 2 {
			double++
			assert.Equal(Te, "O", b.Cross(formate.Atom(0)).Symbol)
		}
	}
	assert.Equal(Te, 1, double)
	//the carbonyl carbon is bonded to the ester oxygen of the abbreviation
	found := false
	for _, b := range formate.Atom(0).Bonds {
		if b.Cross(formate.Atom(0)) == formate.Atom(1) {
			found = true
		}
	}
	assert.True(Te, found)
}

func TestChargeAndHydrogens(Te *testing.T) {
	col, err := ReadFile("testdata/three.cdxml", DefaultPrefix)
	require.NoError(Te, err)
	hydroxide := col.Molecules[2]
	assert.Equal(Te, -1, hydroxide.Charge())
	assert.True(Te, chem.HasExplicitHydrogens(hydroxide))
}

func TestBadInput(Te *testing.T) {
	_, err := ReadFile("testdata/three.mol2", DefaultPrefix)
	assert.True(Te, errors.Is(err, chem.ErrBadExtension))
	_, err = ReadFile("testdata/missing.cdxml", DefaultPrefix)
	assert.True(Te, errors.Is(err, chem.ErrMissingFile))
	_, err = Read(strings.NewReader("<CDXML><page></page></CDXML>"), DefaultPrefix)
	assert.True(Te, errors.Is(err, chem.ErrParse))
	_, err = Read(strings.NewReader(`<CDXML><page><fragment><n id="1" p="0 0" Element="999"/></fragment></page></CDXML>`), DefaultPrefix)
	assert.True(Te, errors.Is(err, chem.ErrParse))
	_, err = Read(strings.NewReader(`<CDXML><page><fragment><n id="1" p="0 0"/><b B="1" E="7"/></fragment></page></CDXML>`), DefaultPrefix)
	assert.True(Te, errors.Is(err, chem.ErrParse))
}

func TestUpperCaseExtension(Te *testing.T) {
	data, err := os.ReadFile("testdata/three.cdxml")
	require.NoError(Te, err)
	name := filepath.Join(Te.TempDir(), "Drawing.CDXML")
	require.NoError(Te, os.WriteFile(name, data, 0o644))
	col, err := ReadFile(name, DefaultPrefix)
	require.NoError(Te, err)
	assert.Equal(Te, "Drawing", col.Name)
}
