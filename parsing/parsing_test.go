/*
 * parsing_test.go, part of somngo.
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

package parsing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	chem "github.com/rmera/somngo"
	"github.com/rmera/somngo/babel"
	"github.com/rmera/somngo/ctxlog"
	"github.com/rmera/somngo/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, 3, 7, 9, 30, 0, 0, time.UTC)

//fakeBuilder builds every SMILES as ethanol, except "bad" ones, and adds
//hydrogens by copying, except for the molecules named in fail.
type fakeBuilder struct {
	Te     *testing.T
	mu     sync.Mutex
	speeds []babel.Speed
	titles []string
	fail   map[string]bool
	drop   bool //lose the total charge when adding hydrogens
}

func (F *fakeBuilder) FromSMILES(ctx context.Context, smiles, title string, speed babel.Speed) (*chem.Molecule, error) {
	F.mu.Lock()
	F.speeds = append(F.speeds, speed)
	F.titles = append(F.titles, title)
	F.mu.Unlock()
	if smiles == "bad" {
		return nil, errors.New("0 molecules converted")
	}
	mol := ethanol(F.Te)
	mol.Name = "ignored"
	return mol, nil
}

func (F *fakeBuilder) AddHydrogens(ctx context.Context, mol *chem.Molecule) (*chem.Molecule, error) {
	if F.fail[mol.Name] {
		return nil, chem.NewError(chem.ErrExternal, "", "obabel crashed", "fake")
	}
	out := mol.Copy()
	out.Name = "renamed"
	if F.drop {
		out.SetCharge(0)
	}
	return out, nil
}

//fakeOptimizer returns a copy of the molecule, and fails for the names in fail.
type fakeOptimizer struct {
	mu    sync.Mutex
	calls int
	fail  map[string]bool
}

func (F *fakeOptimizer) Optimize(ctx context.Context, mol *chem.Molecule, dir string) (*chem.Molecule, error) {
	F.mu.Lock()
	F.calls++
	F.mu.Unlock()
	if F.fail[mol.Name] {
		return nil, chem.NewError(chem.ErrExternal, "", "Calculation didn't end normally", "fake")
	}
	return mol.Copy(), nil
}

func ethanol(Te *testing.T) *chem.Molecule {
	mols, err := chem.Mol2FileRead("../testdata/ethanol.mol2")
	require.NoError(Te, err)
	return mols[0]
}

func newParser(Te *testing.T, b *fakeBuilder, o *fakeOptimizer, opts ...Option) *Parser {
	opts = append([]Option{
		WithBuilder(b),
		WithOptimizer(o),
		WithOutDir(Te.TempDir()),
		WithClock(func() time.Time { return day }),
		WithLogger(ctxlog.Discard()),
	}, opts...)
	return New(opts...)
}

func TestFromCDXML(Te *testing.T) {
	P := newParser(Te, &fakeBuilder{Te: Te}, &fakeOptimizer{})
	res, err := P.Parse(context.Background(), CDXMLFile{"../cdxml/testdata/three.cdxml"})
	require.NoError(Te, err)
	assert.Equal(Te, []string{"pr1", "pr2", "pr3"}, res.Collection.Names())
	assert.Empty(Te, res.Notices)

	_, err = P.Parse(context.Background(), CDXMLFile{"../testdata/ethanol.mol2"})
	assert.True(Te, errors.Is(err, chem.ErrBadExtension))
	_, err = P.Parse(context.Background(), CDXMLFile{"nothere.cdxml"})
	assert.True(Te, errors.Is(err, chem.ErrMissingFile))
}

func TestFromSMILES(Te *testing.T) {
	b := &fakeBuilder{Te: Te}
	P := newParser(Te, b, &fakeOptimizer{}, WithSerialize(true))
	res, err := P.Parse(context.Background(), SMILES{"CCO"})
	require.NoError(Te, err)
	assert.Equal(Te, SMILESCollection, res.Collection.Name)
	assert.Equal(Te, []string{"pr2024-03-07"}, res.Collection.Names())
	assert.Equal(Te, []babel.Speed{babel.Fastest}, b.speeds)
	assert.FileExists(Te, filepath.Join(P.OutDir(), "pr2024-03-07_smiles_preopt.mol2"))

	_, err = P.FromSMILES(context.Background(), "bad")
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, chem.ErrParse))
	assert.Contains(Te, err.Error(), "check format for errors")
}

func TestFromSMILESList(Te *testing.T) {
	b := &fakeBuilder{Te: Te}
	P := newParser(Te, b, &fakeOptimizer{})
	res, err := P.FromSMILESList(context.Background(), []string{"CCO", "CO"}, []string{"eth", "meth"})
	require.NoError(Te, err)
	assert.Equal(Te, []string{"preth", "prmeth"}, res.Collection.Names())
	assert.Empty(Te, res.Notices)
	assert.Equal(Te, []babel.Speed{babel.Best, babel.Best}, b.speeds)

	res, err = P.Parse(context.Background(), SMILESList{Values: []string{"CCO", "CO", "C"}, Names: []string{"only"}})
	require.NoError(Te, err)
	assert.Equal(Te, []string{"pr2024-03-07_1", "pr2024-03-07_2", "pr2024-03-07_3"}, res.Collection.Names())
	require.Len(Te, res.Notices, 1)
	assert.Equal(Te, StageSMILES, res.Notices[0].Stage)

	res, err = P.FromSMILESList(context.Background(), []string{"C"}, nil)
	require.NoError(Te, err)
	assert.Empty(Te, res.Notices)

	_, err = P.FromSMILESList(context.Background(), []string{"CCO", "bad", "C"}, nil)
	assert.True(Te, errors.Is(err, chem.ErrParse))
}

func TestFromSMILESTable(Te *testing.T) {
	dir := Te.TempDir()
	T, err := data.NewTable([]string{"0", "1"}, []string{"smiles", "name"}, [][]string{{"CCO", "eth"}, {"CO", "meth"}})
	require.NoError(Te, err)
	T.IndexName = "id"
	name := filepath.Join(dir, "smiles.csv")
	require.NoError(Te, data.WriteCSV(name, T))
	P := newParser(Te, &fakeBuilder{Te: Te}, &fakeOptimizer{})
	res, err := P.Parse(context.Background(), SMILESTable{name})
	require.NoError(Te, err)
	assert.Equal(Te, []string{"preth", "prmeth"}, res.Collection.Names())

	T, err = data.NewTable([]string{"0"}, []string{"smiles"}, [][]string{{"CCO"}})
	require.NoError(Te, err)
	require.NoError(Te, data.WriteCSV(name, T))
	res, err = P.Parse(context.Background(), SMILESTable{name})
	require.NoError(Te, err)
	assert.Equal(Te, []string{"pr2024-03-07_1"}, res.Collection.Names())

	_, err = P.Parse(context.Background(), SMILESTable{filepath.Join(dir, "none.csv")})
	assert.True(Te, errors.Is(err, chem.ErrMissingFile))
}

func TestParseUnsupported(Te *testing.T) {
	P := newParser(Te, &fakeBuilder{Te: Te}, &fakeOptimizer{})
	_, err := P.Parse(context.Background(), nil)
	assert.True(Te, errors.Is(err, chem.ErrUnsupportedInput))
}

func cdxmlCollection(Te *testing.T, P *Parser) *chem.Collection {
	res, err := P.FromCDXML(context.Background(), "../cdxml/testdata/three.cdxml")
	require.NoError(Te, err)
	return res.Collection
}

func TestAddHydrogens(Te *testing.T) {
	b := &fakeBuilder{Te: Te, fail: map[string]bool{"pr2": true}}
	P := newParser(Te, b, &fakeOptimizer{}, WithSerialize(true))
	col := cdxmlCollection(Te, P)
	res, err := P.AddHydrogens(context.Background(), col)
	require.NoError(Te, err)
	assert.Equal(Te, "three_hadd", res.Collection.Name)
	//names are kept, whatever the builder does
	assert.Equal(Te, []string{"pr1"}, res.Collection.Names())
	require.Len(Te, res.Failures, 2)
	assert.Equal(Te, "pr2", res.Failures[0].Molecule.Name)
	assert.True(Te, errors.Is(res.Failures[0], chem.ErrExternal))
	assert.Equal(Te, "pr3", res.Failures[1].Molecule.Name)
	assert.True(Te, errors.Is(res.Failures[1].Err, chem.ErrUnsupportedInput))
	var E *chem.Error
	require.True(Te, errors.As(res.Failures[1].Err, &E))
	assert.False(Te, E.Critical())
	require.Len(Te, res.Notices, 1)
	assert.Equal(Te, StageHydrogens, res.Notices[0].Stage)
	for _, f := range []string{"pr1_addH_suc.mol2", "pr2_addH_err.mol2", "pr3_addH_err.mol2"} {
		assert.FileExists(Te, filepath.Join(P.OutDir(), f))
	}
	//the input collection is untouched
	assert.Equal(Te, 3, col.Len())
}

func TestAddHydrogensNoFailures(Te *testing.T) {
	P := newParser(Te, &fakeBuilder{Te: Te}, &fakeOptimizer{})
	col := chem.NewCollection("one", []*chem.Molecule{cdxmlCollection(Te, P).Molecules[0]})
	res, err := P.AddHydrogens(context.Background(), col)
	require.NoError(Te, err)
	assert.Empty(Te, res.Failures)
	assert.Empty(Te, res.Notices)
	//nothing is serialized unless asked
	entries, err := os.ReadDir(P.OutDir())
	require.NoError(Te, err)
	assert.Empty(Te, entries)
}

func smilesCollection(Te *testing.T, n int) *chem.Collection {
	mols := make([]*chem.Molecule, n)
	for i := range mols {
		mols[i] = ethanol(Te)
		mols[i].Name = fmt.Sprintf("m%d", i+1)
	}
	return chem.NewCollection("input", mols)
}

func TestPreoptGeom(Te *testing.T) {
	o := &fakeOptimizer{fail: map[string]bool{"m2": true}}
	P := newParser(Te, &fakeBuilder{Te: Te}, o, WithSerialize(true), WithWorkers(2))
	col := smilesCollection(Te, 4)
	res, err := P.PreoptGeom(context.Background(), col, 0)
	require.NoError(Te, err)
	assert.Equal(Te, "input_preopt", res.Collection.Name)
	assert.Equal(Te, []string{"m1", "m3", "m4"}, res.Collection.Names())
	require.Len(Te, res.Failures, 1)
	assert.Equal(Te, StagePreopt, res.Failures[0].Stage)
	assert.Equal(Te, "m2", res.Failures[0].Molecule.Name)
	assert.FileExists(Te, filepath.Join(P.OutDir(), "m2_preopt_err.mol2"))
	assert.FileExists(Te, filepath.Join(P.OutDir(), "m1_preopt_suc.mol2"))
	assert.DirExists(Te, filepath.Join(P.OutDir(), "scratch"))
	assert.Equal(Te, 4, o.calls)

	//a second run reuses the backups of the successful molecules
	res, err = P.PreoptGeom(context.Background(), col, 5)
	require.NoError(Te, err)
	assert.Len(Te, res.Collection.Molecules, 3)
	assert.Equal(Te, 5, o.calls)
}

func TestPreoptGeomBadUpdate(Te *testing.T) {
	P := newParser(Te, &fakeBuilder{Te: Te}, &fakeOptimizer{})
	_, err := P.PreoptGeom(context.Background(), smilesCollection(Te, 1), -1)
	assert.True(Te, errors.Is(err, chem.ErrBadConfig))
}

func TestPrepCollection(Te *testing.T) {
	b := &fakeBuilder{Te: Te, fail: map[string]bool{"pr2": true}}
	o := &fakeOptimizer{fail: map[string]bool{"pr1": true}}
	P := newParser(Te, b, o)
	res, err := P.PrepCollection(context.Background(), cdxmlCollection(Te, P), 1)
	require.NoError(Te, err)
	assert.Equal(Te, "three_hadd_preopt", res.Collection.Name)
	assert.Equal(Te, 0, res.Collection.Len())
	require.Len(Te, res.Failures, 3)
	assert.Equal(Te, StageHydrogens, res.Failures[0].Stage)
	assert.Equal(Te, StageHydrogens, res.Failures[1].Stage)
	assert.Equal(Te, StagePreopt, res.Failures[2].Stage)
	assert.Equal(Te, "pr1", res.Failures[2].Molecule.Name)
	assert.Len(Te, res.Notices, 1)
}

const ammonium = `<?xml version="1.0" encoding="UTF-8" ?>
<CDXML BondLength="14.40">
<page id="1">
<fragment id="2">
<n id="3" p="100.00 120.00"/>
<n id="4" p="112.47 127.20" Element="7" Charge="1"/>
<b id="5" B="3" E="4"/>
</fragment>
</page>
</CDXML>
`

func TestAddHydrogensKeepsCharge(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "ammonium.cdxml")
	require.NoError(Te, os.WriteFile(name, []byte(ammonium), 0o644))
	P := newParser(Te, &fakeBuilder{Te: Te, drop: true}, &fakeOptimizer{})
	res, err := P.FromCDXML(context.Background(), name)
	require.NoError(Te, err)
	require.Equal(Te, 1, res.Collection.Molecules[0].Charge())
	hadd, err := P.AddHydrogens(context.Background(), res.Collection)
	require.NoError(Te, err)
	require.Len(Te, hadd.Collection.Molecules, 1)
	assert.Equal(Te, 1, hadd.Collection.Molecules[0].Charge())
}

func TestPrepare(Te *testing.T) {
	o := &fakeOptimizer{}
	P := newParser(Te, &fakeBuilder{Te: Te}, o)
	in := SMILES{"CCO"}
	res, err := P.Parse(context.Background(), in)
	require.NoError(Te, err)
	//the built structure has hydrogens already, so it only gets pre-optimized
	prep, err := P.Prepare(context.Background(), in, res, 1)
	require.NoError(Te, err)
	assert.Equal(Te, SMILESCollection+"_preopt", prep.Collection.Name)
	assert.Equal(Te, []string{"pr2024-03-07"}, prep.Collection.Names())
	assert.Empty(Te, prep.Failures)
	assert.Equal(Te, 1, o.calls)

	list := SMILESList{Values: []string{"CCO", "CO"}, Names: []string{"x"}}
	res, err = P.Parse(context.Background(), list)
	require.NoError(Te, err)
	prep, err = P.Prepare(context.Background(), list, res, 1)
	require.NoError(Te, err)
	assert.Equal(Te, 2, prep.Collection.Len())
	assert.Empty(Te, prep.Failures)
	//the notice about the names is kept
	require.Len(Te, prep.Notices, 1)
	assert.Equal(Te, StageSMILES, prep.Notices[0].Stage)

	cd := CDXMLFile{"../cdxml/testdata/three.cdxml"}
	res, err = P.Parse(context.Background(), cd)
	require.NoError(Te, err)
	prep, err = P.Prepare(context.Background(), cd, res, 1)
	require.NoError(Te, err)
	assert.Equal(Te, "three_hadd_preopt", prep.Collection.Name)
	//pr3 already has explicit hydrogens
	require.Len(Te, prep.Failures, 1)
	assert.Equal(Te, StageHydrogens, prep.Failures[0].Stage)

	_, err = P.Prepare(context.Background(), nil, res, 1)
	assert.True(Te, errors.Is(err, chem.ErrUnsupportedInput))
}
