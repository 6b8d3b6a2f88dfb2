/*
 * cdxml.go, part of somngo.
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
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	chem "github.com/rmera/somngo"
	v3 "github.com/rmera/somngo/v3"
)

//DefaultPrefix is the prefix for the enumerated names of parsed structures.
const DefaultPrefix = "pr"

const (
	defaultBondLength = 14.4 //points, ChemDraw's default
	targetBondLength  = 1.5  //A
	ecpType           = "ExternalConnectionPoint"
)

type document struct {
	XMLName    xml.Name `xml:"CDXML"`
	BondLength float64  `xml:"BondLength,attr"`
	Pages      []page   `xml:"page"`
}

type page struct {
	Fragments []fragment `xml:"fragment"`
	Groups    []group    `xml:"group"`
}

type group struct {
	Fragments []fragment `xml:"fragment"`
	Groups    []group    `xml:"group"`
}

type fragment struct {
	ID    string `xml:"id,attr"`
	Nodes []node `xml:"n"`
	Bonds []bond `xml:"b"`
}

type node struct {
	ID        string     `xml:"id,attr"`
	P         string     `xml:"p,attr"`
	Element   string     `xml:"Element,attr"`
	Charge    string     `xml:"Charge,attr"`
	Type      string     `xml:"Type,attr"`
	Fragments []fragment `xml:"fragment"`
}

type bond struct {
	ID    string `xml:"id,attr"`
	B     string `xml:"B,attr"`
	E     string `xml:"E,attr"`
	Order string `xml:"Order,attr"`
}

//fragments returns the top-level fragments of the document, in order.
func (D *document) fragments() []fragment {
	var ret []fragment
	var fromGroups func([]group)
	fromGroups = func(gs []group) {
		for _, g := range gs {
			ret = append(ret, g.Fragments...)
			fromGroups(g.Groups)
		}
	}
	for _, p := range D.Pages {
		ret = append(ret, p.Fragments...)
		fromGroups(p.Groups)
	}
	return ret
}

//ReadFile parses the CDXML file path into a collection named after the file. The
//molecules are named prefix1, prefix2... in document order. The path must
//have a .cdxml extension.
func ReadFile(path, prefix string) (*chem.Collection, error) {
	if !strings.EqualFold(filepath.Ext(path), ".cdxml") {
		return nil, chem.NewError(chem.ErrBadExtension, path, "cdxml path not specified - wrong extension", "cdxml.ReadFile")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, chem.WrapError(chem.ErrMissingFile, path, err, "cdxml.ReadFile")
	}
	defer f.Close()
	mols, err := Read(f, prefix)
	if err != nil {
		return nil, chem.ErrDecorate(err, "cdxml.ReadFile")
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return chem.NewCollection(base, mols), nil
}

//Read parses a CDXML stream and returns one molecule per fragment containing atoms.
func Read(r io.Reader, prefix string) ([]*chem.Molecule, error) {
	doc := new(document)
	dec := xml.NewDecoder(r)
	dec.Strict = false //ChemDraw files declare an external DTD and may use HTML entities.
	dec.Entity = xml.HTMLEntity
	if err := dec.Decode(doc); err != nil {
		return nil, chem.WrapError(chem.ErrParse, "", err, "cdxml.Read")
	}
	scale := targetBondLength / defaultBondLength
	if doc.BondLength > 0 {
		scale = targetBondLength / doc.BondLength
	}
	var mols []*chem.Molecule
	for _, frag := range doc.fragments() {
		b := newBuilder(scale)
		if err := b.walk(frag); err != nil {
			return nil, chem.ErrDecorate(err, "cdxml.Read")
		}
		if len(b.atoms) == 0 {
			continue
		}
		mol, err := b.molecule(fmt.Sprintf("%s%d", prefix, len(mols)+1))
		if err != nil {
			return nil, chem.ErrDecorate(err, "cdxml.Read")
		}
		mols = append(mols, mol)
	}
	if len(mols) == 0 {
		return nil, chem.NewError(chem.ErrParse, "", "no structures found in CDXML document", "cdxml.Read")
	}
	return mols, nil
}

//builder flattens a fragment, and its nested abbreviation fragments, into a single molecule.
type builder struct {
	scale  float64
	atoms  []*chem.Atom
	coords []float64
	ids    map[string]int      //node id to atom position
	ecps   map[string]bool     //external connection points
	abbrev map[string][]string //abbreviation node id to the ids of its connection points
	bonds  []bond
}

func newBuilder(scale float64) *builder {
	return &builder{scale: scale, ids: map[string]int{}, ecps: map[string]bool{}, abbrev: map[string][]string{}}
}

func (B *builder) walk(f fragment) error {
	for _, n := range f.Nodes {
		switch {
		case len(n.Fragments) > 0:
			for _, inner := range n.Fragments {
				for _, in := range inner.Nodes {
					if in.Type == ecpType {
						B.abbrev[n.ID] = append(B.abbrev[n.ID], in.ID)
					}
				}
				if err := B.walk(inner); err != nil {
					return err
				}
			}
		case n.Type == ecpType:
			B.ecps[n.ID] = true
		default:
			if err := B.atom(n); err != nil {
				return err
			}
		}
	}
	B.bonds = append(B.bonds, f.Bonds...)
	return nil
}

func (B *builder) atom(n node) error {
	z := 6 //carbon is implicit in ChemDraw
	var err error
	if n.Element != "" {
		if z, err = strconv.Atoi(n.Element); err != nil {
			return chem.NewError(chem.ErrParse, "", fmt.Sprintf("node %s: bad element %q", n.ID, n.Element), "atom")
		}
	}
	symbol := chem.SymbolFromNumber(z)
	if symbol == "" {
		return chem.NewError(chem.ErrParse, "", fmt.Sprintf("node %s: unknown atomic number %d", n.ID, z), "atom")
	}
	p := strings.Fields(n.P)
	if len(p) < 2 {
		return chem.NewError(chem.ErrParse, "", fmt.Sprintf("node %s: missing position", n.ID), "atom")
	}
	x, errx := strconv.ParseFloat(p[0], 64)
	y, erry := strconv.ParseFloat(p[1], 64)
	if errx != nil || erry != nil {
		return chem.NewError(chem.ErrParse, "", fmt.Sprintf("node %s: bad position %q", n.ID, n.P), "atom")
	}
	at := &chem.Atom{Symbol: symbol, Id: len(B.atoms) + 1, Mass: chem.Mass(symbol)}
	at.Name = fmt.Sprintf("%s%d", symbol, at.Id)
	if n.Charge != "" {
		if at.Formal, err = strconv.Atoi(n.Charge); err != nil {
			return chem.NewError(chem.ErrParse, "", fmt.Sprintf("node %s: bad charge %q", n.ID, n.Charge), "atom")
		}
	}
	B.ids[n.ID] = len(B.atoms)
	B.atoms = append(B.atoms, at)
	//ChemDraw's y axis points down.
	B.coords = append(B.coords, x*B.scale, -y*B.scale, 0)
	return nil
}

//neighbor returns the atom position bonded to the connection point ecp.
func (B *builder) neighbor(ecp string) (int, bool) {
	for _, b := range B.bonds {
		other := ""
		if b.B == ecp {
			other = b.E
		} else if b.E == ecp {
			other = b.B
		}
		if i, ok := B.ids[other]; ok {
			return i, true
		}
	}
	return 0, false
}

//resolve maps a node id to an atom position, going through abbreviations.
func (B *builder) resolve(id string) (int, error) {
	if i, ok := B.ids[id]; ok {
		return i, nil
	}
	if ps, ok := B.abbrev[id]; ok && len(ps) > 0 {
		if i, ok := B.neighbor(ps[0]); ok {
			return i, nil
		}
	}
	return 0, chem.NewError(chem.ErrParse, "", fmt.Sprintf("bond to unknown node %s", id), "resolve")
}

func (B *builder) molecule(name string) (*chem.Molecule, error) {
	charge := 0
	for _, v := range B.atoms {
		charge += v.Formal
	}
	top := chem.NewTopology(B.atoms, charge, 0)
	for _, b := range B.bonds {
		if B.ecps[b.B] || B.ecps[b.E] {
			continue
		}
		i, err := B.resolve(b.B)
		if err != nil {
			return nil, chem.ErrDecorate(err, "molecule")
		}
		j, err := B.resolve(b.E)
		if err != nil {
			return nil, chem.ErrDecorate(err, "molecule")
		}
		order := 1.0
		if b.Order != "" {
			if o, err := strconv.ParseFloat(b.Order, 64); err == nil && o > 0 {
				order = o
			}
		}
		if _, err := top.AddBond(i, j, order, ""); err != nil {
			return nil, chem.ErrDecorate(err, "molecule")
		}
	}
	coords, err := v3.NewMatrix(B.coords)
	if err != nil {
		return nil, chem.WrapError(chem.ErrParse, "", err, "molecule")
	}
	return chem.NewMolecule(name, top, coords)
}
