/*
 * prep.go, part of somngo.
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
	"path/filepath"
	"time"

	chem "github.com/rmera/somngo"
	"github.com/rmera/somngo/batch"
)

//AddHydrogens adds explicit hydrogens to every molecule in col. Molecules that already
//have explicit hydrogens, and those for which the addition fails, are returned as failures,
//together with a notice. The collection returned is named <name of col>_hadd. col is not modified.
func (P *Parser) AddHydrogens(ctx context.Context, col *chem.Collection) (*Result, error) {
	if col == nil {
		return nil, chem.NewError(chem.ErrUnsupportedInput, "", "Nil collection", "Parser.AddHydrogens")
	}
	res := new(Result)
	var mols []*chem.Molecule
	for _, mol := range col.Molecules {
		if err := ctx.Err(); err != nil {
			return nil, chem.WrapError(chem.ErrExternal, "", err, "Parser.AddHydrogens")
		}
		if chem.HasExplicitHydrogens(mol) {
			err := chem.NewError(chem.ErrUnsupportedInput, "", fmt.Sprintf("%s already has %d explicit hydrogens", mol.Name, chem.ExplicitHydrogens(mol)), "Parser.AddHydrogens")
			res.Failures = append(res.Failures, failure(mol, StageHydrogens, err))
			continue
		}
		out, err := P.builder.AddHydrogens(ctx, mol)
		if err == nil && (out == nil || out.Len() == 0) {
			err = chem.NewError(chem.ErrParse, "", fmt.Sprintf("Adding hydrogens to %s gave no atoms", mol.Name), "Parser.AddHydrogens")
		}
		if err != nil {
			res.Failures = append(res.Failures, failure(mol, StageHydrogens, err))
			continue
		}
		//adding hydrogens doesn't change the total charge or multiplicity
		out.Name = mol.Name
		out.SetCharge(mol.Charge())
		out.SetUnpaired(mol.Unpaired())
		mols = append(mols, out)
	}
	if len(res.Failures) > 0 {
		res.Notices = append(res.Notices, P.notice(ctx, StageHydrogens, "adding hydrogens to at least one input structure failed; try removing all explicit hydrogens from input"))
	}
	res.Collection = chem.NewCollection(col.Name+"_hadd", mols)
	if err := P.writeStage(res, "addH"); err != nil {
		return nil, chem.ErrDecorate(err, "Parser.AddHydrogens")
	}
	return res, nil
}

//PreoptGeom optimizes the geometry of every molecule in col concurrently, reporting progress
//every update seconds. Zero means DefaultUpdate, negative values are an error. The scratch directories
//and the backups go in the scratch subdirectory of the output directory, so a second call with the
//same molecules reuses the previous results. Molecules whose optimization fails are returned as
//failures. The collection returned is named <name of col>_preopt.
func (P *Parser) PreoptGeom(ctx context.Context, col *chem.Collection, update int) (*Result, error) {
	if col == nil {
		return nil, chem.NewError(chem.ErrUnsupportedInput, "", "Nil collection", "Parser.PreoptGeom")
	}
	if update < 0 {
		return nil, chem.NewError(chem.ErrBadConfig, "", fmt.Sprintf("update must be a positive integer number of seconds, got %d", update), "Parser.PreoptGeom")
	}
	if update == 0 {
		update = DefaultUpdate
	}
	runner := batch.New(
		batch.WithDir(filepath.Join(P.outDir, "scratch")),
		batch.WithUpdate(time.Duration(update)*time.Second),
		batch.WithWorkers(P.workers),
		batch.WithKeepScratch(P.keep),
	)
	out, err := runner.Run(ctx, col, P.optimizer.Optimize)
	if err != nil {
		return nil, chem.ErrDecorate(err, "Parser.PreoptGeom")
	}
	res := new(Result)
	var mols []*chem.Molecule
	for _, o := range out {
		if o.Err != nil {
			res.Failures = append(res.Failures, failure(o.Input, StagePreopt, o.Err))
			continue
		}
		mols = append(mols, o.Result)
	}
	res.Collection = chem.NewCollection(col.Name+"_preopt", mols)
	if err := P.writeStage(res, "preopt"); err != nil {
		return nil, chem.ErrDecorate(err, "Parser.PreoptGeom")
	}
	return res, nil
}

//PrepCollection adds hydrogens to col and then pre-optimizes the result. It returns the
//prepared collection, the failures of both steps and all the notices.
func (P *Parser) PrepCollection(ctx context.Context, col *chem.Collection, update int) (*Result, error) {
	hadd, err := P.AddHydrogens(ctx, col)
	if err != nil {
		return nil, chem.ErrDecorate(err, "Parser.PrepCollection")
	}
	pre, err := P.PreoptGeom(ctx, hadd.Collection, update)
	if err != nil {
		return nil, chem.ErrDecorate(err, "Parser.PrepCollection")
	}
	return &Result{
		Collection: pre.Collection,
		Failures:   append(hadd.Failures, pre.Failures...),
		Notices:    append(hadd.Notices, pre.Notices...),
	}, nil
}

//failure builds a Failure, marking the error as non-critical.
func failure(mol *chem.Molecule, stage Stage, err error) Failure {
	var E *chem.Error
	if errors.As(err, &E) {
		E.SetCritical(false)
	}
	return Failure{Molecule: mol, Stage: stage, Err: err}
}
