/*
 * batch.go, part of somngo.
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

//Package batch runs a function over every molecule of a collection, with a
//bounded number of concurrent workers, periodic progress reports and compressed
//backups of the successful results. A rerun with the same backup directory
//reuses the backups instead of recomputing.
package batch

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	chem "github.com/rmera/somngo"
	"github.com/rmera/somngo/ctxlog"
	"golang.org/x/sync/errgroup"
)

//Func processes one molecule, working in its own scratch directory dir.
type Func func(ctx context.Context, mol *chem.Molecule, dir string) (*chem.Molecule, error)

//Outcome is the result of processing one molecule. Exactly one of Result and Err is nil.
type Outcome struct {
	Input  *chem.Molecule
	Result *chem.Molecule
	Err    error
	Reused bool //the result was read from a backup
}

//Runner runs a Func over collections.
type Runner struct {
	workers int
	update  time.Duration
	dir     string
	keep    bool
}

//Option configures a Runner.
type Option func(*Runner)

//WithWorkers sets the maximum number of molecules processed at the same time.
//Values under 1 mean one per CPU.
func WithWorkers(n int) Option {
	return func(R *Runner) { R.workers = n }
}

//WithUpdate sets how often progress is logged.
func WithUpdate(d time.Duration) Option {
	return func(R *Runner) { R.update = d }
}

//WithDir sets the directory for scratch directories and backups.
func WithDir(dir string) Option {
	return func(R *Runner) { R.dir = dir }
}

//WithKeepScratch keeps the scratch directory of successful runs. Scratch directories of failed runs are always kept.
func WithKeepScratch(keep bool) Option {
	return func(R *Runner) { R.keep = keep }
}

//New returns a runner with one worker per CPU, progress every 2 seconds
//and the directory "scratch".
func New(opts ...Option) *Runner {
	R := &Runner{update: 2 * time.Second, dir: "scratch"}
	for _, o := range opts {
		o(R)
	}
	if R.workers < 1 {
		R.workers = runtime.NumCPU()
	}
	if R.update <= 0 {
		R.update = 2 * time.Second
	}
	return R
}

//Dir returns the scratch and backup directory.
func (R *Runner) Dir() string {
	return R.dir
}

//Run applies fn to every molecule in col and returns the outcomes in the order of col.
//A failure of one molecule doesn't affect the others. The only error returned is that of
//a cancelled ctx, in which case the outcomes are incomplete.
func (R *Runner) Run(ctx context.Context, col *chem.Collection, fn Func) ([]Outcome, error) {
	log := ctxlog.FromContext(ctx)
	if err := os.MkdirAll(R.dir, 0o755); err != nil {
		return nil, chem.WrapError(chem.ErrExternal, R.dir, err, "Runner.Run")
	}
	total := col.Len()
	out := make([]Outcome, total)
	var done atomic.Int64
	log.Info("starting batch", "collection", col.Name, "molecules", total, "workers", R.workers)

	stop := make(chan struct{})
	reported := make(chan struct{})
	go func() {
		defer close(reported)
		ticker := time.NewTicker(R.update)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				log.Info("batch progress", "collection", col.Name, "done", done.Load(), "total", total)
			case <-stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(R.workers)
	for i, mol := range col.Molecules {
		i, mol := i, mol //per-iteration copies; go.mod declares go 1.21 (pre-1.22 loop semantics).
		g.Go(func() error {
			defer done.Add(1)
			out[i] = R.one(gctx, mol, fn)
			return nil
		})
	}
	g.Wait() //the goroutines never return errors.
	close(stop)
	<-reported
	if err := ctx.Err(); err != nil {
		return out, chem.WrapError(chem.ErrExternal, "", err, "Runner.Run")
	}
	log.Info("batch done", "collection", col.Name, "total", total)
	return out, nil
}

//one processes a single molecule, or recovers it from its backup. Every call gets
//its own scratch directory, even for molecules with the same name.
func (R *Runner) one(ctx context.Context, mol *chem.Molecule, fn Func) Outcome {
	log := ctxlog.FromContext(ctx)
	o := Outcome{Input: mol}
	if err := ctx.Err(); err != nil {
		o.Err = chem.WrapError(chem.ErrExternal, "", err, "Runner.one")
		return o
	}
	bname, err := BackupName(R.dir, mol)
	if err != nil {
		log.Warn("can't name backup", "molecule", mol.Name, "error", err)
		bname = ""
	}
	if bname != "" {
		if prev, err := ReadBackup(bname); err == nil && prev.Len() == mol.Len() {
			prev.Name = mol.Name
			prev.SetCharge(mol.Charge())
			prev.SetUnpaired(mol.Unpaired())
			log.Debug("reusing backup", "molecule", mol.Name, "file", bname)
			o.Result = prev
			o.Reused = true
			return o
		}
	}
	dir := filepath.Join(R.dir, safeName(mol.Name)+"-"+uuid.NewString())
	res, err := fn(ctx, mol, dir)
	if err != nil {
		log.Debug("molecule failed", "molecule", mol.Name, "error", err, "scratch", dir)
		o.Err = err
		return o
	}
	o.Result = res
	if bname != "" {
		if err := WriteBackup(bname, res); err != nil {
			log.Warn("can't write backup", "molecule", mol.Name, "error", err)
		}
	}
	if !R.keep {
		os.RemoveAll(dir)
	}
	return o
}
