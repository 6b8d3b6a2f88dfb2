/*
 * parsing.go, part of somngo.
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

//Package parsing turns chemical input (a CDXML drawing, SMILES strings or a table of SMILES)
//into a collection of molecules with explicit hydrogens and a pre-optimized 3D geometry.
//
//Problems with the input itself (wrong extension, unreadable SMILES, bad settings) abort
//the call with an error. Molecules that fail a processing step are returned as Failures,
//and non-fatal diagnostics as Notices, in the Result of each operation.
//Optionally, every molecule produced or rejected by a step is written to disk as MOL2.
package parsing

import (
	"context"
	"log/slog"
	"time"

	chem "github.com/rmera/somngo"
	"github.com/rmera/somngo/babel"
	"github.com/rmera/somngo/ctxlog"
	"github.com/rmera/somngo/qm"
)

//DefaultOutDir is the directory where molecules are serialized, and where the scratch directory goes.
const DefaultOutDir = "somn_failed_to_parse"

//DefaultUpdate is the default interval, in seconds, between progress reports during pre-optimization.
const DefaultUpdate = 2

//Builder builds molecules from SMILES and adds hydrogens to them. *babel.Handle is a Builder.
type Builder interface {
	FromSMILES(ctx context.Context, smiles, title string, speed babel.Speed) (*chem.Molecule, error)
	AddHydrogens(ctx context.Context, mol *chem.Molecule) (*chem.Molecule, error)
}

//Stage identifies a processing step.
type Stage string

const (
	StageCDXML     Stage = "cdxml"
	StageSMILES    Stage = "smiles"
	StageHydrogens Stage = "addH"
	StagePreopt    Stage = "preopt"
)

//Failure is a molecule that failed a processing step.
type Failure struct {
	Molecule *chem.Molecule
	Stage    Stage
	Err      error
}

func (F Failure) Error() string {
	return string(F.Stage) + ": " + F.Molecule.Name + ": " + F.Err.Error()
}

func (F Failure) Unwrap() error {
	return F.Err
}

//Notice is a non-fatal diagnostic produced by a processing step.
type Notice struct {
	Stage   Stage
	Message string
}

//Result is the output of a processing step.
type Result struct {
	Collection *chem.Collection
	Failures   []Failure
	Notices    []Notice
}

//Parser converts and prepares chemical input. Use New to get one.
type Parser struct {
	builder    Builder
	optimizer  qm.Optimizer
	serialize  bool
	outDir     string
	prefix     string
	smilesName string
	workers    int
	keep       bool
	now        func() time.Time
	logger     *slog.Logger
}

//Option configures a Parser.
type Option func(*Parser)

//WithBuilder sets the molecule builder. The default is an Open Babel handle with the default settings.
func WithBuilder(b Builder) Option {
	return func(P *Parser) { P.builder = b }
}

//WithOptimizer sets the geometry optimizer. The default is an xtb handle with the default settings.
func WithOptimizer(o qm.Optimizer) Option {
	return func(P *Parser) { P.optimizer = o }
}

//WithSerialize turns the MOL2 serialization of the molecules processed by each step on or off.
func WithSerialize(s bool) Option {
	return func(P *Parser) { P.serialize = s }
}

//WithOutDir sets the directory for serialized molecules and for scratch files.
func WithOutDir(dir string) Option {
	return func(P *Parser) { P.outDir = dir }
}

//WithPrefix sets the prefix for the names of molecules read from CDXML files and
//of SMILES given with a name. The default is "pr".
func WithPrefix(prefix string) Option {
	return func(P *Parser) { P.prefix = prefix }
}

//WithSMILESName sets the base name for molecules built from unnamed SMILES.
//The default is the prefix followed by the current date.
func WithSMILESName(name string) Option {
	return func(P *Parser) { P.smilesName = name }
}

//WithWorkers sets how many optimizations run at the same time. 0 means one per CPU.
func WithWorkers(n int) Option {
	return func(P *Parser) { P.workers = n }
}

//WithKeepScratch keeps the scratch directories of successful optimizations.
func WithKeepScratch(keep bool) Option {
	return func(P *Parser) { P.keep = keep }
}

//WithClock sets the function giving the current time, used for generated names.
func WithClock(now func() time.Time) Option {
	return func(P *Parser) { P.now = now }
}

//WithLogger sets the logger. By default the logger comes from the context of each call.
func WithLogger(l *slog.Logger) Option {
	return func(P *Parser) { P.logger = l }
}

//New returns a parser. Without options it doesn't serialize, writes to DefaultOutDir,
//and uses obabel and xtb from the PATH.
func New(opts ...Option) *Parser {
	P := &Parser{outDir: DefaultOutDir, prefix: "pr", now: time.Now}
	for _, o := range opts {
		o(P)
	}
	if P.builder == nil {
		P.builder = babel.NewHandle()
	}
	if P.optimizer == nil {
		P.optimizer = qm.NewXTBHandle()
	}
	if P.outDir == "" {
		P.outDir = DefaultOutDir
	}
	return P
}

//OutDir returns the directory where molecules are serialized.
func (P *Parser) OutDir() string {
	return P.outDir
}

func (P *Parser) log(ctx context.Context) *slog.Logger {
	if P.logger != nil {
		return P.logger
	}
	return ctxlog.FromContext(ctx)
}

//notice logs a notice and returns it.
func (P *Parser) notice(ctx context.Context, stage Stage, msg string) Notice {
	P.log(ctx).Warn(msg, "stage", string(stage))
	return Notice{Stage: stage, Message: msg}
}

//today returns the date used in generated names.
func (P *Parser) today() string {
	return P.now().Format("2006-01-02")
}

//baseName returns the base name for molecules built from unnamed SMILES.
func (P *Parser) baseName() string {
	if P.smilesName != "" {
		return P.smilesName
	}
	return P.prefix + P.today()
}
