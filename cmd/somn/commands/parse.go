/*
 * parse.go, part of somngo.
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
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	chem "github.com/rmera/somngo"
	"github.com/rmera/somngo/babel"
	"github.com/rmera/somngo/parsing"
	"github.com/rmera/somngo/qm"
)

type parseOptions struct {
	smiles    []string
	names     []string
	table     string
	prep      bool
	serialize bool
	outDir    string
	update    int
	workers   int
	mol2      string
}

func parseCmd(g *globals) *cobra.Command {
	o := new(parseOptions)
	cmd := &cobra.Command{
		Use:   "parse [file.cdxml]",
		Short: "Read structures from a CDXML file, SMILES or a SMILES table",
		Long: `Read structures from a CDXML file, one or more SMILES (--smiles) or a CSV/XLSX
table of SMILES (--table). With --prep, the geometries are pre-optimized with
xtb, after adding explicit hydrogens to structures read from CDXML (those built
from SMILES already have them).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := o.input(args)
			if err != nil {
				return err
			}
			P, err := o.parser(g)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			res, err := P.Parse(ctx, in)
			if err != nil {
				return err
			}
			if o.prep {
				res, err = P.Prepare(ctx, in, res, o.update)
				if err != nil {
					return err
				}
			}
			report(cmd.OutOrStdout(), res)
			if o.mol2 != "" {
				return writeCollection(o.mol2, res.Collection)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringSliceVar(&o.smiles, "smiles", nil, "SMILES to build, can be repeated")
	f.StringSliceVar(&o.names, "names", nil, "names for the SMILES given with --smiles")
	f.StringVar(&o.table, "table", "", "CSV or XLSX table with SMILES, and optionally names, after the index column")
	f.BoolVar(&o.prep, "prep", false, "pre-optimize the structures, adding hydrogens to CDXML ones first")
	f.BoolVar(&o.serialize, "serialize", false, "write the molecules of each step as MOL2 files")
	f.StringVar(&o.outDir, "out", "", "directory for serialized molecules and scratch files")
	f.IntVar(&o.update, "update", 0, "seconds between progress reports during pre-optimization")
	f.IntVar(&o.workers, "workers", -1, "concurrent optimizations, 0 means one per CPU")
	f.StringVar(&o.mol2, "mol2", "", "write the resulting structures to this MOL2 file")
	return cmd
}

//input returns the parser input selected by the flags and arguments.
func (o *parseOptions) input(args []string) (parsing.Input, error) {
	selected := 0
	if len(args) == 1 {
		selected++
	}
	if len(o.smiles) > 0 {
		selected++
	}
	if o.table != "" {
		selected++
	}
	if selected != 1 {
		return nil, chem.NewError(chem.ErrUnsupportedInput, "", "give exactly one of a CDXML file, --smiles or --table", "parse")
	}
	switch {
	case len(args) == 1:
		return parsing.CDXMLFile{Path: args[0]}, nil
	case o.table != "":
		return parsing.SMILESTable{Path: o.table}, nil
	case len(o.smiles) == 1 && len(o.names) == 0:
		return parsing.SMILES{Value: o.smiles[0]}, nil
	default:
		return parsing.SMILESList{Values: o.smiles, Names: o.names}, nil
	}
}

//parser builds the parser from the configuration, with the flags on top.
func (o *parseOptions) parser(g *globals) (*parsing.Parser, error) {
	cfg := g.cfg
	ob := babel.NewHandle()
	ob.SetCommand(cfg.Babel.Command)
	ob.SetExtra(cfg.Babel.Extra...)
	xtb := qm.NewXTBHandle()
	xtb.SetCommand(cfg.XTB.Command)
	xtb.SetnCPU(cfg.XTB.CPUs)
	if err := xtb.SetCalc(qm.Calc{Method: cfg.XTB.Method, OptLevel: cfg.XTB.OptLevel, Dielectric: cfg.XTB.Dielectric}); err != nil {
		return nil, err
	}
	if o.update == 0 {
		o.update = cfg.Parser.Update
	}
	outDir := cfg.Parser.OutDir
	if o.outDir != "" {
		outDir = o.outDir
	}
	workers := cfg.Parser.Workers
	if o.workers >= 0 {
		workers = o.workers
	}
	return parsing.New(
		parsing.WithBuilder(ob),
		parsing.WithOptimizer(xtb),
		parsing.WithSerialize(o.serialize || cfg.Parser.Serialize),
		parsing.WithOutDir(outDir),
		parsing.WithPrefix(cfg.Parser.CDXMLPrefix),
		parsing.WithSMILESName(cfg.Parser.SMILESName),
		parsing.WithWorkers(workers),
	), nil
}

//report prints the molecules, failures and notices in res.
func report(w io.Writer, res *parsing.Result) {
	fmt.Fprintf(w, "collection %s: %d structures\n", res.Collection.Name, res.Collection.Len())
	for _, mol := range res.Collection.Molecules {
		fmt.Fprintf(w, "  %s\t%d atoms\n", mol.Name, mol.Len())
	}
	if len(res.Failures) > 0 {
		fmt.Fprintf(w, "failed: %d\n", len(res.Failures))
		for _, f := range res.Failures {
			fmt.Fprintf(w, "  %s\n", f.Error())
		}
	}
	for _, n := range res.Notices {
		fmt.Fprintf(w, "notice (%s): %s\n", n.Stage, n.Message)
	}
}

//writeCollection writes every molecule in col to a single MOL2 file.
func writeCollection(name string, col *chem.Collection) error {
	f, err := os.Create(name)
	if err != nil {
		return chem.WrapError(chem.ErrExternal, name, err, "writeCollection")
	}
	defer f.Close()
	for _, mol := range col.Molecules {
		if err := chem.Mol2Write(f, mol, 0); err != nil {
			return err
		}
	}
	return f.Close()
}
