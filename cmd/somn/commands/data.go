/*
 * data.go, part of somngo.
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
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rmera/somngo/ctxlog"
	"github.com/rmera/somngo/data"
)

type dataOptions struct {
	sheet string
	name  string
}

func (o *dataOptions) load(path string) (*data.Handler, error) {
	opts := []data.LoadOption{}
	if o.sheet != "" {
		opts = append(opts, data.WithSheet(o.sheet))
	}
	name := o.name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	opts = append(opts, data.WithName(name))
	return data.Load(data.File{Path: path}, opts...)
}

func dataCmd() *cobra.Command {
	o := new(dataOptions)
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Load and clean tabular experimental data",
	}
	cmd.PersistentFlags().StringVar(&o.sheet, "sheet", "", "sheet to read from XLSX files, the first one by default")
	cmd.PersistentFlags().StringVar(&o.name, "name", "", "name of the dataset, the file name by default")
	cmd.AddCommand(cleanCmd(o), describeCmd(o))
	return cmd
}

func cleanCmd(o *dataOptions) *cobra.Command {
	var out, orient string
	cmd := &cobra.Command{
		Use:   "clean <table>",
		Short: "Clean the handles of a CSV, XLSX or Feather table and write it to Feather",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			or, err := data.ParseOrient(orient)
			if err != nil {
				return err
			}
			H, err := o.load(args[0])
			if err != nil {
				return err
			}
			if out == "" {
				out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + "_clean.feather"
			}
			if err := H.ToFeather(out, or); err != nil {
				return err
			}
			r, c := H.Table().Dims()
			ctxlog.FromContext(cmd.Context()).Info("wrote table", "path", out, "rows", r, "columns", c, "orient", or.String())
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output Feather file, <table>_clean.feather by default")
	cmd.Flags().StringVar(&orient, "orient", "", "orientation: column (default), index or both")
	return cmd
}

func describeCmd(o *dataOptions) *cobra.Command {
	var columns []string
	var z float64
	var hist string
	cmd := &cobra.Command{
		Use:   "describe <table>",
		Short: "Print statistics and outliers of numeric columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			H, err := o.load(args[0])
			if err != nil {
				return err
			}
			if len(columns) == 0 {
				columns = H.Table().Columns
			}
			log := ctxlog.FromContext(cmd.Context())
			w := cmd.OutOrStdout()
			for _, col := range columns {
				S, err := H.Describe(col)
				if err != nil {
					log.Debug("skipping column", "column", col, "error", err)
					continue
				}
				fmt.Fprintln(w, S.String())
				out, err := H.Outliers(col, z)
				if err != nil {
					return err
				}
				if len(out) > 0 {
					fmt.Fprintf(w, "  outliers (|z| > %g): %s\n", z, strings.Join(out, ", "))
				}
				if hist != "" {
					if err := os.MkdirAll(hist, 0o755); err != nil {
						return err
					}
					name := filepath.Join(hist, col+".png")
					if err := H.PlotHistogram(col, name, 0); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&columns, "column", nil, "columns to describe, all numeric ones by default")
	cmd.Flags().Float64Var(&z, "z", 3, "z-score above which a value is reported as an outlier")
	cmd.Flags().StringVar(&hist, "hist", "", "directory where a histogram of each column is saved")
	return cmd
}
