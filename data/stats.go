/*
 * stats.go, part of somngo.
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

package data

import (
	"fmt"
	"math"

	chem "github.com/rmera/somngo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//Summary contains simple statistics for a numeric column.
type Summary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64 //sample standard deviation, NaN with less than 2 values
	Min    float64
	Max    float64
}

func (S Summary) String() string {
	return fmt.Sprintf("%s: n=%d mean=%.4g std=%.4g min=%.4g max=%.4g", S.Column, S.Count, S.Mean, S.Std, S.Min, S.Max)
}

//Describe returns statistics for the numeric column called column.
//Empty cells are ignored.
func (H *Handler) Describe(column string) (Summary, error) {
	vals, _, err := H.table.Floats(column)
	if err != nil {
		return Summary{}, chem.ErrDecorate(err, "Describe")
	}
	if len(vals) == 0 {
		return Summary{}, chem.NewError(chem.ErrParse, "", fmt.Sprintf("Column %s has no values", column), "Describe")
	}
	S := Summary{Column: column, Count: len(vals), Std: math.NaN()}
	if len(vals) > 1 {
		S.Mean, S.Std = stat.MeanStdDev(vals, nil)
	} else {
		S.Mean = vals[0]
	}
	S.Min = floats.Min(vals)
	S.Max = floats.Max(vals)
	return S, nil
}

//Outliers returns the handles of the rows where the value of column lies more than
//z standard deviations away from the mean of the column. It helps catching values
//entered in the wrong scale.
func (H *Handler) Outliers(column string, z float64) ([]string, error) {
	vals, handles, err := H.table.Floats(column)
	if err != nil {
		return nil, chem.ErrDecorate(err, "Outliers")
	}
	if z <= 0 {
		return nil, chem.NewError(chem.ErrBadConfig, "", fmt.Sprintf("Z-score threshold must be positive, got %g", z), "Outliers")
	}
	if len(vals) < 2 {
		return nil, nil
	}
	mean, std := stat.MeanStdDev(vals, nil)
	if std == 0 {
		return nil, nil
	}
	var ret []string
	for i, v := range vals {
		if math.Abs(stat.StdScore(v, mean, std)) > z {
			ret = append(ret, handles[i])
		}
	}
	return ret, nil
}

//PlotHistogram saves a histogram of the numeric column called column to path.
//The format is given by the extension of path (png, svg, pdf...). bins < 1 lets the
//number of bins be chosen from the number of values.
func (H *Handler) PlotHistogram(column, path string, bins int) error {
	vals, _, err := H.table.Floats(column)
	if err != nil {
		return chem.ErrDecorate(err, "PlotHistogram")
	}
	if len(vals) == 0 {
		return chem.NewError(chem.ErrParse, "", fmt.Sprintf("Column %s has no values", column), "PlotHistogram")
	}
	if bins < 1 {
		bins = int(math.Ceil(math.Sqrt(float64(len(vals)))))
	}
	p := plot.New()
	p.Title.Text = column
	if H.name != "" {
		p.Title.Text = H.name + ": " + column
	}
	p.X.Label.Text = column
	p.Y.Label.Text = "Count"
	h, err := plotter.NewHist(plotter.Values(vals), bins)
	if err != nil {
		return chem.WrapError(chem.ErrParse, "", err, "PlotHistogram")
	}
	p.Add(h)
	if err := p.Save(4*vg.Inch, 4*vg.Inch, path); err != nil {
		return chem.WrapError(chem.ErrExternal, path, err, "PlotHistogram")
	}
	return nil
}
