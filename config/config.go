/*
 * config.go, part of somngo.
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

//Package config loads the optional HCL configuration file of somn and
//applies the defaults for anything it doesn't set.
//
//A configuration file looks like:
//
//	parser {
//	  out_dir     = "somn_failed_to_parse"
//	  serialize   = true
//	  smiles_name = "pr${today}"
//	  update      = 2
//	}
//	babel {
//	  command = "obabel"
//	}
//	xtb {
//	  command = "xtb"
//	  method  = "gfn2"
//	}
//
//The variable today holds the current date as YYYY-MM-DD.
package config

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	chem "github.com/rmera/somngo"
	"github.com/rmera/somngo/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

//DateLayout is the layout of the today variable and of generated names.
const DateLayout = "2006-01-02"

//Config is the full configuration.
type Config struct {
	Parser Parser
	Babel  Babel
	XTB    XTB
}

//Parser configures the input parser.
type Parser struct {
	OutDir      string
	Serialize   bool
	SMILESName  string //base name for molecules built from SMILES; empty means pr<today>
	CDXMLPrefix string
	Update      int //seconds between progress reports
	Workers     int //0 means one per CPU
}

//Babel configures the Open Babel driver.
type Babel struct {
	Command string
	Extra   []string
}

//XTB configures the xtb driver.
type XTB struct {
	Command    string
	Method     string
	OptLevel   string
	Dielectric float64
	CPUs       int
}

//Default returns the configuration used when there is no file.
func Default() *Config {
	return &Config{
		Parser: Parser{OutDir: "somn_failed_to_parse", CDXMLPrefix: "pr", Update: 2},
		Babel:  Babel{Command: "obabel"},
		XTB:    XTB{Command: "xtb", Method: "gfn2", OptLevel: "normal", CPUs: 1},
	}
}

type fileRoot struct {
	Parser *parserBlock `hcl:"parser,block"`
	Babel  *babelBlock  `hcl:"babel,block"`
	XTB    *xtbBlock    `hcl:"xtb,block"`
}

type parserBlock struct {
	OutDir      *string   `hcl:"out_dir,optional"`
	Serialize   *bool     `hcl:"serialize,optional"`
	SMILESName  *string   `hcl:"smiles_name,optional"`
	CDXMLPrefix *string   `hcl:"cdxml_prefix,optional"`
	Update      cty.Value `hcl:"update,optional"`
	Workers     *int      `hcl:"workers,optional"`
}

type babelBlock struct {
	Command *string  `hcl:"command,optional"`
	Extra   []string `hcl:"extra,optional"`
}

type xtbBlock struct {
	Command    *string  `hcl:"command,optional"`
	Method     *string  `hcl:"method,optional"`
	OptLevel   *string  `hcl:"opt_level,optional"`
	Dielectric *float64 `hcl:"dielectric,optional"`
	CPUs       *int     `hcl:"cpus,optional"`
}

//Load reads the configuration file at path. An empty path gives the defaults.
//now sets the value of the today variable.
func Load(ctx context.Context, path string, now time.Time) (*Config, error) {
	logger := ctxlog.FromContext(ctx)
	if path == "" {
		logger.Debug("No configuration file, using defaults.")
		return Default(), nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, chem.WrapError(chem.ErrMissingFile, path, err, "config.Load")
		}
		return nil, chem.WrapError(chem.ErrBadConfig, path, err, "config.Load")
	}
	logger.Debug("Loading configuration.", "path", path)
	return Parse(src, path, now)
}

//Parse parses the configuration in src. filename is used in the error messages.
func Parse(src []byte, filename string, now time.Time) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, chem.WrapError(chem.ErrBadConfig, filename, fmt.Errorf("failed to parse HCL: %w", diags), "config.Parse")
	}
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"today": cty.StringVal(now.Format(DateLayout)),
		},
	}
	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, evalCtx, &root); diags.HasErrors() {
		return nil, chem.WrapError(chem.ErrBadConfig, filename, fmt.Errorf("failed to decode HCL: %w", diags), "config.Parse")
	}
	C := Default()
	if err := root.apply(C); err != nil {
		return nil, chem.ErrDecorate(err, "config.Parse")
	}
	return C, nil
}

func (r *fileRoot) apply(C *Config) error {
	if p := r.Parser; p != nil {
		setString(&C.Parser.OutDir, p.OutDir)
		setString(&C.Parser.SMILESName, p.SMILESName)
		setString(&C.Parser.CDXMLPrefix, p.CDXMLPrefix)
		if p.Serialize != nil {
			C.Parser.Serialize = *p.Serialize
		}
		if p.Workers != nil {
			if *p.Workers < 0 {
				return chem.NewError(chem.ErrBadConfig, "", fmt.Sprintf("workers must not be negative, got %d", *p.Workers), "apply")
			}
			C.Parser.Workers = *p.Workers
		}
		if !p.Update.IsNull() {
			u, err := Update(p.Update)
			if err != nil {
				return chem.ErrDecorate(err, "apply")
			}
			C.Parser.Update = u
		}
	}
	if b := r.Babel; b != nil {
		setString(&C.Babel.Command, b.Command)
		if b.Extra != nil {
			C.Babel.Extra = b.Extra
		}
	}
	if x := r.XTB; x != nil {
		setString(&C.XTB.Command, x.Command)
		setString(&C.XTB.Method, x.Method)
		setString(&C.XTB.OptLevel, x.OptLevel)
		if x.Dielectric != nil {
			C.XTB.Dielectric = *x.Dielectric
		}
		if x.CPUs != nil {
			C.XTB.CPUs = *x.CPUs
		}
	}
	return nil
}

//Update validates a progress interval given as a cty value: it must be a
//positive whole number of seconds.
func Update(v cty.Value) (int, error) {
	if !v.IsKnown() || v.IsNull() || v.Type() != cty.Number {
		return 0, chem.NewError(chem.ErrBadConfig, "", fmt.Sprintf("update must be a positive integer, got %s", v.GoString()), "Update")
	}
	bf := v.AsBigFloat()
	if !bf.IsInt() || bf.Sign() <= 0 || bf.Cmp(big.NewFloat(1<<31)) >= 0 {
		return 0, chem.NewError(chem.ErrBadConfig, "", fmt.Sprintf("update must be a positive integer, got %s", bf.Text('g', -1)), "Update")
	}
	i, _ := bf.Int64()
	return int(i), nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
