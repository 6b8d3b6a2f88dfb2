/*
 * root.go, part of somngo.
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
	"time"

	"github.com/spf13/cobra"

	"github.com/rmera/somngo/config"
	"github.com/rmera/somngo/ctxlog"
)

//globals holds the values of the persistent flags and what the root command builds from them.
type globals struct {
	configPath string
	logLevel   string
	logFormat  string
	cfg        *config.Config
}

//Execute runs the somn CLI with the arguments of the process.
func Execute() error {
	return NewRootCmd().Execute()
}

//NewRootCmd returns the root command with all the subcommands.
func NewRootCmd() *cobra.Command {
	g := new(globals)
	root := &cobra.Command{
		Use:           "somn",
		Short:         "Prepare structures and experimental data for somn",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := ctxlog.New(cmd.ErrOrStderr(), g.logFormat, g.logLevel)
			ctx := ctxlog.WithLogger(cmd.Context(), logger)
			cfg, err := config.Load(ctx, g.configPath, time.Now())
			if err != nil {
				return err
			}
			g.cfg = cfg
			cmd.SetContext(ctx)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "HCL configuration file")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "text", "log format: text or json")

	root.AddCommand(parseCmd(g), dataCmd())
	return root
}
