/*
 * doc.go, part of somngo.
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

//Package commands defines the somn CLI.
//
//Commands
//
//  - parse           Read a CDXML file, SMILES or a SMILES table, optionally preparing the structures
//  - data clean      Load a table, clean its handles and write it to Feather
//  - data describe   Print statistics and outliers for numeric columns
//
//The root command sets up logging and loads the configuration file before
//any subcommand runs. Flags given on the command line take precedence over
//the configuration file.
package commands
