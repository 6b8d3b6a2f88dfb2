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

/*Package chem is the main package of somngo. It provides atom, molecule and collection
structures, readers and writers for the MOL2 and XYZ formats, distance-based bond
perception and the error type shared by all the packages in the module.

	**somngo Capabilities**

    Reads structures from ChemDraw CDXML files (package cdxml).

    Builds 3D structures from SMILES and adds explicit hydrogens through
	Open Babel (package babel), which must be obtained independently.

    Pre-optimizes geometries with GFN-xTB (package qm), concurrently over a
	collection, with compressed backups so interrupted runs can be resumed
	(package batch).

    Chains the above into a preparation workflow which collects per-molecule
	failures instead of aborting (package parsing).

    Loads, cleans and exports tabular experimental data in CSV, XLSX and
	Feather formats (package data).

Coordinates are kept in a v3.Matrix (package v3), a Nx3 gonum Dense where each row
is the position of one atom, in Angstrom.
*/
package chem
