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

//Package cdxml reads ChemDraw CDXML documents and splits them into one molecule per
//top-level fragment. Abbreviation nodes ("Fragment" and "Nickname" nodes with a nested
//fragment) are expanded in place. The drawing's 2D coordinates are scaled so that the
//document bond length corresponds to 1.5 A; the resulting geometry is only a starting point.
package cdxml
