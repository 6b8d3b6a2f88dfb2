/*
 * clean.go, part of somngo.
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

import "strings"

//CleanupHandles returns a copy of T with whitespace trimmed from the row labels,
//keeping only the first row for each label.
//
//TODO: later duplicates are dropped without any notice. Ask the data owners
//whether they want a notice listing them.
func CleanupHandles(T *Table) *Table {
	ret := &Table{IndexName: T.IndexName, Columns: append([]string(nil), T.Columns...)}
	seen := make(map[string]bool, len(T.Index))
	for i, h := range T.Index {
		h = strings.TrimSpace(h)
		if seen[h] {
			continue
		}
		seen[h] = true
		ret.Index = append(ret.Index, h)
		ret.Cells = append(ret.Cells, append([]string(nil), T.Cells[i]...))
	}
	return ret
}
