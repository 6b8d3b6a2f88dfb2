/*
 * v3_test.go, part of somngo.
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

package v3

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatrix(Te *testing.T) {
	_, err := NewMatrix([]float64{1, 2})
	require.Error(Te, err)
	m, err := NewMatrix([]float64{0, 0, 0, 3, 4, 0})
	require.NoError(Te, err)
	assert.Equal(Te, 2, m.NVecs())
	assert.InDelta(Te, 5.0, m.Dist(0, 1), 1e-12)
}

func TestViewsAndClone(Te *testing.T) {
	m, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	require.NoError(Te, err)
	v := m.VecView(1)
	v.Set(0, 0, 40)
	assert.Equal(Te, 40.0, m.At(1, 0))
	c := m.Clone()
	c.Set(0, 0, -1)
	assert.Equal(Te, 1.0, m.At(0, 0))
	m.SwapVecs(0, 1)
	assert.Equal(Te, 40.0, m.At(0, 0))
	assert.Equal(Te, 1.0, m.At(1, 0))
}

func TestTranslateFinite(Te *testing.T) {
	m := Zeros(2)
	m.Translate(1, 2, 3)
	assert.Equal(Te, 3.0, m.At(1, 2))
	assert.True(Te, m.Finite())
	m.Set(0, 1, math.NaN())
	assert.False(Te, m.Finite())
}
