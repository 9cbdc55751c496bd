// Copyright (C) 2025, VigilantDoomer
//
// This file is part of VigilantClip library.
//
// VigilantClip is free software: you can redistribute it
// and/or modify it under the terms of GNU General Public License
// as published by the Free Software Foundation, either version 2 of
// the License, or (at your option) any later version.
//
// VigilantClip is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with VigilantClip.  If not, see <https://www.gnu.org/licenses/>.

// fixed
package vigilantclip

import (
	"math"
)

// Fixed is 16.16 fixed point number. Everything that has to be reproduced
// bit for bit during demo playback is computed in it, never in floats.
// Overflow wraps in two's complement, same as the C code demos were recorded
// with.
type Fixed int32

func FixedMul(a, b Fixed) Fixed {
	return Fixed((int64(a) * int64(b)) >> FRACBITS)
}

// FixedDiv saturates instead of trapping, and that includes b == 0
func FixedDiv(a, b Fixed) Fixed {
	if FixedAbs(a)>>14 >= FixedAbs(b) {
		if (a ^ b) < 0 {
			return math.MinInt32
		}
		return math.MaxInt32
	}
	return Fixed((int64(a) << FRACBITS) / int64(b))
}

// Note that FixedAbs(math.MinInt32) is still negative, exactly as D_abs is
func FixedAbs(x Fixed) Fixed {
	if x < 0 {
		return -x
	}
	return x
}

func IntToFixed(x int) Fixed {
	return Fixed(x << FRACBITS)
}

// Integer part, rounded towards negative infinity
func (x Fixed) Int() int {
	return int(x >> FRACBITS)
}

// ApproxDistance gives an estimation of distance (not exact)
func ApproxDistance(dx, dy Fixed) Fixed {
	dx = FixedAbs(dx)
	dy = FixedAbs(dy)
	if dx < dy {
		return dx + dy - (dx >> 1)
	}
	return dx + dy - (dy >> 1)
}
