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

// Binary angles and the trigonometry lookup tables
package vigilantclip

import (
	"math"
)

// Angle is binary angle measurement: full circle is 2^32
type Angle uint32

const ANG45 = Angle(0x20000000)
const ANG90 = Angle(0x40000000)
const ANG180 = Angle(0x80000000)
const ANG270 = Angle(0xc0000000)

const SLOPERANGE = 2048
const SLOPEBITS = 11
const DBITS = FRACBITS - SLOPEBITS

const FINEANGLES = 8192
const FINEMASK = FINEANGLES - 1
const ANGLETOFINESHIFT = 19 // 0x100000000 to 0x2000

// tantoangle has SLOPERANGE+1 entries, so that x == y doesn't need to be
// special-cased in PointToAngle
var tantoangle [SLOPERANGE + 1]Angle

// finesine holds 5/4 of a period, so finecosine is a slice into it
var finesine [5 * FINEANGLES / 4]Fixed
var finecosine []Fixed

func init() {
	// floor(atan(i/2048) * 2^31 / pi). The tiny bias keeps the 45 degree
	// entry from landing one short of 2^29 due to float rounding
	for i := 0; i <= SLOPERANGE; i++ {
		a := math.Atan(float64(i)/SLOPERANGE) * float64(uint32(ANG180)) / math.Pi
		tantoangle[i] = Angle(math.Floor(a + 1e-6))
	}
	// Sampled at the middle of each fine angle, as id's generator did
	for i := range finesine {
		a := (float64(i) + 0.5) * 2 * math.Pi / FINEANGLES
		finesine[i] = Fixed(math.Floor(math.Sin(a)*float64(FRACUNIT) + 0.5))
	}
	finecosine = finesine[FINEANGLES/4:]
}

func FineSine(a Angle) Fixed {
	return finesine[a>>ANGLETOFINESHIFT]
}

func FineCosine(a Angle) Fixed {
	return finecosine[a>>ANGLETOFINESHIFT]
}

func SlopeDiv(num, den uint32) uint32 {
	if den < 512 {
		return SLOPERANGE
	}
	ans := (num << 3) / (den >> 8)
	if ans <= SLOPERANGE {
		return ans
	}
	return SLOPERANGE
}

// PointToAngle gets a global angle from cartesian coordinates. The
// coordinates are flipped until they are in the first octant of the
// coordinate system, then the y (<=x) is scaled and divided by x to get a
// tangent (slope) value which is looked up in the tantoangle table.
// When x == y, the branch that is NOT "x > y" is taken - demos depend on it
func PointToAngle(xo, yo, x, y Fixed) Angle {
	x -= xo
	y -= yo

	if (x | y) == 0 {
		return 0
	}

	if x >= 0 {
		if y >= 0 {
			if x > y {
				// octant 0
				return tantoangle[SlopeDiv(uint32(y), uint32(x))]
			}
			// octant 1
			return ANG90 - 1 - tantoangle[SlopeDiv(uint32(x), uint32(y))]
		}
		y = -y
		if x > y {
			// octant 8
			return 0 - tantoangle[SlopeDiv(uint32(y), uint32(x))]
		}
		// octant 7
		return ANG270 + tantoangle[SlopeDiv(uint32(x), uint32(y))]
	}

	x = -x
	if y >= 0 {
		if x > y {
			// octant 3
			return ANG180 - 1 - tantoangle[SlopeDiv(uint32(y), uint32(x))]
		}
		// octant 2
		return ANG90 + tantoangle[SlopeDiv(uint32(x), uint32(y))]
	}
	y = -y
	if x > y {
		// octant 4
		return ANG180 + tantoangle[SlopeDiv(uint32(y), uint32(x))]
	}
	// octant 5
	return ANG270 - 1 - tantoangle[SlopeDiv(uint32(x), uint32(y))]
}
