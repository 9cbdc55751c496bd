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
package vigilantclip

import (
	"testing"
)

func TestTantoangle(t *testing.T) {
	want := map[int]Angle{
		0:    0,
		1:    333772,
		2:    667544,
		3:    1001315,
		4:    1335086,
		2048: 536870912,
	}
	for i, a := range want {
		if tantoangle[i] != a {
			t.Errorf("tantoangle[%d] = %d, want %d\n", i, tantoangle[i], a)
		}
	}
	for i := 1; i <= SLOPERANGE; i++ {
		if tantoangle[i] <= tantoangle[i-1] {
			t.Errorf("tantoangle not increasing at %d\n", i)
			break
		}
	}
}

func TestFineTables(t *testing.T) {
	if FineCosine(0) != FRACUNIT {
		t.Errorf("FineCosine(0) = %d, want %d\n", FineCosine(0), FRACUNIT)
	}
	if FineSine(ANG90) != FRACUNIT {
		t.Errorf("FineSine(ANG90) = %d, want %d\n", FineSine(ANG90), FRACUNIT)
	}
	if FineSine(ANG270) != -FRACUNIT {
		t.Errorf("FineSine(ANG270) = %d, want %d\n", FineSine(ANG270), -FRACUNIT)
	}
	// finecosine must reach past the end of the fine angle range
	if len(finecosine) < FINEANGLES {
		t.Errorf("finecosine has %d entries\n", len(finecosine))
	}
	for i := 0; i < FINEANGLES; i++ {
		a := Angle(uint32(i) << ANGLETOFINESHIFT)
		if FineSine(a) != -FineSine(a+ANG180) {
			t.Errorf("finesine not antisymmetric at %d\n", i)
			break
		}
	}
}

func TestSlopeDiv(t *testing.T) {
	if SlopeDiv(100, 511) != SLOPERANGE {
		t.Errorf("small denominator must give SLOPERANGE\n")
	}
	if got := SlopeDiv(1<<16, 1<<17); got != SLOPERANGE/2 {
		t.Errorf("SlopeDiv(1/2) = %d, want %d\n", got, SLOPERANGE/2)
	}
	if SlopeDiv(1<<20, 1<<16) != SLOPERANGE {
		t.Errorf("slope above 1 must be clamped\n")
	}
}

func TestPointToAngle(t *testing.T) {
	tests := []struct {
		x, y Fixed
		want Angle
	}{
		{FRACUNIT, 0, 0},
		{0, FRACUNIT, 0x3FFFFFFF},
		{FRACUNIT, FRACUNIT, 0x1FFFFFFF}, // x == y takes octant 1
		{-FRACUNIT, 0, 0x7FFFFFFF},
		{0, -FRACUNIT, 0xC0000000},
		{0, 0, 0},
		{-FRACUNIT, -FRACUNIT, ANG270 - 1 - ANG45},
	}
	for _, tt := range tests {
		if got := PointToAngle(0, 0, tt.x, tt.y); got != tt.want {
			t.Errorf("PointToAngle(%d, %d) = %#x, want %#x\n", tt.x, tt.y,
				uint32(got), uint32(tt.want))
		}
	}
	// origin is subtracted
	if PointToAngle(10*FRACUNIT, 10*FRACUNIT, 11*FRACUNIT, 10*FRACUNIT) != 0 {
		t.Errorf("PointToAngle ignores origin\n")
	}
}
