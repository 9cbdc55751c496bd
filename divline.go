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

// Divlines: lines given as origin and direction rather than two vertices
package vigilantclip

type Divline struct {
	X  Fixed
	Y  Fixed
	Dx Fixed
	Dy Fixed
}

func MakeDivline(li *Line) Divline {
	return Divline{
		X:  li.v1.X,
		Y:  li.v1.Y,
		Dx: li.dx,
		Dy: li.dy,
	}
}

// PointOnDivlineSide returns 0 or 1
func PointOnDivlineSide(x, y Fixed, line *Divline) int {
	if line.Dx == 0 {
		if x <= line.X {
			return b2i(line.Dy > 0)
		}
		return b2i(line.Dy < 0)
	}
	if line.Dy == 0 {
		if y <= line.Y {
			return b2i(line.Dx < 0)
		}
		return b2i(line.Dx > 0)
	}
	x -= line.X
	y -= line.Y
	// Try to quickly decide by looking at sign bits
	if (line.Dy ^ line.Dx ^ x ^ y) < 0 {
		return b2i((line.Dy ^ x) < 0)
	}
	return b2i(FixedMul(y>>8, line.Dx>>8) >= FixedMul(line.Dy>>8, x>>8))
}

// BoxOnDivlineSide is BoxOnLineSide for divlines. Slope class is not stored
// in divline, so it is deduced from the direction on each call
func BoxOnDivlineSide(tmbox *BBox, dl *Divline) int {
	var p int
	if dl.Dy == 0 {
		p = b2i(tmbox[BOXTOP] > dl.Y)
		if b2i(tmbox[BOXBOTTOM] > dl.Y) == p {
			return p ^ b2i(dl.Dx < 0)
		}
		return -1
	}
	if dl.Dx == 0 {
		p = b2i(tmbox[BOXRIGHT] < dl.X)
		if b2i(tmbox[BOXLEFT] < dl.X) == p {
			return p ^ b2i(dl.Dy < 0)
		}
		return -1
	}
	if (dl.Dx ^ dl.Dy) >= 0 {
		p = PointOnDivlineSide(tmbox[BOXLEFT], tmbox[BOXTOP], dl)
		if PointOnDivlineSide(tmbox[BOXRIGHT], tmbox[BOXBOTTOM], dl) == p {
			return p
		}
		return -1
	}
	p = PointOnDivlineSide(tmbox[BOXRIGHT], tmbox[BOXTOP], dl)
	if PointOnDivlineSide(tmbox[BOXLEFT], tmbox[BOXBOTTOM], dl) == p {
		return p
	}
	return -1
}

// InterceptVector returns the fractional intercept point along the first
// divline. Parallel divlines give 0, which callers must not take for a real
// intersection
func InterceptVector(v2, v1 *Divline) Fixed {
	den := FixedMul(v1.Dy>>8, v2.Dx) - FixedMul(v1.Dx>>8, v2.Dy)
	if den == 0 {
		return 0
	}
	return FixedDiv(FixedMul((v1.X-v2.X)>>8, v1.Dy)+
		FixedMul((v2.Y-v1.Y)>>8, v1.Dx), den)
}
