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

// Point/box versus linedef side classification
package vigilantclip

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// PointOnLineSide returns 0 (front) or 1 (back).
// Lines with dx or dy equal to zero are special-cased, because multiplying
// by zero would mask the sign of the other component
func PointOnLineSide(x, y Fixed, line *Line) int {
	if line.dx == 0 {
		if x <= line.v1.X {
			return b2i(line.dy > 0)
		}
		return b2i(line.dy < 0)
	}
	if line.dy == 0 {
		if y <= line.v1.Y {
			return b2i(line.dx < 0)
		}
		return b2i(line.dx > 0)
	}
	return b2i(FixedMul(y-line.v1.Y, line.dx>>FRACBITS) >=
		FixedMul(line.dy>>FRACBITS, x-line.v1.X))
}

// BoxOnLineSide considers the line to be infinite.
// Returns side 0 or 1, -1 if box crosses the line.
func BoxOnLineSide(tmbox *BBox, ld *Line) int {
	var p int
	switch ld.slopetype {
	default:
		fallthrough
	case ST_HORIZONTAL:
		p = b2i(tmbox[BOXTOP] > ld.v1.Y)
		if b2i(tmbox[BOXBOTTOM] > ld.v1.Y) == p {
			return p ^ b2i(ld.dx < 0)
		}
		return -1
	case ST_VERTICAL:
		p = b2i(tmbox[BOXRIGHT] < ld.v1.X)
		if b2i(tmbox[BOXLEFT] < ld.v1.X) == p {
			return p ^ b2i(ld.dy < 0)
		}
		return -1
	case ST_POSITIVE:
		p = PointOnLineSide(tmbox[BOXLEFT], tmbox[BOXTOP], ld)
		if PointOnLineSide(tmbox[BOXRIGHT], tmbox[BOXBOTTOM], ld) == p {
			return p
		}
		return -1
	case ST_NEGATIVE:
		p = PointOnLineSide(tmbox[BOXRIGHT], tmbox[BOXTOP], ld)
		if PointOnLineSide(tmbox[BOXLEFT], tmbox[BOXBOTTOM], ld) == p {
			return p
		}
		return -1
	}
}

// BoxLinePoint returns a good point of intersection between the bounding box
// diagonals and linedef. This assumes BoxOnLineSide returned -1; the result
// is a representative point, not an exact one
func BoxLinePoint(bbox *BBox, ld *Line) Vertex {
	var ret Vertex
	switch ld.slopetype {
	case ST_HORIZONTAL:
		ret.X = bbox[BOXLEFT]/2 + bbox[BOXRIGHT]/2
		ret.Y = ld.v1.Y
	case ST_VERTICAL:
		ret.X = ld.v1.X
		ret.Y = bbox[BOXBOTTOM]/2 + bbox[BOXTOP]/2
	case ST_POSITIVE:
		d1 := Divline{
			X:  bbox[BOXLEFT],
			Y:  bbox[BOXTOP],
			Dx: bbox[BOXRIGHT] - bbox[BOXLEFT],
			Dy: bbox[BOXBOTTOM] - bbox[BOXTOP],
		}
		d2 := MakeDivline(ld)
		frac := InterceptVector(&d1, &d2)
		ret.X = d1.X + FixedMul(d1.Dx, frac)
		ret.Y = d1.Y + FixedMul(d1.Dy, frac)
	case ST_NEGATIVE:
		d1 := Divline{
			X:  bbox[BOXLEFT],
			Y:  bbox[BOXBOTTOM],
			Dx: bbox[BOXRIGHT] - bbox[BOXLEFT],
			Dy: bbox[BOXTOP] - bbox[BOXBOTTOM],
		}
		d2 := MakeDivline(ld)
		frac := InterceptVector(&d1, &d2)
		ret.X = d1.X + FixedMul(d1.Dx, frac)
		ret.Y = d1.Y + FixedMul(d1.Dy, frac)
	}
	return ret
}

// LineIsCrossed returns -1 if the divline doesn't cross the line segment,
// otherwise the side (0 or 1) the divline starts on
func LineIsCrossed(line *Line, dl *Divline) int {
	a := PointOnLineSide(dl.X, dl.Y, line)
	if a != PointOnLineSide(dl.X+dl.Dx, dl.Y+dl.Dy, line) &&
		PointOnDivlineSide(line.v1.X, line.v1.Y, dl) !=
			PointOnDivlineSide(line.v1.X+line.dx, line.v1.Y+line.dy, dl) {
		return a
	}
	return -1
}
