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

// Linedefs as the play simulation sees them, plus bounding box helpers
package vigilantclip

import (
	"math"
)

// BBox is indexed by BOXTOP, BOXBOTTOM, BOXLEFT, BOXRIGHT
type BBox [4]Fixed

type Line struct {
	V1, V2   int32    // vertex indices
	Sidenum  [2]int32 // NO_INDEX for the back of a one-sided line
	Flags    uint32   // ML_*
	ExtFlags uint32   // EX_ML_*
	IntFlags uint32   // MLI_*
	// Line portal. PFlags is only meaningful if Portal != NO_INDEX
	Portal int32
	PFlags uint32
	// For MLI_1SPORTALLINE lines: the line whose front sector is seen (and
	// walked into) through this one
	BeyondPortalLine int32

	// Everything below is derived from vertices and sides when the world is
	// built, and kept in sync when polyobjects move
	num         int32
	v1          Vertex
	dx, dy      Fixed
	bbox        BBox
	slopetype   SlopeType
	frontsector int32
	backsector  int32 // NO_INDEX if one-sided
	validcount  stamps
}

// setVertices recomputes everything that depends on the line's position
func (ld *Line) setVertices(v1, v2 Vertex) {
	ld.v1 = v1
	ld.dx = v2.X - v1.X
	ld.dy = v2.Y - v1.Y
	if v1.X < v2.X {
		ld.bbox[BOXLEFT] = v1.X
		ld.bbox[BOXRIGHT] = v2.X
	} else {
		ld.bbox[BOXLEFT] = v2.X
		ld.bbox[BOXRIGHT] = v1.X
	}
	if v1.Y < v2.Y {
		ld.bbox[BOXBOTTOM] = v1.Y
		ld.bbox[BOXTOP] = v2.Y
	} else {
		ld.bbox[BOXBOTTOM] = v2.Y
		ld.bbox[BOXTOP] = v1.Y
	}
	switch {
	case ld.dx == 0:
		ld.slopetype = ST_VERTICAL
	case ld.dy == 0:
		ld.slopetype = ST_HORIZONTAL
	case FixedDiv(ld.dy, ld.dx) > 0:
		ld.slopetype = ST_POSITIVE
	default:
		ld.slopetype = ST_NEGATIVE
	}
}

func (ld *Line) Num() int32 {
	return ld.num
}

func (ld *Line) V1Pos() Vertex {
	return ld.v1
}

func (ld *Line) V2Pos() Vertex {
	return Vertex{X: ld.v1.X + ld.dx, Y: ld.v1.Y + ld.dy}
}

func (ld *Line) Dx() Fixed {
	return ld.dx
}

func (ld *Line) Dy() Fixed {
	return ld.dy
}

func (ld *Line) BBox() BBox {
	return ld.bbox
}

func (ld *Line) SlopeType() SlopeType {
	return ld.slopetype
}

func (ld *Line) FrontSector() int32 {
	return ld.frontsector
}

// BackSector returns NO_INDEX for one-sided lines
func (ld *Line) BackSector() int32 {
	return ld.backsector
}

func (ld *Line) TwoSided() bool {
	return ld.Sidenum[1] != NO_INDEX
}

func ClearBox(box *BBox) {
	box[BOXTOP] = math.MinInt32
	box[BOXRIGHT] = math.MinInt32
	box[BOXBOTTOM] = math.MaxInt32
	box[BOXLEFT] = math.MaxInt32
}

func AddToBox(box *BBox, x, y Fixed) {
	if x < box[BOXLEFT] {
		box[BOXLEFT] = x
	}
	if x > box[BOXRIGHT] {
		box[BOXRIGHT] = x
	}
	if y < box[BOXBOTTOM] {
		box[BOXBOTTOM] = y
	}
	if y > box[BOXTOP] {
		box[BOXTOP] = y
	}
}

// BoxAround is the bounding box of a thing of given radius standing at x,y
func BoxAround(x, y, radius Fixed) BBox {
	var box BBox
	box[BOXTOP] = y + radius
	box[BOXBOTTOM] = y - radius
	box[BOXRIGHT] = x + radius
	box[BOXLEFT] = x - radius
	return box
}

// Returns true if two bounding boxes intersect. Assumes they're correctly set.
func BoxesIntersect(bbox1, bbox2 *BBox) bool {
	return bbox1[BOXLEFT] < bbox2[BOXRIGHT] &&
		bbox1[BOXRIGHT] > bbox2[BOXLEFT] &&
		bbox1[BOXBOTTOM] < bbox2[BOXTOP] &&
		bbox1[BOXTOP] > bbox2[BOXBOTTOM]
}
