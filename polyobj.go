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

// Polyobject is a group of lines that moves and rotates as one. Rotation
// starts from the vertex offsets recorded at spawn, so repeated rotations
// don't accumulate error
type Polyobject struct {
	ID     int32
	Lines  []int32
	Center Vertex
	Angle  Angle

	vertices   []int32  // indices into World vertices, each once
	origPts    []Vertex // vertex positions relative to Center at angle 0
	bbox       BBox
	validcount stamps
	links      []int32 // blockmap links, empty if not linked
}

func newPolyobject(w *World, def *PolyobjectDef) *Polyobject {
	po := &Polyobject{
		ID:     def.ID,
		Lines:  append([]int32(nil), def.Lines...),
		Center: def.Center,
	}
	seen := make(map[int32]struct{})
	for _, lidx := range po.Lines {
		ld := &w.lines[lidx]
		for _, vi := range [2]int32{ld.V1, ld.V2} {
			if _, ok := seen[vi]; ok {
				continue
			}
			seen[vi] = struct{}{}
			po.vertices = append(po.vertices, vi)
			v := w.vertices[vi]
			po.origPts = append(po.origPts, Vertex{
				X: v.X - def.Center.X,
				Y: v.Y - def.Center.Y,
			})
		}
	}
	po.updateBBox(w)
	return po
}

func (po *Polyobject) BBox() BBox {
	return po.bbox
}

// Linked tells whether polyobject is present in the blockmap
func (po *Polyobject) Linked() bool {
	return len(po.links) > 0
}

func (po *Polyobject) updateBBox(w *World) {
	ClearBox(&po.bbox)
	for _, vi := range po.vertices {
		AddToBox(&po.bbox, w.vertices[vi].X, w.vertices[vi].Y)
	}
}

// Puts vertices at center + original offsets rotated by Angle
func (po *Polyobject) rotateVertices(w *World) {
	cos := FineCosine(po.Angle)
	sin := FineSine(po.Angle)
	for i, vi := range po.vertices {
		p := po.origPts[i]
		w.vertices[vi] = Vertex{
			X: po.Center.X + FixedMul(p.X, cos) - FixedMul(p.Y, sin),
			Y: po.Center.Y + FixedMul(p.X, sin) + FixedMul(p.Y, cos),
		}
	}
	po.updateLines(w)
}

func (po *Polyobject) translateVertices(w *World, dx, dy Fixed) {
	for _, vi := range po.vertices {
		w.vertices[vi].X += dx
		w.vertices[vi].Y += dy
	}
	po.updateLines(w)
}

func (po *Polyobject) updateLines(w *World) {
	for _, lidx := range po.Lines {
		ld := &w.lines[lidx]
		ld.setVertices(w.vertices[ld.V1], w.vertices[ld.V2])
	}
	po.updateBBox(w)
}

// LinkPolyobject inserts polyobject into every block its bounding box covers
func (w *World) LinkPolyobject(po *Polyobject) {
	if po.Linked() {
		return
	}
	bm := w.bmap
	pidx := w.polyIndex(po)
	xl, xh, yl, yh := w.blockRange(&po.bbox)
	for by := yl; by <= yh; by++ {
		for bx := xl; bx <= xh; bx++ {
			po.links = append(po.links, bm.linkPoly(pidx, by*bm.width+bx))
		}
	}
}

// UnlinkPolyobject removes polyobject from the blockmap
func (w *World) UnlinkPolyobject(po *Polyobject) {
	for _, link := range po.links {
		w.bmap.unlinkPoly(link)
	}
	po.links = po.links[:0]
}

// MovePolyobject translates polyobject by (dx, dy)
func (w *World) MovePolyobject(po *Polyobject, dx, dy Fixed) {
	w.UnlinkPolyobject(po)
	po.Center.X += dx
	po.Center.Y += dy
	po.translateVertices(w, dx, dy)
	w.LinkPolyobject(po)
}

// RotatePolyobject turns polyobject about its center by dangle
func (w *World) RotatePolyobject(po *Polyobject, dangle Angle) {
	w.UnlinkPolyobject(po)
	po.Angle += dangle
	po.rotateVertices(w)
	w.LinkPolyobject(po)
}

// Polyobjects returns polyobjects in definition order
func (w *World) Polyobjects() []*Polyobject {
	return w.polys
}

// PolyobjectByID returns polyobject with the id, or nil
func (w *World) PolyobjectByID(id int32) *Polyobject {
	for _, po := range w.polys {
		if po.ID == id {
			return po
		}
	}
	return nil
}

func (w *World) polyIndex(po *Polyobject) int32 {
	for i, p := range w.polys {
		if p == po {
			return int32(i)
		}
	}
	Log.Panic("polyobject %d does not belong to this world\n", po.ID)
	return NO_INDEX
}
