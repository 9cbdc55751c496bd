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

// The name Blockity means "Block iterator blablabla"
package vigilantclip

// walkBlocks calls visit for every block the line (x1,y1)-(x2,y2) passes
// through, coordinates being in map units. The algorithm is the one Marisa
// Heit used for computing blockmap in ZDBSP, so that lines get found in
// exactly the blocks a blockmap built the usual way would list them in.
// Blocks are not range-checked here: lines that leave the map yield block
// coordinates outside of it, and it is up to visit to ignore them
func walkBlocks(x1, y1, x2, y2, xmin, ymin int, visit func(bx, by int)) {
	dx := x2 - x1
	dy := y2 - y1
	bx := (x1 - xmin) >> BLOCK_BITS
	by := (y1 - ymin) >> BLOCK_BITS
	bx2 := (x2 - xmin) >> BLOCK_BITS
	by2 := (y2 - ymin) >> BLOCK_BITS

	if bx == bx2 && by == by2 { // Single block
		visit(bx, by)
		return
	}
	if by == by2 { // Horizontal line
		if bx > bx2 {
			bx, bx2 = bx2, bx
		}
		for ; bx <= bx2; bx++ {
			visit(bx, by)
		}
		return
	}
	if bx == bx2 { // Vertical line
		if by > by2 {
			by, by2 = by2, by
		}
		for ; by <= by2; by++ {
			visit(bx, by)
		}
		return
	}

	// Diagonal line. Toughest case, yeah
	xchange := Sign(dx)
	ychange := Sign(dy)
	adx := Abs(dx)
	ady := Abs(dy)
	if adx == ady { // 45 degrees
		xb := (x1 - xmin) & (BLOCK_WIDTH - 1)
		yb := (y1 - ymin) & (BLOCK_WIDTH - 1)
		if dx < 0 {
			xb = BLOCK_WIDTH - xb
		}
		if dy < 0 {
			yb = BLOCK_WIDTH - yb
		}
		if xb < yb {
			adx--
		}
	}
	if adx >= ady { // X major
		yadd := BLOCK_WIDTH
		if dy < 0 {
			yadd = -1
		}
		for {
			stop := (Scale(by<<BLOCK_BITS+yadd-(y1-ymin), dx, dy) + (x1 - xmin)) >> BLOCK_BITS
			for bx != stop {
				visit(bx, by)
				bx += xchange
			}
			visit(bx, by)
			by += ychange
			if by == by2 {
				break
			}
		}
		for bx != bx2 {
			visit(bx, by)
			bx += xchange
		}
		visit(bx, by)
	} else { // Y major
		xadd := BLOCK_WIDTH
		if dx < 0 {
			xadd = -1
		}
		for {
			stop := (Scale(bx<<BLOCK_BITS+xadd-(x1-xmin), dy, dx) + (y1 - ymin)) >> BLOCK_BITS
			for by != stop {
				visit(bx, by)
				by += ychange
			}
			visit(bx, by)
			bx += xchange
			if bx == bx2 {
				break
			}
		}
		for by != by2 {
			visit(bx, by)
			by += ychange
		}
		visit(bx, by)
	}
}

// LinesAlongTrace calls fn for every line listed in blocks that the trace
// from (x1,y1) to (x2,y2) passes through, each line once. It does NOT test
// whether the line is actually crossed - use LineIsCrossed for that. Blocks
// outside the map are skipped. Returns false if fn asked to stop
func (w *World) LinesAlongTrace(q Query, x1, y1, x2, y2 Fixed, groupID int32,
	fn LineVisitor) bool {
	bm := w.bmap
	xmin := bm.orgx.Int()
	ymin := bm.orgy.Int()
	keepGoing := true
	walkBlocks(x1.Int(), y1.Int(), x2.Int(), y2.Int(), xmin, ymin,
		func(bx, by int) {
			if !keepGoing {
				return
			}
			keepGoing = w.BlockLinesIterator(q, bx, by, groupID, fn)
		})
	return keepGoing
}
