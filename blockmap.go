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
	"errors"
	"fmt"
)

var ErrCorruptBlockmap = errors.New("corrupt blockmap")

// LineVisitor is called for every line found by a blockmap query. po is the
// polyobject the line belongs to, or nil for static lines. Return false to
// stop the iteration
type LineVisitor func(ld *Line, po *Polyobject) bool

// ThingVisitor is called for every thing found by a blockmap query. Return
// false to stop the iteration
type ThingVisitor func(mo *Thing) bool

// Blockmap is the uniform grid of 128x128 map unit cells, holding static
// lines (lump), polyobjects and things in every cell
type Blockmap struct {
	orgx, orgy    Fixed
	width, height int
	lump          []int32
	skipSentinel  bool

	blocklinks []ThingID // per cell, head of thing list
	polyHeads  []int32   // per cell, head of polyLink list
	polyLinks  []polyLink
	freeLink   int32
}

// One polyobject present in one cell. Links of a cell are chained through
// prev/next; freed links are chained through next
type polyLink struct {
	po   int32
	cell int32
	prev int32
	next int32
}

// NewBlockmap validates the blockmap lump and makes blockmap out of it.
// numLines is the number of lines in the level. Lump is retained, not copied
func NewBlockmap(lump []int32, numLines int, compat Compat) (*Blockmap, error) {
	if len(lump) < BLOCKMAP_HEADER_SIZE {
		return nil, fmt.Errorf("%w: lump too short (%d entries)",
			ErrCorruptBlockmap, len(lump))
	}
	width, height := int64(lump[2]), int64(lump[3])
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: bad dimensions %dx%d", ErrCorruptBlockmap,
			width, height)
	}
	cells := width * height
	if int64(len(lump)) < BLOCKMAP_HEADER_SIZE+cells {
		return nil, fmt.Errorf("%w: %dx%d blocks but only %d entries",
			ErrCorruptBlockmap, width, height, len(lump))
	}
	// Shared blocklists are common (all empty blocks may point to the
	// same list), so each list is checked once
	checked := make(map[int32]struct{})
	for i := int64(0); i < cells; i++ {
		offset := lump[BLOCKMAP_HEADER_SIZE+i]
		if _, ok := checked[offset]; ok {
			continue
		}
		err := checkBlocklist(lump, offset, int64(BLOCKMAP_HEADER_SIZE+cells),
			numLines, compat.SkipBlocklistSentinel)
		if err != nil {
			return nil, fmt.Errorf("%w: block %d: %s", ErrCorruptBlockmap, i,
				err.Error())
		}
		checked[offset] = struct{}{}
	}
	bm := &Blockmap{
		orgx:         IntToFixed(int(lump[0])),
		orgy:         IntToFixed(int(lump[1])),
		width:        int(width),
		height:       int(height),
		lump:         lump,
		skipSentinel: compat.SkipBlocklistSentinel,
		blocklinks:   make([]ThingID, cells),
		polyHeads:    make([]int32, cells),
		freeLink:     NO_INDEX,
	}
	for i := range bm.blocklinks {
		bm.blocklinks[i] = NOTHING
		bm.polyHeads[i] = NO_INDEX
	}
	return bm, nil
}

func checkBlocklist(lump []int32, offset int32, listStart int64, numLines int,
	skipSentinel bool) error {
	if int64(offset) < listStart || int(offset) >= len(lump) {
		return fmt.Errorf("offset %d out of range", offset)
	}
	i := int(offset)
	if skipSentinel {
		if lump[i] == BLOCKLIST_TERM {
			return fmt.Errorf("blocklist at %d has no leading slot to skip", offset)
		}
		i++
	}
	for ; i < len(lump); i++ {
		if lump[i] == BLOCKLIST_TERM {
			return nil
		}
		if lump[i] < 0 || int(lump[i]) >= numLines {
			return fmt.Errorf("line %d out of range in blocklist at %d",
				lump[i], offset)
		}
	}
	return fmt.Errorf("blocklist at %d is not terminated", offset)
}

// BlocklistsStartWithZero tells whether every blocklist of a (well formed)
// lump begins with the dummy linedef 0 that nodebuilders write. Pass it as
// skipBlockStart to CompatForDemoVersion
func BlocklistsStartWithZero(lump []int32) bool {
	if len(lump) < BLOCKMAP_HEADER_SIZE {
		return false
	}
	cells := int(lump[2]) * int(lump[3])
	if cells <= 0 || len(lump) < BLOCKMAP_HEADER_SIZE+cells {
		return false
	}
	for _, offset := range lump[BLOCKMAP_HEADER_SIZE : BLOCKMAP_HEADER_SIZE+cells] {
		if offset < 0 || int(offset) >= len(lump) || lump[offset] != 0 {
			return false
		}
	}
	return true
}

// Origin of the blockmap, in fixed point
func (bm *Blockmap) Origin() (Fixed, Fixed) {
	return bm.orgx, bm.orgy
}

// Width and height in blocks
func (bm *Blockmap) Size() (int, int) {
	return bm.width, bm.height
}

// CellOf returns block coordinates of a point. These can be out of range
func (bm *Blockmap) CellOf(x, y Fixed) (int, int) {
	return int((x - bm.orgx) >> MAPBLOCKSHIFT), int((y - bm.orgy) >> MAPBLOCKSHIFT)
}

func (bm *Blockmap) InRange(bx, by int) bool {
	return bx >= 0 && by >= 0 && bx < bm.width && by < bm.height
}

// Static lines of a block, sentinel slot excluded when compat says so
func (bm *Blockmap) blocklist(cell int) []int32 {
	start := int(bm.lump[BLOCKMAP_HEADER_SIZE+cell])
	if bm.skipSentinel {
		start++
	}
	end := start
	for bm.lump[end] != BLOCKLIST_TERM {
		end++
	}
	return bm.lump[start:end]
}

func (bm *Blockmap) allocPolyLink() int32 {
	if bm.freeLink != NO_INDEX {
		idx := bm.freeLink
		bm.freeLink = bm.polyLinks[idx].next
		return idx
	}
	bm.polyLinks = append(bm.polyLinks, polyLink{})
	return int32(len(bm.polyLinks) - 1)
}

// Inserts polyobject at the head of cell's list, returns link index
func (bm *Blockmap) linkPoly(po int32, cell int) int32 {
	idx := bm.allocPolyLink()
	head := bm.polyHeads[cell]
	bm.polyLinks[idx] = polyLink{po: po, cell: int32(cell), prev: NO_INDEX, next: head}
	if head != NO_INDEX {
		bm.polyLinks[head].prev = idx
	}
	bm.polyHeads[cell] = idx
	return idx
}

func (bm *Blockmap) unlinkPoly(idx int32) {
	link := &bm.polyLinks[idx]
	if link.prev != NO_INDEX {
		bm.polyLinks[link.prev].next = link.next
	} else {
		bm.polyHeads[link.cell] = link.next
	}
	if link.next != NO_INDEX {
		bm.polyLinks[link.next].prev = link.prev
	}
	link.po = NO_INDEX
	link.prev = NO_INDEX
	link.next = bm.freeLink
	bm.freeLink = idx
}

// BlockLinesIterator visits lines in block (x, y): lines of polyobjects
// present in the block first, then static lines. Static lines whose front
// sector is not in group groupID are skipped unless groupID is NOGROUP.
// Every line and polyobject is visited at most once per query.
// Returns false if visitor stopped the iteration
func (w *World) BlockLinesIterator(q Query, x, y int, groupID int32,
	fn LineVisitor) bool {
	bm := w.bmap
	if !bm.InRange(x, y) {
		return true
	}
	cell := y*bm.width + x

	for link := bm.polyHeads[cell]; link != NO_INDEX; link = bm.polyLinks[link].next {
		po := w.polys[bm.polyLinks[link].po]
		if po.validcount[q.space] == q.Stamp {
			continue
		}
		po.validcount[q.space] = q.Stamp
		for _, lidx := range po.Lines {
			ld := &w.lines[lidx]
			if ld.validcount[q.space] == q.Stamp {
				continue
			}
			ld.validcount[q.space] = q.Stamp
			if !fn(ld, po) {
				return false
			}
		}
	}

	for _, lidx := range bm.blocklist(cell) {
		ld := &w.lines[lidx]
		if groupID != NOGROUP && groupID != w.sectors[ld.frontsector].GroupID {
			continue
		}
		if ld.validcount[q.space] == q.Stamp {
			continue
		}
		ld.validcount[q.space] = q.Stamp
		if !fn(ld, nil) {
			return false
		}
	}
	return true
}

// BlockThingsIterator visits things linked in block (x, y), most recently
// linked first. Things of another group are skipped when both the thing and
// the query have a group. The next thing is read after the visitor returns:
// a thing the visitor relinks is followed into its new block, and one it
// unlinks or removes still leads to the thing that was after it. Removed
// things are passed over
func (w *World) BlockThingsIterator(x, y int, groupID int32, fn ThingVisitor) bool {
	bm := w.bmap
	if !bm.InRange(x, y) {
		return true
	}
	for id := bm.blocklinks[y*bm.width+x]; id != NOTHING; id = w.things[id].bnext {
		mo := w.things[id]
		if !mo.inuse {
			continue
		}
		if groupID != NOGROUP && mo.groupID != NOGROUP && groupID != mo.groupID {
			continue
		}
		if !fn(mo) {
			return false
		}
	}
	return true
}

// Block range covering box, clipped to the blockmap
func (w *World) blockRange(box *BBox) (xl, xh, yl, yh int) {
	bm := w.bmap
	xl, yl = bm.CellOf(box[BOXLEFT], box[BOXBOTTOM])
	xh, yh = bm.CellOf(box[BOXRIGHT], box[BOXTOP])
	if xl < 0 {
		xl = 0
	}
	if yl < 0 {
		yl = 0
	}
	if xh >= bm.width {
		xh = bm.width - 1
	}
	if yh >= bm.height {
		yh = bm.height - 1
	}
	return
}

// LinesInBox visits every line in blocks covered by box, each once
func (w *World) LinesInBox(q Query, box BBox, groupID int32, fn LineVisitor) bool {
	xl, xh, yl, yh := w.blockRange(&box)
	for bx := xl; bx <= xh; bx++ {
		for by := yl; by <= yh; by++ {
			if !w.BlockLinesIterator(q, bx, by, groupID, fn) {
				return false
			}
		}
	}
	return true
}

// ThingsInBox visits every thing linked in blocks covered by box. A thing is
// linked in one block only, so none is visited twice
func (w *World) ThingsInBox(box BBox, groupID int32, fn ThingVisitor) bool {
	xl, xh, yl, yh := w.blockRange(&box)
	for bx := xl; bx <= xh; bx++ {
		for by := yl; by <= yh; by++ {
			if !w.BlockThingsIterator(bx, by, groupID, fn) {
				return false
			}
		}
	}
	return true
}
