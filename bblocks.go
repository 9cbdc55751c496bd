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

// bblocks
// aka build blockmap
package vigilantclip

import (
	"fmt"
	"math"
)

// BlockLines is a blocklist under construction - indices of linedefs that
// pass through the block
type BlockLines []int32

func (b *BlockLines) Push(line int32) {
	*b = append(*b, line)
}

// BlockmapInput is what BuildBlockmapLump needs. Normally map loader reads
// BLOCKMAP lump from the wad, this is for maps that come without one (or for
// tests and tools that make maps up)
type BlockmapInput struct {
	Vertices []Vertex
	Lines    []Line
	// Lines for which this returns true are left out of blockmap.
	// Polyobject lines are the usual case, they get linked dynamically
	SkipLine func(idx int) bool
	// Whether to write a dummy linedef 0 at the start of every blocklist,
	// as every blockmap lump written by a nodebuilder does
	UseZeroHeader bool
}

// BuildBlockmapLump produces blockmap lump contents, already widened to int32
// the way ports hold it in memory: header, block offsets and blocklists, each
// blocklist terminated with BLOCKLIST_TERM. Identical blocklists are not
// merged - that saves space in a wad, not in memory.
func BuildBlockmapLump(input BlockmapInput) ([]int32, error) {
	if len(input.Lines) == 0 {
		return nil, fmt.Errorf("%w: no lines to build blockmap from", ErrCorruptLevel)
	}
	xmin, ymin := math.MaxInt32, math.MaxInt32
	xmax, ymax := math.MinInt32, math.MinInt32
	for i := range input.Lines {
		if input.SkipLine != nil && input.SkipLine(i) {
			continue
		}
		x1, y1, x2, y2, err := lineMapUnits(input.Vertices, &input.Lines[i])
		if err != nil {
			return nil, err
		}
		for _, x := range [2]int{x1, x2} {
			if x < xmin {
				xmin = x
			}
			if x > xmax {
				xmax = x
			}
		}
		for _, y := range [2]int{y1, y2} {
			if y < ymin {
				ymin = y
			}
			if y > ymax {
				ymax = y
			}
		}
	}
	if xmin > xmax { // everything was skipped
		xmin, ymin, xmax, ymax = 0, 0, 0, 0
	}
	xblocks := (xmax-xmin)>>BLOCK_BITS + 1
	yblocks := (ymax-ymin)>>BLOCK_BITS + 1
	blockCount := xblocks * yblocks
	blocklist := make([]BlockLines, blockCount)

	// Cycle over lines ONCE - the way zennode, zdbsp and others do
	for i := range input.Lines {
		if input.SkipLine != nil && input.SkipLine(i) {
			continue
		}
		cid := int32(i)
		x1, y1, x2, y2, _ := lineMapUnits(input.Vertices, &input.Lines[i])
		walkBlocks(x1, y1, x2, y2, xmin, ymin, func(bx, by int) {
			if bx < 0 || by < 0 || bx >= xblocks || by >= yblocks {
				// shouldn't happen, bounds cover every vertex
				return
			}
			blocklist[bx+by*xblocks].Push(cid)
		})
	}

	lumpSize := BLOCKMAP_HEADER_SIZE + blockCount
	for _, bl := range blocklist {
		lumpSize += len(bl) + 1
		if input.UseZeroHeader {
			lumpSize++
		}
	}
	lump := make([]int32, BLOCKMAP_HEADER_SIZE+blockCount, lumpSize)
	lump[0] = int32(xmin)
	lump[1] = int32(ymin)
	lump[2] = int32(xblocks)
	lump[3] = int32(yblocks)
	for i, bl := range blocklist {
		lump[BLOCKMAP_HEADER_SIZE+i] = int32(len(lump))
		if input.UseZeroHeader {
			lump = append(lump, 0)
		}
		lump = append(lump, bl...)
		lump = append(lump, BLOCKLIST_TERM)
	}
	Log.Verbose(1, "Blockmap: built %dx%d blocks at (%d,%d), %d entries\n",
		xblocks, yblocks, xmin, ymin, len(lump))
	return lump, nil
}

// Integer (map unit) coordinates of line's vertices, which is what blockmap
// lumps are made of
func lineMapUnits(vertices []Vertex, ld *Line) (int, int, int, int, error) {
	if ld.V1 < 0 || int(ld.V1) >= len(vertices) || ld.V2 < 0 ||
		int(ld.V2) >= len(vertices) {
		return 0, 0, 0, 0, fmt.Errorf("%w: line references vertex out of range (%d, %d)",
			ErrCorruptLevel, ld.V1, ld.V2)
	}
	v1 := vertices[ld.V1]
	v2 := vertices[ld.V2]
	return v1.X.Int(), v1.Y.Int(), v2.X.Int(), v2.Y.Int(), nil
}

func Sign(x int) int {
	if x < 0 {
		return -1
	} else if x > 0 {
		return 1
	} else {
		return 0
	}
}

func Abs(x int) int {
	return x * Sign(x)
}

func Scale(a int, b int, c int) int {
	return int((int64(a) * int64(b)) / int64(c))
}
