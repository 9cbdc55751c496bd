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

// GridRoom describes one cell of a grid level
type GridRoom struct {
	Floor      Fixed
	Ceiling    Fixed
	FloorPic   int32
	CeilingPic int32
	GroupID    int32
}

// GridSpec describes a level made of rectangular rooms, one sector each,
// Cols x Rows of them, CellSize map units wide
type GridSpec struct {
	Cols, Rows       int
	CellSize         int
	OriginX, OriginY int
	Room             func(col, row int) GridRoom
}

// GridLevel is level data of a grid, with lookups for its lines. Meant for
// tools and tests that need a playable level without a map loader
type GridLevel struct {
	*LevelData
	Spec GridSpec
	// Line on the left edge of cell (c, r), index c + r*(Cols+1)
	vlines []int32
	// Line on the bottom edge of cell (c, r), index c + r*Cols
	hlines []int32
}

func BuildGridLevel(spec GridSpec) *GridLevel {
	g := &GridLevel{
		LevelData: &LevelData{Name: "GRID"},
		Spec:      spec,
	}
	data := g.LevelData
	cols, rows := spec.Cols, spec.Rows

	for r := 0; r <= rows; r++ {
		for c := 0; c <= cols; c++ {
			data.Vertices = append(data.Vertices, Vertex{
				X: IntToFixed(spec.OriginX + c*spec.CellSize),
				Y: IntToFixed(spec.OriginY + r*spec.CellSize),
			})
		}
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			room := spec.Room(c, r)
			data.Sectors = append(data.Sectors, Sector{
				FloorHeight:   room.Floor,
				CeilingHeight: room.Ceiling,
				FloorPic:      room.FloorPic,
				CeilingPic:    room.CeilingPic,
				GroupID:       room.GroupID,
				FPortal:       NO_INDEX,
				CPortal:       NO_INDEX,
			})
			data.Subsectors = append(data.Subsectors, Subsector{Sector: int32(len(data.Subsectors))})
		}
	}

	// Vertical lines. Front side is to the right of v1->v2, so lines between
	// two rooms go up and have the right room in front
	g.vlines = make([]int32, (cols+1)*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c <= cols; c++ {
			bottom, top := g.vertexAt(c, r), g.vertexAt(c, r+1)
			switch c {
			case 0:
				g.vlines[c+r*(cols+1)] = g.addLine(bottom, top, g.sectorAt(c, r), NO_INDEX)
			case cols:
				g.vlines[c+r*(cols+1)] = g.addLine(top, bottom, g.sectorAt(c-1, r), NO_INDEX)
			default:
				g.vlines[c+r*(cols+1)] = g.addLine(bottom, top, g.sectorAt(c, r), g.sectorAt(c-1, r))
			}
		}
	}
	// Horizontal lines go east and have the lower room in front
	g.hlines = make([]int32, cols*(rows+1))
	for r := 0; r <= rows; r++ {
		for c := 0; c < cols; c++ {
			left, right := g.vertexAt(c, r), g.vertexAt(c+1, r)
			switch r {
			case 0:
				g.hlines[c+r*cols] = g.addLine(right, left, g.sectorAt(c, r), NO_INDEX)
			case rows:
				g.hlines[c+r*cols] = g.addLine(left, right, g.sectorAt(c, r-1), NO_INDEX)
			default:
				g.hlines[c+r*cols] = g.addLine(left, right, g.sectorAt(c, r-1), g.sectorAt(c, r))
			}
		}
	}

	g.buildNodes(0, cols, 0, rows)
	return g
}

func (g *GridLevel) vertexAt(c, r int) int32 {
	return int32(r*(g.Spec.Cols+1) + c)
}

func (g *GridLevel) sectorAt(c, r int) int32 {
	return int32(r*g.Spec.Cols + c)
}

// SectorAt returns the sector of room (c, r)
func (g *GridLevel) SectorAt(c, r int) int32 {
	return g.sectorAt(c, r)
}

func (g *GridLevel) addLine(v1, v2, front, back int32) int32 {
	data := g.LevelData
	ld := Line{
		V1:               v1,
		V2:               v2,
		Sidenum:          [2]int32{int32(len(data.Sides)), NO_INDEX},
		Portal:           NO_INDEX,
		BeyondPortalLine: NO_INDEX,
	}
	data.Sides = append(data.Sides, Side{Sector: front})
	if back != NO_INDEX {
		ld.Sidenum[1] = int32(len(data.Sides))
		ld.Flags |= ML_TWOSIDED
		data.Sides = append(data.Sides, Side{Sector: back})
	} else {
		ld.Flags |= ML_BLOCKING
	}
	data.Lines = append(data.Lines, ld)
	return int32(len(data.Lines) - 1)
}

// LeftLine returns the line on the left edge of room (c, r). c can be Cols
// for the right edge of the last column
func (g *GridLevel) LeftLine(c, r int) int32 {
	return g.vlines[c+r*(g.Spec.Cols+1)]
}

// BottomLine returns the line on the bottom edge of room (c, r). r can be
// Rows for the top edge of the last row
func (g *GridLevel) BottomLine(c, r int) int32 {
	return g.hlines[c+r*g.Spec.Cols]
}

// Splits the room range in halves along its longer side until single rooms
// remain. Children are appended before their parent, root ends up last.
// Returns child reference for the parent
func (g *GridLevel) buildNodes(c0, c1, r0, r1 int) uint32 {
	if c1-c0 == 1 && r1-r0 == 1 {
		return uint32(g.sectorAt(c0, r0)) | NF_SUBSECTOR
	}
	var node Node
	size := g.Spec.CellSize
	if c1-c0 >= r1-r0 {
		mid := (c0 + c1) / 2
		// Partition goes up, right half is in front
		node = Node{
			X:  IntToFixed(g.Spec.OriginX + mid*size),
			Y:  IntToFixed(g.Spec.OriginY + r0*size),
			Dx: 0,
			Dy: IntToFixed((r1 - r0) * size),
		}
		node.Children[0] = g.buildNodes(mid, c1, r0, r1)
		node.Children[1] = g.buildNodes(c0, mid, r0, r1)
	} else {
		mid := (r0 + r1) / 2
		// Partition goes east, lower half is in front
		node = Node{
			X:  IntToFixed(g.Spec.OriginX + c0*size),
			Y:  IntToFixed(g.Spec.OriginY + mid*size),
			Dx: IntToFixed((c1 - c0) * size),
			Dy: 0,
		}
		node.Children[0] = g.buildNodes(c0, c1, r0, mid)
		node.Children[1] = g.buildNodes(c0, c1, mid, r1)
	}
	g.Nodes = append(g.Nodes, node)
	return uint32(len(g.Nodes) - 1)
}

// AddPolyobject puts a square polyobject of one-sided lines centered at
// (cx, cy), facing outwards, into room (c, r). Returns its definition index
func (g *GridLevel) AddPolyobject(id int32, cx, cy, halfSize int, c, r int) int {
	data := g.LevelData
	sector := g.sectorAt(c, r)
	base := int32(len(data.Vertices))
	corners := [4][2]int{
		{cx - halfSize, cy - halfSize},
		{cx + halfSize, cy - halfSize},
		{cx + halfSize, cy + halfSize},
		{cx - halfSize, cy + halfSize},
	}
	for _, p := range corners {
		data.Vertices = append(data.Vertices, Vertex{X: IntToFixed(p[0]), Y: IntToFixed(p[1])})
	}
	def := PolyobjectDef{
		ID:     id,
		Center: Vertex{X: IntToFixed(cx), Y: IntToFixed(cy)},
	}
	// Counterclockwise puts front sides on the outside
	for i := int32(0); i < 4; i++ {
		def.Lines = append(def.Lines, g.addLine(base+i, base+(i+1)%4, sector, NO_INDEX))
	}
	data.Polyobjects = append(data.Polyobjects, def)
	return len(data.Polyobjects) - 1
}
