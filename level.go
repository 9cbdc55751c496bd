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

	"github.com/sirupsen/logrus"
)

var ErrCorruptLevel = errors.New("corrupt level data")

// LevelData is map data as handed over by the map loader. NewWorld copies
// what it mutates, the rest is referenced read-only
type LevelData struct {
	Name        string
	Vertices    []Vertex
	Sides       []Side
	Sectors     []Sector
	Lines       []Line
	Subsectors  []Subsector
	Nodes       []Node
	Portals     []Portal
	Polyobjects []PolyobjectDef
	// Blockmap lump widened to int32. If nil, blockmap is built from lines
	Blockmap []int32
}

// World is the collision index of one level with the things in it. It is not
// safe for concurrent use, but separate worlds are independent
type World struct {
	name       string
	vertices   []Vertex
	sides      []Side
	sectors    []Sector
	lines      []Line
	subsectors []Subsector
	nodes      []Node
	portals    []Portal
	polys      []*Polyobject
	bmap       *Blockmap

	compat   Compat
	textures TextureSource

	things     []*Thing
	freeThings []ThingID

	secnodes    []secnode
	freeSecnode int32

	validcount stamps
	tic        int32

	relinking      bool
	relinkingThing ThingID

	traceThings bool
	log         *logrus.Entry
}

// NewWorld checks level data for consistency and builds collision index for
// it. Broken references are reported as ErrCorruptLevel, broken blockmap as
// ErrCorruptBlockmap
func NewWorld(data *LevelData, opts Options) (*World, error) {
	logger := opts.Logger
	if logger == nil {
		logger = Log.Logrus()
	}
	w := &World{
		name:           data.Name,
		vertices:       append([]Vertex(nil), data.Vertices...),
		sides:          data.Sides,
		sectors:        append([]Sector(nil), data.Sectors...),
		lines:          append([]Line(nil), data.Lines...),
		subsectors:     data.Subsectors,
		nodes:          data.Nodes,
		portals:        data.Portals,
		compat:         opts.Compat,
		textures:       opts.Textures,
		freeSecnode:    NO_INDEX,
		relinkingThing: NOTHING,
		traceThings:    opts.TraceThings,
		log:            logger.WithFields(logrus.Fields{"map": data.Name}),
	}
	if err := w.checkLevel(); err != nil {
		return nil, err
	}

	for i := range w.sectors {
		w.sectors[i].thinglist = NOTHING
		w.sectors[i].touchingThings = NO_INDEX
	}
	for i := range w.lines {
		ld := &w.lines[i]
		ld.num = int32(i)
		ld.validcount = stamps{}
		ld.setVertices(w.vertices[ld.V1], w.vertices[ld.V2])
		ld.frontsector = w.sides[ld.Sidenum[0]].Sector
		if ld.Sidenum[1] != NO_INDEX {
			ld.backsector = w.sides[ld.Sidenum[1]].Sector
		} else {
			ld.backsector = NO_INDEX
		}
	}

	polyLines, err := w.checkPolyobjects(data.Polyobjects)
	if err != nil {
		return nil, err
	}

	lump := data.Blockmap
	if lump == nil {
		lump, err = BuildBlockmapLump(BlockmapInput{
			Vertices:      w.vertices,
			Lines:         w.lines,
			SkipLine:      func(idx int) bool { return polyLines[int32(idx)] },
			UseZeroHeader: opts.BuildWithSentinel || w.compat.SkipBlocklistSentinel,
		})
		if err != nil {
			return nil, err
		}
	}
	w.bmap, err = NewBlockmap(lump, len(w.lines), w.compat)
	if err != nil {
		return nil, err
	}

	for i := range data.Polyobjects {
		po := newPolyobject(w, &data.Polyobjects[i])
		w.polys = append(w.polys, po)
		w.LinkPolyobject(po)
	}

	w.log.WithFields(logrus.Fields{
		"lines":       len(w.lines),
		"sectors":     len(w.sectors),
		"polyobjects": len(w.polys),
		"blocks":      fmt.Sprintf("%dx%d", w.bmap.width, w.bmap.height),
	}).Debug("world ready")
	return w, nil
}

func (w *World) checkLevel() error {
	if len(w.subsectors) == 0 {
		return fmt.Errorf("%w: no subsectors", ErrCorruptLevel)
	}
	numVerts := int32(len(w.vertices))
	numSides := int32(len(w.sides))
	numSectors := int32(len(w.sectors))
	numLines := int32(len(w.lines))
	numPortals := int32(len(w.portals))

	for i := range w.sides {
		if s := w.sides[i].Sector; s < 0 || s >= numSectors {
			return fmt.Errorf("%w: side %d references sector %d", ErrCorruptLevel, i, s)
		}
	}
	for i := range w.lines {
		ld := &w.lines[i]
		if ld.V1 < 0 || ld.V1 >= numVerts || ld.V2 < 0 || ld.V2 >= numVerts {
			return fmt.Errorf("%w: line %d references vertices %d, %d",
				ErrCorruptLevel, i, ld.V1, ld.V2)
		}
		if ld.Sidenum[0] < 0 || ld.Sidenum[0] >= numSides {
			return fmt.Errorf("%w: line %d has no front side", ErrCorruptLevel, i)
		}
		if ld.Sidenum[1] != NO_INDEX && (ld.Sidenum[1] < 0 || ld.Sidenum[1] >= numSides) {
			return fmt.Errorf("%w: line %d references back side %d",
				ErrCorruptLevel, i, ld.Sidenum[1])
		}
		if ld.Portal != NO_INDEX && (ld.Portal < 0 || ld.Portal >= numPortals) {
			return fmt.Errorf("%w: line %d references portal %d", ErrCorruptLevel,
				i, ld.Portal)
		}
		if ld.PFlags&PS_PASSABLE != 0 && ld.Portal == NO_INDEX {
			return fmt.Errorf("%w: line %d is passable without a portal",
				ErrCorruptLevel, i)
		}
		if ld.BeyondPortalLine != NO_INDEX &&
			(ld.BeyondPortalLine < 0 || ld.BeyondPortalLine >= numLines) {
			return fmt.Errorf("%w: line %d references beyond-portal line %d",
				ErrCorruptLevel, i, ld.BeyondPortalLine)
		}
	}
	for i := range w.sectors {
		sec := &w.sectors[i]
		err := checkPlanePortal(sec.FPortal, sec.FPFlags, numPortals)
		if err == nil {
			err = checkPlanePortal(sec.CPortal, sec.CPFlags, numPortals)
		}
		if err != nil {
			return fmt.Errorf("%w: sector %d: %s", ErrCorruptLevel, i, err.Error())
		}
	}
	for i := range w.subsectors {
		if s := w.subsectors[i].Sector; s < 0 || s >= numSectors {
			return fmt.Errorf("%w: subsector %d references sector %d",
				ErrCorruptLevel, i, s)
		}
	}
	// Children must come before their parent, which also rules out cycles
	for i := range w.nodes {
		for _, child := range w.nodes[i].Children {
			if child&NF_SUBSECTOR != 0 {
				if int(child&^NF_SUBSECTOR) >= len(w.subsectors) {
					return fmt.Errorf("%w: node %d references subsector %d",
						ErrCorruptLevel, i, child&^NF_SUBSECTOR)
				}
			} else if int(child) >= i {
				return fmt.Errorf("%w: node %d references node %d",
					ErrCorruptLevel, i, child)
			}
		}
	}
	return nil
}

func checkPlanePortal(portal int32, pflags uint32, numPortals int32) error {
	if portal == NO_INDEX {
		if pflags&PS_PASSABLE != 0 {
			return errors.New("passable plane without a portal")
		}
		return nil
	}
	if portal < 0 || portal >= numPortals {
		return fmt.Errorf("plane references portal %d", portal)
	}
	return nil
}

// Polyobject lines must exist, belong to one polyobject only, and not share
// vertices with static lines (those would move along)
func (w *World) checkPolyobjects(defs []PolyobjectDef) (map[int32]bool, error) {
	polyLines := make(map[int32]bool)
	polyVerts := make(map[int32]bool)
	for _, def := range defs {
		if len(def.Lines) == 0 {
			return nil, fmt.Errorf("%w: polyobject %d has no lines",
				ErrCorruptLevel, def.ID)
		}
		for _, lidx := range def.Lines {
			if lidx < 0 || int(lidx) >= len(w.lines) {
				return nil, fmt.Errorf("%w: polyobject %d references line %d",
					ErrCorruptLevel, def.ID, lidx)
			}
			if polyLines[lidx] {
				return nil, fmt.Errorf("%w: line %d is in more than one polyobject",
					ErrCorruptLevel, lidx)
			}
			polyLines[lidx] = true
			polyVerts[w.lines[lidx].V1] = true
			polyVerts[w.lines[lidx].V2] = true
		}
	}
	for i := range w.lines {
		if polyLines[int32(i)] {
			continue
		}
		if polyVerts[w.lines[i].V1] || polyVerts[w.lines[i].V2] {
			return nil, fmt.Errorf("%w: static line %d shares a vertex with a polyobject",
				ErrCorruptLevel, i)
		}
	}
	return polyLines, nil
}

func (w *World) Name() string {
	return w.name
}

func (w *World) Blockmap() *Blockmap {
	return w.bmap
}

func (w *World) Compat() Compat {
	return w.compat
}

func (w *World) NumLines() int {
	return len(w.lines)
}

func (w *World) Line(i int32) *Line {
	return &w.lines[i]
}

func (w *World) NumSectors() int {
	return len(w.sectors)
}

// Sector returns the sector for reading and for changing plane heights.
// Moving planes doesn't need relinking
func (w *World) Sector(i int32) *Sector {
	return &w.sectors[i]
}

func (w *World) Side(i int32) *Side {
	return &w.sides[i]
}

func (w *World) Vertex(i int32) Vertex {
	return w.vertices[i]
}
