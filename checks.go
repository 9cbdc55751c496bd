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
	"sort"

	"github.com/vmihailenco/msgpack/v5"
)

var ErrBrokenLinks = errors.New("broken links")

func brokenLinks(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrBrokenLinks, fmt.Sprintf(format, a...))
}

// CheckLinks walks every intrusive list of the world and verifies that they
// agree with each other and with thing positions. Meant for tests and
// debugging, it is slow
func (w *World) CheckLinks() error {
	if err := w.checkBlockLinks(); err != nil {
		return err
	}
	if err := w.checkSectorLinks(); err != nil {
		return err
	}
	if err := w.checkSecnodes(); err != nil {
		return err
	}
	return w.checkPolyLinks()
}

func (w *World) checkBlockLinks() error {
	bm := w.bmap
	seen := make(map[ThingID]int)
	for cell, head := range bm.blocklinks {
		prev := linkRef{kind: linkHead, idx: int32(cell)}
		steps := 0
		for id := head; id != NOTHING; id = w.things[id].bnext {
			if id < 0 || int(id) >= len(w.things) || !w.things[id].inuse {
				return brokenLinks("block %d links to bad thing %d", cell, id)
			}
			if other, ok := seen[id]; ok {
				return brokenLinks("thing %d is in block %d and block %d", id, other, cell)
			}
			seen[id] = cell
			mo := w.things[id]
			if mo.bprev != prev {
				return brokenLinks("thing %d in block %d has wrong prev link", id, cell)
			}
			bx, by := bm.CellOf(mo.X, mo.Y)
			if by*bm.width+bx != cell {
				return brokenLinks("thing %d is linked in block %d but is in block (%d,%d)",
					id, cell, bx, by)
			}
			prev = linkRef{kind: linkThing, idx: int32(id)}
			steps++
			if steps > len(w.things) {
				return brokenLinks("cycle in block %d", cell)
			}
		}
	}
	for _, mo := range w.things {
		if !mo.inuse {
			continue
		}
		_, found := seen[mo.ID]
		if found != mo.InBlockmap() {
			return brokenLinks("thing %d block link state disagrees with block lists", mo.ID)
		}
		// A settled thing that can be in blockmap must be
		if mo.InSector() && mo.Flags&MF_NOBLOCKMAP == 0 &&
			bm.InRange(bm.CellOf(mo.X, mo.Y)) && !found {
			return brokenLinks("thing %d is missing from blockmap", mo.ID)
		}
	}
	return nil
}

func (w *World) checkSectorLinks() error {
	seen := make(map[ThingID]int32)
	for s := range w.sectors {
		sec := int32(s)
		prev := linkRef{kind: linkHead, idx: sec}
		steps := 0
		for id := w.sectors[s].thinglist; id != NOTHING; id = w.things[id].snext {
			if id < 0 || int(id) >= len(w.things) || !w.things[id].inuse {
				return brokenLinks("sector %d links to bad thing %d", sec, id)
			}
			if other, ok := seen[id]; ok {
				return brokenLinks("thing %d is in sector %d and sector %d", id, other, sec)
			}
			seen[id] = sec
			mo := w.things[id]
			if mo.sprev != prev {
				return brokenLinks("thing %d in sector %d has wrong prev link", id, sec)
			}
			if w.subsectors[mo.subsector].Sector != sec {
				return brokenLinks("thing %d is linked in sector %d but its subsector is in sector %d",
					id, sec, w.subsectors[mo.subsector].Sector)
			}
			prev = linkRef{kind: linkThing, idx: int32(id)}
			steps++
			if steps > len(w.things) {
				return brokenLinks("cycle in sector %d", sec)
			}
		}
	}
	for _, mo := range w.things {
		if !mo.inuse {
			continue
		}
		if _, found := seen[mo.ID]; found != mo.InSector() {
			return brokenLinks("thing %d sector link state disagrees with sector lists", mo.ID)
		}
	}
	return nil
}

func (w *World) checkSecnodes() error {
	fromThings := 0
	for _, mo := range w.things {
		if !mo.inuse {
			continue
		}
		if !mo.InSector() && mo.touchingSectorList != NO_INDEX {
			return brokenLinks("unlinked thing %d has touching sectors", mo.ID)
		}
		sectors := make(map[int32]bool)
		prev := int32(NO_INDEX)
		for node := mo.touchingSectorList; node != NO_INDEX; node = w.secnodes[node].tnext {
			n := &w.secnodes[node]
			if n.thing != mo.ID || n.tprev != prev {
				return brokenLinks("thing %d touching-sector list is broken at node %d",
					mo.ID, node)
			}
			if sectors[n.sector] {
				return brokenLinks("thing %d touches sector %d twice", mo.ID, n.sector)
			}
			sectors[n.sector] = true
			prev = node
			fromThings++
			if fromThings > len(w.secnodes) {
				return brokenLinks("cycle in touching-sector list of thing %d", mo.ID)
			}
		}
	}
	fromSectors := 0
	for s := range w.sectors {
		prev := int32(NO_INDEX)
		for node := w.sectors[s].touchingThings; node != NO_INDEX; node = w.secnodes[node].snext {
			n := &w.secnodes[node]
			if n.sector != int32(s) || n.sprev != prev {
				return brokenLinks("sector %d touching-thing list is broken at node %d",
					s, node)
			}
			if w.Thing(n.thing) == nil {
				return brokenLinks("sector %d is touched by bad thing %d", s, n.thing)
			}
			prev = node
			fromSectors++
			if fromSectors > len(w.secnodes) {
				return brokenLinks("cycle in touching-thing list of sector %d", s)
			}
		}
	}
	// Stashed lists of unset things are in sector lists too
	for _, mo := range w.things {
		if !mo.inuse {
			continue
		}
		for node := mo.oldSectorList; node != NO_INDEX; node = w.secnodes[node].tnext {
			fromThings++
		}
	}
	if fromThings != fromSectors {
		return brokenLinks("%d nodes in thing lists, %d in sector lists",
			fromThings, fromSectors)
	}
	return nil
}

func (w *World) checkPolyLinks() error {
	bm := w.bmap
	for pidx, po := range w.polys {
		for _, link := range po.links {
			l := &bm.polyLinks[link]
			if l.po != int32(pidx) {
				return brokenLinks("polyobject %d owns link %d of polyobject %d",
					po.ID, link, l.po)
			}
			found := false
			for idx := bm.polyHeads[l.cell]; idx != NO_INDEX; idx = bm.polyLinks[idx].next {
				if idx == link {
					found = true
					break
				}
			}
			if !found {
				return brokenLinks("polyobject %d link %d missing from block %d",
					po.ID, link, l.cell)
			}
		}
	}
	return nil
}

type ThingSnapshot struct {
	ID        ThingID `msgpack:"id"`
	Type      int32   `msgpack:"type"`
	X         int32   `msgpack:"x"`
	Y         int32   `msgpack:"y"`
	Z         int32   `msgpack:"z"`
	Subsector int32   `msgpack:"ss"`
	Group     int32   `msgpack:"group"`
	Block     int32   `msgpack:"block"` // -1 when not in blockmap
	Sectors   []int32 `msgpack:"sectors"`
}

type PolySnapshot struct {
	ID    int32  `msgpack:"id"`
	X     int32  `msgpack:"x"`
	Y     int32  `msgpack:"y"`
	Angle uint32 `msgpack:"angle"`
}

// Snapshot is a summary of thing and polyobject positions and of their
// links, for comparing simulation runs
type Snapshot struct {
	Tic         int32           `msgpack:"tic"`
	Things      []ThingSnapshot `msgpack:"things"`
	Polyobjects []PolySnapshot  `msgpack:"polys"`
}

func (w *World) Snapshot() *Snapshot {
	snap := &Snapshot{Tic: w.tic}
	bm := w.bmap
	for _, mo := range w.things {
		if !mo.inuse {
			continue
		}
		block := int32(-1)
		if mo.InBlockmap() {
			bx, by := bm.CellOf(mo.X, mo.Y)
			block = int32(by*bm.width + bx)
		}
		sectors := w.TouchingSectors(mo)
		sort.Slice(sectors, func(i, j int) bool { return sectors[i] < sectors[j] })
		snap.Things = append(snap.Things, ThingSnapshot{
			ID:        mo.ID,
			Type:      mo.Type,
			X:         int32(mo.X),
			Y:         int32(mo.Y),
			Z:         int32(mo.Z),
			Subsector: mo.subsector,
			Group:     mo.groupID,
			Block:     block,
			Sectors:   sectors,
		})
	}
	for _, po := range w.polys {
		snap.Polyobjects = append(snap.Polyobjects, PolySnapshot{
			ID:    po.ID,
			X:     int32(po.Center.X),
			Y:     int32(po.Center.Y),
			Angle: uint32(po.Angle),
		})
	}
	return snap
}

// Encode serializes snapshot with msgpack. Equal snapshots give equal bytes
func (s *Snapshot) Encode() ([]byte, error) {
	return msgpack.Marshal(s)
}

func DecodeSnapshot(b []byte) (*Snapshot, error) {
	s := &Snapshot{}
	if err := msgpack.Unmarshal(b, s); err != nil {
		return nil, err
	}
	return s, nil
}
