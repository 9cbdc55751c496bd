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

// ThingID is index of a thing slot in World. Slots are reused after a thing
// is removed
type ThingID int32

const NOTHING = ThingID(-1)

type linkKind uint8

const (
	linkNone  linkKind = iota // not in any list
	linkHead                  // first in list, idx is the list owner (block or sector)
	linkThing                 // idx is the previous thing
)

// linkRef replaces the pointer-to-previous-next-pointer of intrusive lists:
// it names whatever holds the link to this thing
type linkRef struct {
	kind linkKind
	idx  int32
}

// ThingDef describes a thing to spawn
type ThingDef struct {
	Type   int32
	X, Y   Fixed
	Z      Fixed
	Radius Fixed
	Height Fixed
	Flags  uint32
}

type Thing struct {
	ID     ThingID
	Type   int32
	X, Y   Fixed
	Z      Fixed
	Radius Fixed
	Height Fixed
	Flags  uint32

	subsector int32
	groupID   int32

	bnext ThingID
	bprev linkRef
	snext ThingID
	sprev linkRef

	// secnode lists
	touchingSectorList int32
	oldSectorList      int32

	inuse bool
}

// Subsector containing thing's center, as of the last SetThingPosition
func (mo *Thing) Subsector() int32 {
	return mo.subsector
}

// Portal group of thing's sector
func (mo *Thing) GroupID() int32 {
	return mo.groupID
}

// InBlockmap tells whether thing is currently linked into a block
func (mo *Thing) InBlockmap() bool {
	return mo.bprev.kind != linkNone
}

// InSector tells whether thing is currently linked into its sector
func (mo *Thing) InSector() bool {
	return mo.sprev.kind != linkNone
}

func (mo *Thing) BBox() BBox {
	return BoxAround(mo.X, mo.Y, mo.Radius)
}

// SpawnThing puts a new thing into the world and links it at its position
func (w *World) SpawnThing(def ThingDef) *Thing {
	var id ThingID
	if n := len(w.freeThings); n > 0 {
		id = w.freeThings[n-1]
		w.freeThings = w.freeThings[:n-1]
	} else {
		id = ThingID(len(w.things))
		w.things = append(w.things, nil)
	}
	// New Thing even for a reused slot, so handles kept past RemoveThing
	// are caught instead of aliasing this one
	mo := &Thing{
		ID:                 id,
		Type:               def.Type,
		X:                  def.X,
		Y:                  def.Y,
		Z:                  def.Z,
		Radius:             def.Radius,
		Height:             def.Height,
		Flags:              def.Flags,
		subsector:          NO_INDEX,
		groupID:            NOGROUP,
		bnext:              NOTHING,
		snext:              NOTHING,
		touchingSectorList: NO_INDEX,
		oldSectorList:      NO_INDEX,
		inuse:              true,
	}
	w.things[id] = mo
	w.SetThingPosition(mo)
	return mo
}

// RemoveThing unlinks thing from everything, releases its sector nodes and
// frees its slot. Passing the *Thing to the world afterwards panics
func (w *World) RemoveThing(mo *Thing) {
	w.checkThing(mo)
	w.UnsetThingPosition(mo)
	w.delSeclist(mo.oldSectorList)
	mo.oldSectorList = NO_INDEX
	mo.touchingSectorList = NO_INDEX
	mo.inuse = false
	w.freeThings = append(w.freeThings, mo.ID)
}

// Thing returns thing in the slot, or nil if the slot is free or invalid
func (w *World) Thing(id ThingID) *Thing {
	if id < 0 || int(id) >= len(w.things) || !w.things[id].inuse {
		return nil
	}
	return w.things[id]
}

// ForEachThing visits things in slot order
func (w *World) ForEachThing(fn func(mo *Thing) bool) {
	for _, mo := range w.things {
		if mo.inuse && !fn(mo) {
			return
		}
	}
}

func (w *World) NumThings() int {
	return len(w.things) - len(w.freeThings)
}

func (w *World) checkThing(mo *Thing) {
	if mo == nil || mo.ID < 0 || int(mo.ID) >= len(w.things) ||
		w.things[mo.ID] != mo {
		Log.Panic("thing does not belong to this world\n")
	}
	if !mo.inuse {
		Log.Panic("use of removed thing %d\n", mo.ID)
	}
}

// SectorThings returns things whose center is in sector, head first
func (w *World) SectorThings(sector int32) []ThingID {
	var ids []ThingID
	for id := w.sectors[sector].thinglist; id != NOTHING; id = w.things[id].snext {
		ids = append(ids, id)
	}
	return ids
}

// BlockThings returns things linked in block, head first
func (w *World) BlockThings(bx, by int) []ThingID {
	var ids []ThingID
	w.BlockThingsIterator(bx, by, NOGROUP, func(mo *Thing) bool {
		ids = append(ids, mo.ID)
		return true
	})
	return ids
}
