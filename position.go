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
	"github.com/sirupsen/logrus"
)

// UnsetThingPosition unlinks thing from its sector and block. Touching-sector
// list is kept aside for SetThingPosition to reuse. Calling it on a thing
// that isn't linked does nothing
func (w *World) UnsetThingPosition(mo *Thing) {
	w.checkThing(mo)
	w.traceThing(mo, "unset")

	if mo.sprev.kind != linkNone {
		switch mo.sprev.kind {
		case linkHead:
			w.sectors[mo.sprev.idx].thinglist = mo.snext
		case linkThing:
			w.things[mo.sprev.idx].snext = mo.snext
		}
		if mo.snext != NOTHING {
			w.things[mo.snext].sprev = mo.sprev
		}
		mo.snext = NOTHING
		mo.sprev = linkRef{}

		mo.oldSectorList = mo.touchingSectorList
		mo.touchingSectorList = NO_INDEX
	}

	if mo.bprev.kind != linkNone {
		switch mo.bprev.kind {
		case linkHead:
			w.bmap.blocklinks[mo.bprev.idx] = mo.bnext
		case linkThing:
			w.things[mo.bprev.idx].bnext = mo.bnext
		}
		if mo.bnext != NOTHING {
			w.things[mo.bnext].bprev = mo.bprev
		}
		// bnext is left as is, so an iterator standing on this thing can go on
		mo.bprev = linkRef{}
	}
}

// SetThingPosition links thing into the subsector, sector and block at its
// coordinates. Things with MF_NOSECTOR / MF_NOBLOCKMAP skip the respective
// links; a thing outside blockmap gets no block link
func (w *World) SetThingPosition(mo *Thing) {
	w.checkThing(mo)
	if mo.sprev.kind != linkNone || mo.bprev.kind != linkNone {
		Log.Panic("SetThingPosition: thing %d is still linked\n", mo.ID)
	}
	mo.subsector = w.PointInSubsector(mo.X, mo.Y)
	w.traceThing(mo, "set")
	secnum := w.subsectors[mo.subsector].Sector
	mo.groupID = w.sectors[secnum].GroupID

	if mo.Flags&MF_NOSECTOR == 0 {
		sec := &w.sectors[secnum]
		mo.snext = sec.thinglist
		if mo.snext != NOTHING {
			w.things[mo.snext].sprev = linkRef{kind: linkThing, idx: int32(mo.ID)}
		}
		mo.sprev = linkRef{kind: linkHead, idx: secnum}
		sec.thinglist = mo.ID

		mo.touchingSectorList = w.createSecNodeList(mo)
		mo.oldSectorList = NO_INDEX
	}

	if mo.Flags&MF_NOBLOCKMAP == 0 {
		bx, by := w.bmap.CellOf(mo.X, mo.Y)
		if w.bmap.InRange(bx, by) {
			cell := int32(by*w.bmap.width + bx)
			mo.bnext = w.bmap.blocklinks[cell]
			if mo.bnext != NOTHING {
				w.things[mo.bnext].bprev = linkRef{kind: linkThing, idx: int32(mo.ID)}
			}
			mo.bprev = linkRef{kind: linkHead, idx: cell}
			w.bmap.blocklinks[cell] = mo.ID
		} else {
			// off the map
			mo.bnext = NOTHING
			mo.bprev = linkRef{}
		}
	}
}

// MoveThing relinks thing at new coordinates in one step. No query may be
// started until the thing is linked again
func (w *World) MoveThing(mo *Thing, x, y, z Fixed) {
	w.checkThing(mo)
	if w.relinking {
		Log.Panic("MoveThing(%d) while thing %d is being relinked\n", mo.ID,
			w.relinkingThing)
	}
	w.relinking = true
	w.relinkingThing = mo.ID
	w.UnsetThingPosition(mo)
	mo.X = x
	mo.Y = y
	mo.Z = z
	w.SetThingPosition(mo)
	w.relinking = false
	w.relinkingThing = NOTHING
}

// Thing position log for debugging replay desyncs
func (w *World) traceThing(mo *Thing, caller string) {
	if !w.traceThings {
		return
	}
	w.log.WithFields(logrus.Fields{
		"tic":    w.tic,
		"caller": caller,
		"thing":  mo.ID,
		"type":   mo.Type,
		"x":      int32(mo.X),
		"y":      int32(mo.Y),
		"z":      int32(mo.Z),
		"flags":  mo.Flags & 0x7fffffff,
	}).Info("thing position")
}
