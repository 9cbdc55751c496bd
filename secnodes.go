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

// A secnode says "thing touches sector". Each node is threaded on two lists:
// the thing's touching-sector list (tprev/tnext) and the sector's
// touching-thing list (sprev/snext). Free nodes are chained through tnext
type secnode struct {
	sector int32
	thing  ThingID // NOTHING while a node is up for deletion
	tprev  int32
	tnext  int32
	sprev  int32
	snext  int32
}

func (w *World) getSecnode() int32 {
	if w.freeSecnode != NO_INDEX {
		idx := w.freeSecnode
		w.freeSecnode = w.secnodes[idx].tnext
		return idx
	}
	w.secnodes = append(w.secnodes, secnode{})
	return int32(len(w.secnodes) - 1)
}

// addSecnode makes sure thing's list beginning at nextnode has a node for
// sector s, marking the node as used. Returns new head of the list
func (w *World) addSecnode(s int32, mo *Thing, nextnode int32) int32 {
	for node := nextnode; node != NO_INDEX; node = w.secnodes[node].tnext {
		if w.secnodes[node].sector == s {
			w.secnodes[node].thing = mo.ID
			return nextnode
		}
	}

	node := w.getSecnode()
	sec := &w.sectors[s]
	w.secnodes[node] = secnode{
		sector: s,
		thing:  mo.ID,
		tprev:  NO_INDEX,
		tnext:  nextnode,
		sprev:  NO_INDEX,
		snext:  sec.touchingThings,
	}
	if nextnode != NO_INDEX {
		w.secnodes[nextnode].tprev = node
	}
	if sec.touchingThings != NO_INDEX {
		w.secnodes[sec.touchingThings].sprev = node
	}
	sec.touchingThings = node
	return node
}

// delSecnode unlinks node from both of its lists and frees it. Returns the
// next node in the thing's list
func (w *World) delSecnode(node int32) int32 {
	if node == NO_INDEX {
		return NO_INDEX
	}
	n := &w.secnodes[node]
	tp, tn := n.tprev, n.tnext
	if tp != NO_INDEX {
		w.secnodes[tp].tnext = tn
	}
	if tn != NO_INDEX {
		w.secnodes[tn].tprev = tp
	}
	sp, sn := n.sprev, n.snext
	if sp != NO_INDEX {
		w.secnodes[sp].snext = sn
	} else {
		w.sectors[n.sector].touchingThings = sn
	}
	if sn != NO_INDEX {
		w.secnodes[sn].sprev = sp
	}
	n.sector = NO_INDEX
	n.thing = NOTHING
	n.tprev = NO_INDEX
	n.sprev = NO_INDEX
	n.snext = NO_INDEX
	n.tnext = w.freeSecnode
	w.freeSecnode = node
	return tn
}

func (w *World) delSeclist(node int32) {
	for node != NO_INDEX {
		node = w.delSecnode(node)
	}
}

// createSecNodeList reconciles thing's old touching-sector list with the
// sectors it touches at its current position: nodes of sectors still touched
// are kept, new ones added, vacated ones freed. Returns the new list
func (w *World) createSecNodeList(mo *Thing) int32 {
	list := mo.oldSectorList
	for node := list; node != NO_INDEX; node = w.secnodes[node].tnext {
		w.secnodes[node].thing = NOTHING
	}

	box := mo.BBox()
	q := w.nextQuery(stampRelink)
	w.LinesInBox(q, box, NOGROUP, func(ld *Line, po *Polyobject) bool {
		if !lineTouchesBox(&box, ld) {
			return true
		}
		list = w.addSecnode(ld.frontsector, mo, list)
		if ld.backsector != NO_INDEX && ld.backsector != ld.frontsector {
			list = w.addSecnode(ld.backsector, mo, list)
		}
		return true
	})

	list = w.addSecnode(w.subsectors[mo.subsector].Sector, mo, list)

	node := list
	for node != NO_INDEX {
		if w.secnodes[node].thing == NOTHING {
			if node == list {
				list = w.secnodes[node].tnext
			}
			node = w.delSecnode(node)
		} else {
			node = w.secnodes[node].tnext
		}
	}
	return list
}

// Line bbox overlaps box and line crosses it
func lineTouchesBox(box *BBox, ld *Line) bool {
	if box[BOXRIGHT] <= ld.bbox[BOXLEFT] ||
		box[BOXLEFT] >= ld.bbox[BOXRIGHT] ||
		box[BOXTOP] <= ld.bbox[BOXBOTTOM] ||
		box[BOXBOTTOM] >= ld.bbox[BOXTOP] {
		return false
	}
	return BoxOnLineSide(box, ld) == -1
}

// TouchingSectors returns sectors the thing touches, most recently added
// first. Empty for things not linked into sectors
func (w *World) TouchingSectors(mo *Thing) []int32 {
	var secs []int32
	for node := mo.touchingSectorList; node != NO_INDEX; node = w.secnodes[node].tnext {
		secs = append(secs, w.secnodes[node].sector)
	}
	return secs
}

// SectorTouchingThings returns things touching sector, most recent first
func (w *World) SectorTouchingThings(sector int32) []ThingID {
	var ids []ThingID
	for node := w.sectors[sector].touchingThings; node != NO_INDEX; node = w.secnodes[node].snext {
		ids = append(ids, w.secnodes[node].thing)
	}
	return ids
}
