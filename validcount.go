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

// QueryStamp marks lines and polyobjects already visited by a query. Zero is
// never handed out, so a freshly created line is never "already visited"
type QueryStamp uint32

// Stamps live in separate spaces. Relinking a thing reconciles its touching
// sectors with a query of its own, which must not mark lines of a query whose
// visitor moved the thing
type stampSpace uint8

const (
	stampQuery stampSpace = iota
	stampRelink
	numStampSpaces
)

type stamps [numStampSpaces]QueryStamp

// Query is the context of one spatial query: everything iterated under the
// same Query is visited at most once
type Query struct {
	Stamp QueryStamp
	Tic   int32
	space stampSpace
}

// BeginQuery starts a new query. Queries must not be started while a thing is
// being relinked, as relinking runs a query of its own
func (w *World) BeginQuery() Query {
	if w.relinking {
		Log.Panic("BeginQuery called while thing %d is being relinked\n",
			w.relinkingThing)
	}
	return w.nextQuery(stampQuery)
}

func (w *World) nextQuery(space stampSpace) Query {
	w.validcount[space]++
	if w.validcount[space] == 0 {
		// Wrapped around. Old stamps could now alias new ones
		w.log.Debugf("query stamp %d wrapped around, resetting line and polyobject stamps",
			space)
		for i := range w.lines {
			w.lines[i].validcount[space] = 0
		}
		for _, po := range w.polys {
			po.validcount[space] = 0
		}
		w.validcount[space] = 1
	}
	return Query{Stamp: w.validcount[space], Tic: w.tic, space: space}
}

// Tic is the current simulation tic, carried into queries and trace logs
func (w *World) Tic() int32 {
	return w.tic
}

// AdvanceTic moves simulation time forward by one tic
func (w *World) AdvanceTic() {
	w.tic++
}
