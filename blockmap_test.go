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
	"testing"
)

func TestNewBlockmapCorrupt(t *testing.T) {
	skip := Compat{SkipBlocklistSentinel: true}
	noSkip := Compat{}
	tests := []struct {
		name   string
		lump   []int32
		compat Compat
	}{
		{"short header", []int32{0, 0, 1}, noSkip},
		{"zero width", []int32{0, 0, 0, 1, 5, -1}, noSkip},
		{"negative height", []int32{0, 0, 1, -1, 5, -1}, noSkip},
		{"missing offsets", []int32{0, 0, 2, 2, 8}, noSkip},
		{"offset past end", []int32{0, 0, 1, 1, 99, 0, -1}, noSkip},
		{"offset into header", []int32{0, 0, 1, 1, 2, -1}, noSkip},
		{"unterminated", []int32{0, 0, 1, 1, 5, 0, 1}, noSkip},
		{"line out of range", []int32{0, 0, 1, 1, 5, 0, 7, -1}, noSkip},
		{"negative line", []int32{0, 0, 1, 1, 5, 0, -2, -1}, noSkip},
		{"nothing to skip", []int32{0, 0, 1, 1, 5, -1}, skip},
	}
	for _, tt := range tests {
		_, err := NewBlockmap(tt.lump, 4, tt.compat)
		if !errors.Is(err, ErrCorruptBlockmap) {
			t.Errorf("%s: got error %v, want ErrCorruptBlockmap\n", tt.name, err)
		}
	}
	// empty list is fine when nothing is skipped
	if _, err := NewBlockmap([]int32{0, 0, 1, 1, 5, -1}, 4, noSkip); err != nil {
		t.Errorf("empty blocklist rejected: %s\n", err.Error())
	}
	// sentinel slot is not checked against line count
	if _, err := NewBlockmap([]int32{0, 0, 1, 1, 5, 1000, 3, -1}, 4, skip); err != nil {
		t.Errorf("skipped sentinel slot was validated: %s\n", err.Error())
	}
}

func TestNewWorldCorruptBlockmap(t *testing.T) {
	g := newTestGrid(1, 1, 128)
	g.Blockmap = []int32{0, 0, 1, 1, 5, 0, 9, -1}
	_, err := NewWorld(g.LevelData, DefaultOptions())
	if !errors.Is(err, ErrCorruptBlockmap) {
		t.Errorf("got %v, want ErrCorruptBlockmap\n", err)
	}
}

func collectBlockLines(w *World, q Query, bx, by int, groupID int32) []int32 {
	var got []int32
	w.BlockLinesIterator(q, bx, by, groupID, func(ld *Line, po *Polyobject) bool {
		got = append(got, ld.Num())
		return true
	})
	return got
}

func TestBlocklistSentinel(t *testing.T) {
	g := newTestGrid(1, 1, 128)
	g.Blockmap = []int32{0, 0, 1, 1, 5, 0, 2, -1}

	opts := DefaultOptions()
	opts.Compat.SkipBlocklistSentinel = true
	w := newTestWorld(t, g.LevelData, opts)
	got := collectBlockLines(w, w.BeginQuery(), 0, 0, NOGROUP)
	if len(got) != 1 || got[0] != 2 {
		t.Errorf("with sentinel skip got lines %v, want [2]\n", got)
	}

	opts.Compat.SkipBlocklistSentinel = false
	w = newTestWorld(t, g.LevelData, opts)
	got = collectBlockLines(w, w.BeginQuery(), 0, 0, NOGROUP)
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("without sentinel skip got lines %v, want [0 2]\n", got)
	}
}

func TestSentinelCompat(t *testing.T) {
	tests := []struct {
		version    int
		demoCompat bool
		skipStart  bool
		want       bool
	}{
		{200, false, false, true},
		{200, true, false, false},
		{341, false, true, true},
		{342, false, false, false},
		{342, false, true, true},
		{DEMO_VERSION_CURRENT, true, true, true},
	}
	for _, tt := range tests {
		c := CompatForDemoVersion(tt.version, tt.demoCompat, tt.skipStart)
		if c.SkipBlocklistSentinel != tt.want {
			t.Errorf("version %d compat %v skip %v: got %v\n", tt.version,
				tt.demoCompat, tt.skipStart, c.SkipBlocklistSentinel)
		}
	}
	if c := CompatForDemoVersion(332, false, false); !c.MidTex3D || c.LinkedPortals {
		t.Errorf("version 332 compat is wrong: %+v\n", c)
	}
	if c := CompatForDemoVersion(330, false, false); c.MidTex3D {
		t.Errorf("version 330 must not have 3D midtextures\n")
	}
}

func TestBlocklistsStartWithZero(t *testing.T) {
	if !BlocklistsStartWithZero([]int32{0, 0, 2, 1, 6, 8, 0, -1, 0, 3, -1}) {
		t.Errorf("zero-started blocklists not detected\n")
	}
	if BlocklistsStartWithZero([]int32{0, 0, 2, 1, 6, 8, 0, -1, 3, -1}) {
		t.Errorf("blocklist without leading zero not detected\n")
	}
	if BlocklistsStartWithZero([]int32{0, 0}) {
		t.Errorf("short lump accepted\n")
	}
}

func TestBlockLinesOutOfRange(t *testing.T) {
	g := newTestGrid(1, 1, 128)
	w := newTestWorld(t, g.LevelData, DefaultOptions())
	q := w.BeginQuery()
	for _, cell := range [][2]int{{-1, 0}, {0, -1}, {100, 0}, {0, 100}} {
		called := false
		ok := w.BlockLinesIterator(q, cell[0], cell[1], NOGROUP, func(*Line, *Polyobject) bool {
			called = true
			return true
		})
		if !ok || called {
			t.Errorf("cell %v: out of range cell must be empty\n", cell)
		}
		if !w.BlockThingsIterator(cell[0], cell[1], NOGROUP, func(*Thing) bool { return false }) {
			t.Errorf("cell %v: out of range cell must be empty\n", cell)
		}
	}
}

func TestValidcountDedupe(t *testing.T) {
	g := newTestGrid(2, 2, 256)
	g.AddPolyobject(1, 128, 128, 40, 0, 0)
	w := newTestWorld(t, g.LevelData, DefaultOptions())

	visits := make(map[int32]int)
	polyVisits := make(map[int32]int)
	var all BBox
	ClearBox(&all)
	AddToBox(&all, 0, 0)
	AddToBox(&all, IntToFixed(512), IntToFixed(512))
	ok := w.LinesInBox(w.BeginQuery(), all, NOGROUP, func(ld *Line, po *Polyobject) bool {
		visits[ld.Num()]++
		if po != nil {
			polyVisits[ld.Num()]++
		}
		return true
	})
	if !ok {
		t.Errorf("LinesInBox stopped by itself\n")
	}
	if len(visits) != w.NumLines() {
		t.Errorf("visited %d distinct lines, level has %d\n", len(visits), w.NumLines())
	}
	for lidx, n := range visits {
		if n != 1 {
			t.Errorf("line %d visited %d times\n", lidx, n)
		}
	}
	if len(polyVisits) != 4 {
		t.Errorf("polyobject lines visited: %v\n", polyVisits)
	}
	po := w.PolyobjectByID(1)
	if len(po.links) != 4 {
		t.Errorf("polyobject spanning 2x2 blocks has %d links\n", len(po.links))
	}

	// A line 256 long is in several blocks; across all of them it is
	// visited once per query, and again in the next query
	lidx := g.LeftLine(0, 0)
	for round := 0; round < 2; round++ {
		q := w.BeginQuery()
		n := 0
		for by := 0; by < 5; by++ {
			w.BlockLinesIterator(q, 0, by, NOGROUP, func(ld *Line, po *Polyobject) bool {
				if ld.Num() == lidx {
					n++
				}
				return true
			})
		}
		if n != 1 {
			t.Errorf("round %d: line %d visited %d times\n", round, lidx, n)
		}
	}
}

func TestValidcountWraparound(t *testing.T) {
	g := newTestGrid(2, 2, 128)
	g.AddPolyobject(1, 64, 64, 16, 0, 0)
	w := newTestWorld(t, g.LevelData, DefaultOptions())
	w.validcount[stampQuery] = ^QueryStamp(0) - 1

	count := func(q Query) int {
		n := 0
		w.LinesInBox(q, BoxAround(IntToFixed(128), IntToFixed(128), IntToFixed(200)),
			NOGROUP, func(*Line, *Polyobject) bool {
				n++
				return true
			})
		return n
	}
	q1 := w.BeginQuery()
	if q1.Stamp != ^QueryStamp(0) {
		t.Fatalf("stamp %d, want max\n", q1.Stamp)
	}
	n1 := count(q1)
	q2 := w.BeginQuery()
	if q2.Stamp != 1 {
		t.Errorf("stamp after wraparound is %d, want 1\n", q2.Stamp)
	}
	if n2 := count(q2); n2 != n1 || n1 != w.NumLines() {
		t.Errorf("visited %d lines before wraparound, %d after, level has %d\n",
			n1, n2, w.NumLines())
	}
}

func TestBlockLinesEarlyStop(t *testing.T) {
	g := newTestGrid(1, 1, 128)
	w := newTestWorld(t, g.LevelData, DefaultOptions())
	n := 0
	ok := w.BlockLinesIterator(w.BeginQuery(), 0, 0, NOGROUP, func(*Line, *Polyobject) bool {
		n++
		return false
	})
	if ok || n != 1 {
		t.Errorf("iterator returned %v after %d visits, want false after 1\n", ok, n)
	}
}

func TestBlockLinesGroupFilter(t *testing.T) {
	g := BuildGridLevel(GridSpec{
		Cols:     2,
		Rows:     1,
		CellSize: 128,
		Room: func(c, r int) GridRoom {
			return GridRoom{Ceiling: 128 * FRACUNIT, GroupID: int32(c)}
		},
	})
	w := newTestWorld(t, g.LevelData, DefaultOptions())
	var box BBox
	ClearBox(&box)
	AddToBox(&box, 0, 0)
	AddToBox(&box, IntToFixed(256), IntToFixed(128))
	for _, group := range []int32{0, 1} {
		w.LinesInBox(w.BeginQuery(), box, group, func(ld *Line, po *Polyobject) bool {
			if w.Sector(ld.FrontSector()).GroupID != group {
				t.Errorf("group %d query returned line %d of group %d\n", group,
					ld.Num(), w.Sector(ld.FrontSector()).GroupID)
			}
			return true
		})
	}
}

func TestBlockThingsIterator(t *testing.T) {
	g := BuildGridLevel(GridSpec{
		Cols:     2,
		Rows:     1,
		CellSize: 128,
		Room: func(c, r int) GridRoom {
			return GridRoom{Ceiling: 128 * FRACUNIT, GroupID: int32(c)}
		},
	})
	w := newTestWorld(t, g.LevelData, DefaultOptions())
	var ids []ThingID
	for i := 0; i < 3; i++ {
		mo := w.SpawnThing(ThingDef{X: IntToFixed(40 + 10*i), Y: IntToFixed(64), Radius: 8 * FRACUNIT})
		ids = append(ids, mo.ID)
	}
	got := w.BlockThings(0, 0)
	if len(got) != 3 || got[0] != ids[2] || got[1] != ids[1] || got[2] != ids[0] {
		t.Errorf("block things %v, want most recent first %v\n", got, ids)
	}

	// group 1 things are elsewhere, group 0 things are all here
	n := 0
	w.BlockThingsIterator(0, 0, 1, func(*Thing) bool { n++; return true })
	if n != 0 {
		t.Errorf("group 1 query found %d group 0 things\n", n)
	}
	w.BlockThingsIterator(0, 0, 0, func(*Thing) bool { n++; return true })
	if n != 3 {
		t.Errorf("group 0 query found %d things\n", n)
	}

	// visitor may move the thing it is given
	visited := 0
	w.BlockThingsIterator(0, 0, NOGROUP, func(mo *Thing) bool {
		visited++
		w.MoveThing(mo, mo.X+IntToFixed(128), mo.Y, mo.Z)
		return true
	})
	if visited != 3 {
		t.Errorf("relinking visitor saw %d things, want 3\n", visited)
	}
	if len(w.BlockThings(0, 0)) != 0 || len(w.BlockThings(1, 0)) != 3 {
		t.Errorf("things were not moved to block (1,0)\n")
	}
	if err := w.CheckLinks(); err != nil {
		t.Errorf("%s\n", err.Error())
	}

	n = 0
	ok := w.BlockThingsIterator(1, 0, NOGROUP, func(*Thing) bool { n++; return false })
	if ok || n != 1 {
		t.Errorf("early stop: returned %v after %d things\n", ok, n)
	}
}

func TestThingsInBox(t *testing.T) {
	g := newTestGrid(3, 3, 128)
	w := newTestWorld(t, g.LevelData, DefaultOptions())
	near := w.SpawnThing(ThingDef{X: IntToFixed(64), Y: IntToFixed(64), Radius: 8 * FRACUNIT})
	far := w.SpawnThing(ThingDef{X: IntToFixed(320), Y: IntToFixed(320), Radius: 8 * FRACUNIT})

	seen := make(map[ThingID]int)
	w.ThingsInBox(BoxAround(IntToFixed(64), IntToFixed(64), IntToFixed(32)), NOGROUP,
		func(mo *Thing) bool {
			seen[mo.ID]++
			return true
		})
	if seen[near.ID] != 1 || seen[far.ID] != 0 {
		t.Errorf("small box: visits near=%d far=%d, want 1 and 0\n", seen[near.ID], seen[far.ID])
	}

	seen = make(map[ThingID]int)
	all := BoxAround(IntToFixed(192), IntToFixed(192), IntToFixed(1000))
	w.ThingsInBox(all, NOGROUP, func(mo *Thing) bool {
		seen[mo.ID]++
		return true
	})
	if seen[near.ID] != 1 || seen[far.ID] != 1 {
		t.Errorf("whole map box: visits near=%d far=%d, want 1 each\n", seen[near.ID], seen[far.ID])
	}

	n := 0
	if w.ThingsInBox(all, NOGROUP, func(*Thing) bool {
		n++
		return false
	}) {
		t.Errorf("ThingsInBox ignored a visitor asking to stop\n")
	}
	if n != 1 {
		t.Errorf("visitor called %d times after asking to stop, want 1\n", n)
	}
}

func TestLinesAlongTrace(t *testing.T) {
	g := newTestGrid(4, 1, 128)
	w := newTestWorld(t, g.LevelData, DefaultOptions())
	x1, y1 := IntToFixed(64), IntToFixed(64)
	x2, y2 := IntToFixed(448), IntToFixed(64)
	trace := Divline{X: x1, Y: y1, Dx: x2 - x1, Dy: y2 - y1}

	visits := make(map[int32]int)
	crossed := make(map[int32]bool)
	ok := w.LinesAlongTrace(w.BeginQuery(), x1, y1, x2, y2, NOGROUP,
		func(ld *Line, po *Polyobject) bool {
			visits[ld.Num()]++
			if LineIsCrossed(ld, &trace) >= 0 {
				crossed[ld.Num()] = true
			}
			return true
		})
	if !ok {
		t.Errorf("LinesAlongTrace stopped by itself\n")
	}
	for num, n := range visits {
		if n != 1 {
			t.Errorf("line %d visited %d times\n", num, n)
		}
	}
	for c := 1; c < 4; c++ {
		if !crossed[g.LeftLine(c, 0)] {
			t.Errorf("trace did not report crossing line between rooms %d and %d\n", c-1, c)
		}
	}
	if len(crossed) != 3 {
		t.Errorf("trace crossed %d lines, want 3\n", len(crossed))
	}

	n := 0
	if w.LinesAlongTrace(w.BeginQuery(), x1, y1, x2, y2, NOGROUP,
		func(*Line, *Polyobject) bool {
			n++
			return false
		}) {
		t.Errorf("LinesAlongTrace ignored a visitor asking to stop\n")
	}
	if n != 1 {
		t.Errorf("visitor called %d times after asking to stop, want 1\n", n)
	}
}
