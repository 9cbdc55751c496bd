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
	"testing"
)

func TestNewWorldCorruptLevel(t *testing.T) {
	tests := []struct {
		name  string
		tweak func(g *GridLevel)
	}{
		{"bad vertex", func(g *GridLevel) { g.Lines[0].V2 = 9999 }},
		{"bad front side", func(g *GridLevel) { g.Lines[1].Sidenum[0] = NO_INDEX }},
		{"bad back side", func(g *GridLevel) { g.Lines[g.LeftLine(1, 0)].Sidenum[1] = 9999 }},
		{"side without sector", func(g *GridLevel) { g.Sides[0].Sector = 50 }},
		{"line portal out of range", func(g *GridLevel) { g.Lines[0].Portal = 3 }},
		{"passable line without portal", func(g *GridLevel) { g.Lines[0].PFlags = PS_PASSABLE }},
		{"beyond line out of range", func(g *GridLevel) { g.Lines[0].BeyondPortalLine = 9999 }},
		{"passable floor without portal", func(g *GridLevel) { g.Sectors[1].FPFlags = PS_PASSABLE }},
		{"ceiling portal out of range", func(g *GridLevel) { g.Sectors[0].CPortal = 0 }},
		{"subsector without sector", func(g *GridLevel) { g.Subsectors[2].Sector = -2 }},
		{"no subsectors", func(g *GridLevel) { g.Subsectors = nil }},
		{"node points at itself", func(g *GridLevel) { g.Nodes[0].Children[1] = 0 }},
		{"node points at later node", func(g *GridLevel) {
			g.Nodes[0].Children[0] = uint32(len(g.Nodes) - 1)
		}},
		{"node points at missing subsector", func(g *GridLevel) {
			g.Nodes[0].Children[0] = NF_SUBSECTOR | 100
		}},
		{"polyobject without lines", func(g *GridLevel) {
			g.Polyobjects = append(g.Polyobjects, PolyobjectDef{ID: 9})
		}},
		{"polyobject line out of range", func(g *GridLevel) {
			g.Polyobjects[0].Lines[0] = 9999
		}},
		{"line in polyobject twice", func(g *GridLevel) {
			g.Polyobjects[0].Lines = append(g.Polyobjects[0].Lines, g.Polyobjects[0].Lines[0])
		}},
		{"polyobject shares vertex with static line", func(g *GridLevel) {
			g.Lines[g.Polyobjects[0].Lines[0]].V1 = g.Lines[0].V1
		}},
	}
	for _, tt := range tests {
		g := newTestGrid(2, 2, 256)
		g.AddPolyobject(1, 128, 128, 32, 0, 0)
		tt.tweak(g)
		w, err := NewWorld(g.LevelData, DefaultOptions())
		if !errors.Is(err, ErrCorruptLevel) {
			t.Errorf("%s: got %v, want ErrCorruptLevel\n", tt.name, err)
		}
		if w != nil {
			t.Errorf("%s: world returned along with error\n", tt.name)
		}
	}
}

func TestNewWorldKeepsInputIntact(t *testing.T) {
	g := newTestGrid(2, 1, 128)
	g.Name = "MAP01"
	g.AddPolyobject(1, 64, 64, 16, 0, 0)
	polyV := g.Vertices[len(g.Vertices)-1]
	w := newTestWorld(t, g.LevelData, DefaultOptions())
	if w.Name() != "MAP01" {
		t.Errorf("world name %q\n", w.Name())
	}

	w.Sector(0).FloorHeight = 99 * FRACUNIT
	if g.Sectors[0].FloorHeight != 0 {
		t.Errorf("sector change leaked into level data\n")
	}
	w.MovePolyobject(w.Polyobjects()[0], 16*FRACUNIT, 0)
	if g.Vertices[len(g.Vertices)-1] != polyV {
		t.Errorf("polyobject move leaked into level data\n")
	}
	if w.Vertex(int32(len(g.Vertices)-1)) == polyV {
		t.Errorf("polyobject move did not update world vertices\n")
	}

	// A second world from the same data starts over
	w2 := newTestWorld(t, g.LevelData, DefaultOptions())
	if w2.Sector(0).FloorHeight != 0 || w2.Polyobjects()[0].Center.X != IntToFixed(64) {
		t.Errorf("second world does not match level data\n")
	}
}

func TestBuiltBlockmapSentinel(t *testing.T) {
	g := newTestGrid(3, 2, 160)
	g.AddPolyobject(1, 80, 80, 24, 0, 0)

	lump, err := BuildBlockmapLump(BlockmapInput{
		Vertices:      g.Vertices,
		Lines:         g.Lines,
		UseZeroHeader: true,
	})
	if err != nil {
		t.Fatalf("BuildBlockmapLump: %s\n", err.Error())
	}
	if !BlocklistsStartWithZero(lump) {
		t.Errorf("lump built with sentinel lacks leading zeroes\n")
	}

	plain := newTestWorld(t, g.LevelData, DefaultOptions())
	opts := DefaultOptions()
	opts.BuildWithSentinel = true
	opts.Compat.SkipBlocklistSentinel = true
	skipping := newTestWorld(t, g.LevelData, opts)

	ax, ay := plain.Blockmap().Origin()
	bx0, by0 := skipping.Blockmap().Origin()
	if ax != bx0 || ay != by0 {
		t.Errorf("origins differ\n")
	}
	bw, bh := plain.Blockmap().Size()
	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			a := collectBlockLines(plain, plain.BeginQuery(), bx, by, NOGROUP)
			b := collectBlockLines(skipping, skipping.BeginQuery(), bx, by, NOGROUP)
			sort.Slice(a, func(i, j int) bool { return a[i] < a[j] })
			sort.Slice(b, func(i, j int) bool { return b[i] < b[j] })
			if len(a) != len(b) {
				t.Errorf("block (%d,%d): %v vs %v\n", bx, by, a, b)
				continue
			}
			for i := range a {
				if a[i] != b[i] {
					t.Errorf("block (%d,%d): %v vs %v\n", bx, by, a, b)
					break
				}
			}
		}
	}
}

func TestSkippingCompatBuildsSentinel(t *testing.T) {
	g := newTestGrid(3, 2, 128)
	plain := newTestWorld(t, g.LevelData, DefaultOptions())
	for _, version := range []int{DEMO_VERSION_3DMIDTEX, 340} {
		opts := DefaultOptions()
		opts.Compat = CompatForDemoVersion(version, false, false)
		if !opts.Compat.SkipBlocklistSentinel {
			t.Fatalf("version %d does not skip the leading slot\n", version)
		}
		w, err := NewWorld(g.LevelData, opts)
		if err != nil {
			t.Errorf("version %d: NewWorld: %s\n", version, err.Error())
			continue
		}
		bw, bh := plain.Blockmap().Size()
		for by := 0; by < bh; by++ {
			for bx := 0; bx < bw; bx++ {
				a := collectBlockLines(plain, plain.BeginQuery(), bx, by, NOGROUP)
				b := collectBlockLines(w, w.BeginQuery(), bx, by, NOGROUP)
				sort.Slice(a, func(i, j int) bool { return a[i] < a[j] })
				sort.Slice(b, func(i, j int) bool { return b[i] < b[j] })
				if fmt.Sprint(a) != fmt.Sprint(b) {
					t.Errorf("version %d block (%d,%d): %v, want %v\n", version, bx, by, b, a)
				}
			}
		}
	}
}
