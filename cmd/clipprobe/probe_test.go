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
package main

import (
	"context"
	"errors"
	"testing"

	clip "github.com/vigilantdoomer/vigilantclip"
)

func smallConfig() *ProgramConfig {
	cfg := defaultConfig()
	cfg.Tics = 60
	cfg.Things = 10
	cfg.Replicas = 3
	cfg.Cols = 4
	cfg.Rows = 3
	return cfg
}

func TestFromCommandLine(t *testing.T) {
	cfg := defaultConfig()
	ok := cfg.FromCommandLine([]string{"-s=77", "-t=10", "-n=5", "-r=2", "-g=3,2",
		"-c=128", "-e=340", "-p", "-x-", "-vv", "-o", "snap.bin"})
	if !ok {
		t.Fatalf("valid command line rejected\n")
	}
	if cfg.Seed != 77 || cfg.Tics != 10 || cfg.Things != 5 || cfg.Replicas != 2 ||
		cfg.Cols != 3 || cfg.Rows != 2 || cfg.CellSize != 128 || cfg.DemoVersion != 340 {
		t.Errorf("numeric options parsed wrong: %+v\n", cfg)
	}
	if !cfg.PortalDetect || cfg.TraceThings || cfg.VerbosityLevel != 2 ||
		cfg.DumpFileName != "snap.bin" {
		t.Errorf("toggles parsed wrong: %+v\n", cfg)
	}
	if c := cfg.Options().Compat; !c.SkipBlocklistSentinel || !c.LinkedPortals || !c.MidTex3D {
		t.Errorf("compat for version 340: %+v\n", c)
	}

	bad := [][]string{
		{"-g=3"},
		{"-g=3,x"},
		{"-r=0"},
		{"-s"},
		{"-t=12abc"},
		{"-c=16"},
		{"-o"},
		{"-o", "a", "-o", "b"},
		{"-q"},
		{"file.wad"},
	}
	for _, args := range bad {
		if defaultConfig().FromCommandLine(args) {
			t.Errorf("command line %v accepted\n", args)
		}
	}
}

func TestProbeLevelLoads(t *testing.T) {
	cfg := smallConfig()
	p, err := newProbeRun(cfg, 0)
	if err != nil {
		t.Fatalf("newProbeRun: %s\n", err.Error())
	}
	if len(p.movers) == 0 {
		t.Fatalf("no things could be spawned\n")
	}
	if p.poly == nil || !p.poly.Linked() {
		t.Errorf("polyobject is missing or unlinked\n")
	}
	if err := p.world.CheckLinks(); err != nil {
		t.Errorf("links broken after spawning: %s\n", err.Error())
	}
	// Spawned things never overlap
	for i := range p.movers {
		for j := i + 1; j < len(p.movers); j++ {
			a, b := p.movers[i].mo, p.movers[j].mo
			d := a.Radius + b.Radius
			if clip.FixedAbs(a.X-b.X) < d && clip.FixedAbs(a.Y-b.Y) < d {
				t.Errorf("things %d and %d overlap\n", a.ID, b.ID)
			}
		}
	}
}

func TestProbeReplicasAgree(t *testing.T) {
	cfg := smallConfig()
	rep, err := RunProbe(context.Background(), cfg)
	if err != nil {
		t.Fatalf("RunProbe: %s\n", err.Error())
	}
	if rep.Stats.Moves == 0 {
		t.Errorf("nothing moved in %d tics\n", cfg.Tics)
	}
	if rep.Digest == 0 || len(rep.Final) == 0 {
		t.Errorf("empty final digest\n")
	}
	snap, err := clip.DecodeSnapshot(rep.Final)
	if err != nil {
		t.Fatalf("DecodeSnapshot: %s\n", err.Error())
	}
	if snap.Tic != int32(cfg.Tics) {
		t.Errorf("final snapshot at tic %d, want %d\n", snap.Tic, cfg.Tics)
	}

	// Same seed, same outcome; another seed, another outcome
	again, err := RunProbe(context.Background(), cfg)
	if err != nil {
		t.Fatalf("RunProbe: %s\n", err.Error())
	}
	if again.Digest != rep.Digest {
		t.Errorf("same seed gave digests %x and %x\n", rep.Digest, again.Digest)
	}
	cfg.Seed = 2
	other, err := RunProbe(context.Background(), cfg)
	if err != nil {
		t.Fatalf("RunProbe: %s\n", err.Error())
	}
	if other.Digest == rep.Digest {
		t.Errorf("different seeds gave the same digest\n")
	}
}

func TestProbeOldDemoVersions(t *testing.T) {
	for _, version := range []int{clip.DEMO_VERSION_3DMIDTEX, 340} {
		cfg := smallConfig()
		cfg.DemoVersion = version
		if !cfg.Options().Compat.SkipBlocklistSentinel {
			t.Fatalf("version %d does not skip the leading slot\n", version)
		}
		rep, err := RunProbe(context.Background(), cfg)
		if err != nil {
			t.Errorf("version %d: RunProbe: %s\n", version, err.Error())
			continue
		}
		if rep.Stats.Moves == 0 {
			t.Errorf("version %d: nothing moved in %d tics\n", version, cfg.Tics)
		}
	}
}

func TestProbePortalDetect(t *testing.T) {
	cfg := smallConfig()
	cfg.PortalDetect = true
	cfg.Things = 20
	cfg.Tics = 120
	rep, err := RunProbe(context.Background(), cfg)
	if err != nil {
		t.Fatalf("RunProbe: %s\n", err.Error())
	}
	if rep.Stats.PortalLines == 0 {
		t.Errorf("no opening crossed a portal or midtexture\n")
	}
}

func TestProbeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RunProbe(ctx, smallConfig())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled\n", err)
	}
}
