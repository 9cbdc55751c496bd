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

// -- clipprobe runs a seeded play simulation on several copies of the same
// world and checks that collision links come out identical on every tic.
// Useful for catching order-dependent bugs in the index before they turn
// into demo desyncs
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	clip "github.com/vigilantdoomer/vigilantclip"
)

func main() {
	timeStart := time.Now()
	clip.Log.Printf("clipprobe ver %s\n", clip.VERSION)

	cfg := defaultConfig()
	if !cfg.FromCommandLine(os.Args[1:]) {
		clip.Log.Printf("\n")
		os.Exit(1)
	}
	if cfg.Help {
		PrintHelp()
		os.Exit(0)
	}
	clip.Log.SetVerbosity(cfg.VerbosityLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	clip.Log.Printf("Seed %d, %d tics, %d things, %d replicas on %dx%d rooms\n",
		cfg.Seed, cfg.Tics, cfg.Things, cfg.Replicas, cfg.Cols, cfg.Rows)
	rep, err := RunProbe(ctx, cfg)
	if err != nil {
		clip.Log.Error("Probe failed: %s\n", err.Error())
		os.Exit(1)
	}
	clip.Log.Printf("All %d replicas agree, final digest %016x\n", rep.Replicas, rep.Digest)
	clip.Log.Printf("%d things: %d moves, %d blocked, %d changed height\n",
		rep.Things, rep.Stats.Moves, rep.Stats.Blocked, rep.Stats.Steps)
	clip.Log.Printf("Sight checks: %d of %d clear\n", rep.Stats.SightClear,
		rep.Stats.SightChecks)
	if cfg.PortalDetect {
		clip.Log.Printf("Openings touched by portals or midtextures: %d\n",
			rep.Stats.PortalLines)
	}

	if cfg.DumpFileName != "" {
		name, _ := filepath.Abs(cfg.DumpFileName)
		if err := os.WriteFile(name, rep.Final, 0644); err != nil {
			clip.Log.Error("Couldn't write snapshot to %s: %s\n", name, err.Error())
			os.Exit(1)
		}
		clip.Log.Printf("Final snapshot written to %s\n", name)
	}
	clip.Log.Printf("Total time: %s\n", time.Since(timeStart))
}
