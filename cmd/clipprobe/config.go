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
	clip "github.com/vigilantdoomer/vigilantclip"
)

type ProgramConfig struct {
	Seed        int64
	Tics        int
	Things      int
	Replicas    int // how many times the same run is repeated and compared
	Cols        int
	Rows        int
	CellSize    int
	DemoVersion int
	// Ask LineOpening to report portal and midtexture crossings, and count
	// them in the report
	PortalDetect   bool
	TraceThings    bool
	VerbosityLevel int
	// Final snapshot of the first replica goes here, msgpack-encoded
	DumpFileName string
	Help         bool
}

func defaultConfig() *ProgramConfig {
	return &ProgramConfig{
		Seed:           1,
		Tics:           350,
		Things:         24,
		Replicas:       4,
		Cols:           6,
		Rows:           4,
		CellSize:       192,
		DemoVersion:    clip.DEMO_VERSION_CURRENT,
		PortalDetect:   false,
		TraceThings:    false,
		VerbosityLevel: 0,
		DumpFileName:   "",
	}
}

func (c *ProgramConfig) Options() clip.Options {
	opts := clip.DefaultOptions()
	opts.Compat = clip.CompatForDemoVersion(c.DemoVersion, false, false)
	opts.TraceThings = c.TraceThings
	return opts
}

func PrintHelp() {
	clip.Log.Printf("Usage: clipprobe {-options} {-o snapshot.bin}\n")
	clip.Log.Printf("\n")
	clip.Log.Printf("Runs the same seeded simulation on several worlds at once and\n")
	clip.Log.Printf("checks that thing and polyobject links agree on every tic.\n")
	clip.Log.Printf("\n")
	clip.Log.Printf("-s=<n> Random seed (default 1)\n")
	clip.Log.Printf("-t=<n> Number of tics to run (default 350)\n")
	clip.Log.Printf("-n=<n> Number of things (default 24)\n")
	clip.Log.Printf("-r=<n> Number of replicas (default 4)\n")
	clip.Log.Printf("-g=<cols>,<rows> Grid of rooms (default 6,4)\n")
	clip.Log.Printf("-c=<n> Cell size in map units (default 192)\n")
	clip.Log.Printf("-e=<n> Demo version to emulate (default %d)\n", clip.DEMO_VERSION_CURRENT)
	clip.Log.Printf("-p Portal detect mode for line openings (default: disabled)\n")
	clip.Log.Printf("-x Trace thing positions (default: disabled)\n")
	clip.Log.Printf("-v Verbose output, repeat for more (-vv)\n")
	clip.Log.Printf("-o <file> Dump final snapshot\n")
}
