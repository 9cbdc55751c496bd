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
	"fmt"
	"hash/fnv"
	"math/rand"

	"github.com/sirupsen/logrus"
	clip "github.com/vigilantdoomer/vigilantclip"
	"golang.org/x/sync/errgroup"
)

var ErrDesync = errors.New("replicas desynced")

const (
	platformTexture = int32(1)
	platformHeight  = 16
	thingRadius     = 16
	thingHeight     = 56
	polySpeed       = 2
	sightInterval   = 8
)

type textureHeights map[int32]clip.Fixed

func (th textureHeights) TextureHeight(tex int32) (clip.Fixed, bool) {
	h, ok := th[tex]
	return h, ok
}

type mover struct {
	mo     *clip.Thing
	vx, vy int
}

type ProbeStats struct {
	Moves       int
	Blocked     int
	Steps       int // moves that changed thing z
	PortalLines int // openings LineOpening flagged in portal detect mode
	SightChecks int
	SightClear  int
}

type replicaResult struct {
	digests []uint64
	final   []byte
	stats   ProbeStats
}

type probeRun struct {
	cfg     *ProgramConfig
	rng     *rand.Rand
	level   *clip.GridLevel
	world   *clip.World
	movers  []mover
	poly    *clip.Polyobject
	polyOfs int
	polyDir int
	polyAmp int
	stats   ProbeStats
	log     *logrus.Entry
}

// buildProbeLevel lays out rooms of random heights. The top row shares one
// ceiling portal, the line between the first two rooms carries a 3D
// midtexture platform and a polyobject slides in the middle room
func buildProbeLevel(cfg *ProgramConfig, rng *rand.Rand) *clip.GridLevel {
	floors := []int{0, 0, 0, 8, 16, 24, 48}
	rooms := make([]clip.GridRoom, cfg.Cols*cfg.Rows)
	for i := range rooms {
		rooms[i] = clip.GridRoom{
			Floor:      clip.IntToFixed(floors[rng.Intn(len(floors))]),
			Ceiling:    clip.IntToFixed(128 + 16*rng.Intn(5)),
			FloorPic:   int32(1 + rng.Intn(4)),
			CeilingPic: 10,
		}
	}
	g := clip.BuildGridLevel(clip.GridSpec{
		Cols:     cfg.Cols,
		Rows:     cfg.Rows,
		CellSize: cfg.CellSize,
		Room: func(c, r int) clip.GridRoom {
			return rooms[r*cfg.Cols+c]
		},
	})
	g.Name = fmt.Sprintf("PROBE%d", cfg.Seed)

	g.Portals = []clip.Portal{{Link: clip.LinkData{DeltaZ: 512 * clip.FRACUNIT}}}
	for c := 0; c < cfg.Cols; c++ {
		sec := &g.Sectors[g.SectorAt(c, cfg.Rows-1)]
		sec.CPortal = 0
		sec.CPFlags = clip.PS_PASSABLE
	}

	if cfg.Cols > 1 {
		lidx := g.LeftLine(1, 0)
		g.Lines[lidx].Flags |= clip.ML_3DMIDTEX | clip.ML_DONTPEGBOTTOM
		side := &g.Sides[g.Lines[lidx].Sidenum[0]]
		side.MidTexture = platformTexture
		side.RowOffset = 24 * clip.FRACUNIT
	}

	c, r := cfg.Cols/2, cfg.Rows/2
	half := cfg.CellSize / 8
	g.AddPolyobject(1, c*cfg.CellSize+cfg.CellSize/2, r*cfg.CellSize+cfg.CellSize/2,
		half, c, r)
	return g
}

func newProbeRun(cfg *ProgramConfig, replica int) (*probeRun, error) {
	p := &probeRun{
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		polyDir: 1,
		polyAmp: cfg.CellSize / 4,
		log:     clip.Log.WithFields(logrus.Fields{"replica": replica}),
	}
	p.level = buildProbeLevel(cfg, p.rng)
	opts := cfg.Options()
	opts.Textures = textureHeights{platformTexture: platformHeight * clip.FRACUNIT}
	w, err := clip.NewWorld(p.level.LevelData, opts)
	if err != nil {
		return nil, err
	}
	p.world = w
	p.poly = w.PolyobjectByID(1)
	p.spawnThings()
	return p, nil
}

// Things go wherever they fit; those that never found room are skipped
func (p *probeRun) spawnThings() {
	cfg := p.cfg
	w := p.world
	margin := thingRadius + 2
	for i := 0; i < cfg.Things; i++ {
		for try := 0; try < 16; try++ {
			c, r := p.rng.Intn(cfg.Cols), p.rng.Intn(cfg.Rows)
			x := clip.IntToFixed(c*cfg.CellSize + margin + p.rng.Intn(cfg.CellSize-2*margin))
			y := clip.IntToFixed(r*cfg.CellSize + margin + p.rng.Intn(cfg.CellSize-2*margin))
			mo := w.SpawnThing(clip.ThingDef{
				Type:   int32(3001 + i%4),
				X:      x,
				Y:      y,
				Z:      w.Sector(w.SectorAt(x, y)).FloorHeight,
				Radius: thingRadius * clip.FRACUNIT,
				Height: thingHeight * clip.FRACUNIT,
				Flags:  clip.MF_SOLID,
			})
			if _, ok := p.checkPosition(mo, x, y); !ok {
				w.RemoveThing(mo)
				continue
			}
			vx, vy := p.randomVelocity()
			p.movers = append(p.movers, mover{mo: mo, vx: vx, vy: vy})
			break
		}
	}
	p.log.WithFields(logrus.Fields{"things": len(p.movers)}).Debug("things spawned")
}

func (p *probeRun) randomVelocity() (int, int) {
	return p.rng.Intn(9) - 4, p.rng.Intn(9) - 4
}

// checkPosition tells whether mo fits at (x, y) and what floor it would
// stand on there
func (p *probeRun) checkPosition(mo *clip.Thing, x, y clip.Fixed) (clip.Fixed, bool) {
	w := p.world
	box := clip.BoxAround(x, y, mo.Radius)
	sec := w.Sector(w.SectorAt(x, y))
	floorz, ceilz := sec.FloorHeight, sec.CeilingHeight
	blocked := false
	w.LinesInBox(w.BeginQuery(), box, mo.GroupID(), func(ld *clip.Line, po *clip.Polyobject) bool {
		lbox := ld.BBox()
		if !clip.BoxesIntersect(&box, &lbox) || clip.BoxOnLineSide(&box, ld) != -1 {
			return true
		}
		op := p.world.LineOpening(ld, mo, p.cfg.PortalDetect)
		if op.Flags != 0 {
			p.stats.PortalLines++
		}
		if op.Range <= 0 {
			blocked = true
			return false
		}
		if op.Top < ceilz {
			ceilz = op.Top
		}
		if op.Bottom > floorz {
			floorz = op.Bottom
		}
		return true
	})
	if blocked || ceilz-floorz < mo.Height || floorz-mo.Z > clip.STEPSIZE {
		return 0, false
	}

	reach := clip.BoxAround(x, y, mo.Radius+clip.MAXRADIUS)
	w.ThingsInBox(reach, mo.GroupID(), func(other *clip.Thing) bool {
		if other == mo || other.Flags&clip.MF_SOLID == 0 {
			return true
		}
		blockdist := other.Radius + mo.Radius
		if clip.FixedAbs(other.X-x) < blockdist && clip.FixedAbs(other.Y-y) < blockdist {
			blocked = true
			return false
		}
		return true
	})
	return floorz, !blocked
}

// Trace from a to b is blocked by any line without an opening
func (p *probeRun) canSee(a, b *clip.Thing) bool {
	dl := clip.Divline{X: a.X, Y: a.Y, Dx: b.X - a.X, Dy: b.Y - a.Y}
	clear := p.world.LinesAlongTrace(p.world.BeginQuery(), a.X, a.Y, b.X, b.Y, a.GroupID(),
		func(ld *clip.Line, po *clip.Polyobject) bool {
			if clip.LineIsCrossed(ld, &dl) == -1 {
				return true
			}
			return p.world.LineOpening(ld, nil, false).Range > 0
		})
	return clear
}

func (p *probeRun) movePoly() {
	if p.polyOfs+p.polyDir*polySpeed > p.polyAmp ||
		p.polyOfs+p.polyDir*polySpeed < -p.polyAmp {
		p.polyDir = -p.polyDir
	}
	p.polyOfs += p.polyDir * polySpeed
	p.world.MovePolyobject(p.poly, clip.IntToFixed(p.polyDir*polySpeed), 0)
	p.world.RotatePolyobject(p.poly, clip.ANG45/32)
}

func (p *probeRun) tic() {
	w := p.world
	w.AdvanceTic()
	p.movePoly()
	for i := range p.movers {
		m := &p.movers[i]
		x := m.mo.X + clip.IntToFixed(m.vx)
		y := m.mo.Y + clip.IntToFixed(m.vy)
		floorz, ok := p.checkPosition(m.mo, x, y)
		if !ok {
			p.stats.Blocked++
			m.vx, m.vy = p.randomVelocity()
			continue
		}
		if floorz != m.mo.Z {
			p.stats.Steps++
		}
		w.MoveThing(m.mo, x, y, floorz)
		p.stats.Moves++
	}
	if len(p.movers) > 1 && w.Tic()%sightInterval == 0 {
		a := p.movers[0].mo
		b := p.movers[1+p.rng.Intn(len(p.movers)-1)].mo
		p.stats.SightChecks++
		if p.canSee(a, b) {
			p.stats.SightClear++
		}
	}
}

func digest(snap *clip.Snapshot) (uint64, []byte, error) {
	b, err := snap.Encode()
	if err != nil {
		return 0, nil, err
	}
	h := fnv.New64a()
	h.Write(b)
	return h.Sum64(), b, nil
}

func runReplica(ctx context.Context, cfg *ProgramConfig, replica int) (*replicaResult, error) {
	p, err := newProbeRun(cfg, replica)
	if err != nil {
		return nil, err
	}
	res := &replicaResult{digests: make([]uint64, 0, cfg.Tics)}
	for t := 0; t < cfg.Tics; t++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p.tic()
		if cfg.VerbosityLevel >= 2 {
			if err := p.world.CheckLinks(); err != nil {
				return nil, fmt.Errorf("replica %d tic %d: %w", replica, p.world.Tic(), err)
			}
		}
		sum, b, err := digest(p.world.Snapshot())
		if err != nil {
			return nil, err
		}
		res.digests = append(res.digests, sum)
		res.final = b
	}
	if err := p.world.CheckLinks(); err != nil {
		return nil, fmt.Errorf("replica %d at the end: %w", replica, err)
	}
	res.stats = p.stats
	p.log.WithFields(logrus.Fields{
		"moves":   p.stats.Moves,
		"blocked": p.stats.Blocked,
	}).Debug("replica done")
	return res, nil
}

type Report struct {
	Tics     int
	Things   int
	Replicas int
	Digest   uint64 // of the last tic
	Stats    ProbeStats
	Final    []byte // msgpack snapshot of the last tic
}

// RunProbe runs all replicas concurrently and compares their per-tic
// digests. Returns ErrDesync naming the first tic where any replica differs
// from the first one
func RunProbe(ctx context.Context, cfg *ProgramConfig) (*Report, error) {
	results := make([]*replicaResult, cfg.Replicas)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < cfg.Replicas; i++ {
		i := i
		g.Go(func() error {
			res, err := runReplica(gctx, cfg, i)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	first := results[0]
	for i := 1; i < len(results); i++ {
		for t := range first.digests {
			if results[i].digests[t] != first.digests[t] {
				return nil, fmt.Errorf("%w: replica %d differs from replica 0 at tic %d",
					ErrDesync, i, t+1)
			}
		}
	}
	rep := &Report{
		Tics:     cfg.Tics,
		Replicas: cfg.Replicas,
		Stats:    first.stats,
		Final:    first.final,
	}
	if len(first.digests) > 0 {
		rep.Digest = first.digests[len(first.digests)-1]
	}
	if snap, err := clip.DecodeSnapshot(first.final); err == nil {
		rep.Things = len(snap.Things)
	}
	return rep, nil
}
