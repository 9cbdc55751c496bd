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

const VERSION = "0.1a"

// Demo versions at which behaviour changed. Demo version is what the
// recording engine wrote into the demo header, or the current version for
// live play
const (
	DEMO_VERSION_3DMIDTEX      = 331
	DEMO_VERSION_LINKEDPORTALS = 333
	DEMO_VERSION_BLOCKSTART    = 342
	DEMO_VERSION_CURRENT       = 401
)

// Compat pins down every behaviour that historical demos depend on. It is
// fixed when the world is built; nothing in the library compares versions
// at query time
type Compat struct {
	// Skip the first slot of every blocklist. Blockmap lumps reserve it for a
	// dummy linedef, but vanilla read it as linedef 0
	SkipBlocklistSentinel bool
	// Same-portal boundaries are treated as open by LineOpening
	LinkedPortals bool
	// ML_3DMIDTEX lines clip things against their middle texture
	MidTex3D bool
}

// CompatForDemoVersion derives Compat the way the engine always did.
// skipBlockStart is the user/mapinfo option that only matters from version
// 342 on. Why the sentinel skip condition is the way it is was never written
// down, it is simply preserved
func CompatForDemoVersion(version int, demoCompatibility, skipBlockStart bool) Compat {
	return Compat{
		SkipBlocklistSentinel: (!demoCompatibility && version < DEMO_VERSION_BLOCKSTART) ||
			(version >= DEMO_VERSION_BLOCKSTART && skipBlockStart),
		LinkedPortals: version >= DEMO_VERSION_LINKEDPORTALS,
		MidTex3D:      version >= DEMO_VERSION_3DMIDTEX,
	}
}

func DefaultCompat() Compat {
	return CompatForDemoVersion(DEMO_VERSION_CURRENT, false, false)
}

// TextureSource is implemented by whoever owns texture data. Only heights
// are needed here, for 3D middle textures
type TextureSource interface {
	// TextureHeight returns texture height in fixed point units, or false if
	// there is no such texture
	TextureHeight(tex int32) (Fixed, bool)
}

type Options struct {
	Compat   Compat
	Textures TextureSource
	// Logger defaults to the central Log
	Logger *logrus.Logger
	// TraceThings logs every thing position set/unset, for hunting desyncs
	TraceThings bool
	// Whether blockmap built from geometry (when LevelData has no lump)
	// should reserve the leading dummy slot in every blocklist. The slot is
	// always reserved when Compat.SkipBlocklistSentinel is set. Setting this
	// without it puts line 0 in every block, as it was in vanilla
	BuildWithSentinel bool
}

func DefaultOptions() Options {
	return Options{
		Compat: DefaultCompat(),
	}
}
