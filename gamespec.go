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

// Map definitions for the Doom-engine family of games, as seen by the
// play simulation (after the loader converted lumps to fixed point)
package vigilantclip

const FRACBITS = 16
const FRACUNIT = Fixed(1 << FRACBITS)

const BLOCK_WIDTH = 128
const BLOCK_BITS = 7 // replaces division by BLOCK_WIDTH with right shift
const MAPBLOCKSHIFT = FRACBITS + BLOCK_BITS

// Blockmap lump header is orgx, orgy, width, height - followed by offsets
const BLOCKMAP_HEADER_SIZE = 4

// Terminates every blocklist in blockmap lump
const BLOCKLIST_TERM = int32(-1)

const MAXRADIUS = 32 * FRACUNIT
const STEPSIZE = 24 * FRACUNIT

// How far the opening is extended when both sides of a line share a portal
const PORTAL_OPENING_EXTENT = 1024 * FRACUNIT

// Group id of sectors (and things) that are not part of any linked portal
// group. Also used as wildcard by block iterators
const NOGROUP = int32(-1)

// Index value meaning "none" for side, portal, line references
const NO_INDEX = int32(-1)

// Bounding box coordinate indices
const BOXTOP = 0
const BOXBOTTOM = 1
const BOXLEFT = 2
const BOXRIGHT = 3

// COMMON linedef flags: for Doom & derivatives
const ML_BLOCKING = uint32(0x0001)
const ML_BLOCKMONSTERS = uint32(0x0002)
const ML_TWOSIDED = uint32(0x0004)
const ML_DONTPEGTOP = uint32(0x0008)
const ML_DONTPEGBOTTOM = uint32(0x0010)
const ML_SECRET = uint32(0x0020)
const ML_SOUNDBLOCK = uint32(0x0040)
const ML_DONTDRAW = uint32(0x0080)
const ML_MAPPED = uint32(0x0100)

// Linedef flags: Boom additions to COMMON linedef flags
const ML_PASSUSE = uint32(0x0200)

// Linedef flags: Eternity additions
const ML_3DMIDTEX = uint32(0x0400)

// Extended linedef flags (ExtraData / UDMF)
const EX_ML_LOWERPORTAL = uint32(0x00010000) // line has lower portal behaviour
const EX_ML_UPPERPORTAL = uint32(0x00020000) // line has upper portal behaviour
const EX_ML_3DMTPASSPROJ = uint32(0x00100000)

// Internal linedef flags, set up by the loader and never by map authors
const MLI_1SPORTALLINE = uint32(0x0004) // one-sided portal line, see Line.BeyondPortalLine

// Portal state flags, for sector floors/ceilings as well as lines
const PS_PASSABLE = uint32(0x0001)
const PS_BLOCKSOUND = uint32(0x0002)

// Flags reported through Opening.Flags when portal detection is requested
const LINECLIP_UNDERPORTAL = uint32(0x0001)
const LINECLIP_ABOVEPORTAL = uint32(0x0002)
const LINECLIP_UNDER3DMIDTEX = uint32(0x0004)
const LINECLIP_OVER3DMIDTEX = uint32(0x0008)

// Thing flags that matter to linkage and clipping
const MF_SOLID = uint32(0x00000002)
const MF_NOSECTOR = uint32(0x00000008)   // don't use the sector links (invisible but touchable)
const MF_NOBLOCKMAP = uint32(0x00000010) // don't use the blocklinks (inert but displayable)
const MF_DROPOFF = uint32(0x00000400)
const MF_FLOAT = uint32(0x00004000)
const MF_MISSILE = uint32(0x00010000)
const MF_BOUNCES = uint32(0x00800000)

// Child of a node that points at a subsector rather than at another node
const NF_SUBSECTOR = uint32(0x80000000)

type SlopeType int

const (
	ST_HORIZONTAL SlopeType = iota
	ST_VERTICAL
	ST_POSITIVE
	ST_NEGATIVE
)

type Vertex struct {
	X Fixed
	Y Fixed
}

type Side struct {
	TextureOffset Fixed
	RowOffset     Fixed
	MidTexture    int32 // 0 means no texture
	Sector        int32
}

type Sector struct {
	FloorHeight   Fixed
	CeilingHeight Fixed
	FloorPic      int32
	CeilingPic    int32
	// Sectors sharing a group id are linked seamlessly through portals
	GroupID int32
	// Floor and ceiling portal (index into LevelData.Portals) and its state
	FPortal int32
	CPortal int32
	FPFlags uint32
	CPFlags uint32

	thinglist      ThingID // things whose center is in this sector
	touchingThings int32   // secnode list: things whose box touches this sector
}

// LinkData is the offset between two portal-linked groups
type LinkData struct {
	DeltaX Fixed
	DeltaY Fixed
	DeltaZ Fixed
	FromID int32
	ToID   int32
}

func (l *LinkData) DeltaEquals(other *LinkData) bool {
	return l.DeltaX == other.DeltaX && l.DeltaY == other.DeltaY &&
		l.DeltaZ == other.DeltaZ
}

type Portal struct {
	Link LinkData
}

type Subsector struct {
	Sector int32
}

// BSP node in play simulation form. Partition line is given as origin and
// direction; children have NF_SUBSECTOR bit set when they are subsectors
type Node struct {
	X        Fixed
	Y        Fixed
	Dx       Fixed
	Dy       Fixed
	Children [2]uint32
}

// PolyobjectDef describes a polyobject as the loader found it. Its lines
// must not share vertices with lines that are not part of it
type PolyobjectDef struct {
	ID     int32
	Lines  []int32
	Center Vertex
}
