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

// Opening is the vertical gap through a two-sided line
type Opening struct {
	Top      Fixed
	Bottom   Fixed
	Range    Fixed // Top - Bottom; zero or less means no way through
	LowFloor Fixed // the lower of the two floors
	// Floor texture of the sector that gave Bottom, -1 if none was taken
	FloorPic int32
	// Top and Bottom before 3D midtextures are taken into account
	SecFloor Fixed
	SecCeil  Fixed
	// Mover stands on (or within a step of) a 3D midtexture
	Touch3DSide bool
	Flags       uint32 // LINECLIP_*, only set in portal detect mode

	FrontSector int32
	BackSector  int32
}

// LineOpening computes the gap through line ld. mo is the thing trying to
// pass, can be nil. In portal detect mode sector heights are taken literally
// even on portal boundaries, and Flags tell what the portals and 3D
// midtextures did to the opening
func (w *World) LineOpening(ld *Line, mo *Thing, portalDetect bool) Opening {
	op := Opening{
		FloorPic:    -1,
		FrontSector: NO_INDEX,
		BackSector:  NO_INDEX,
	}
	if ld.Sidenum[1] == NO_INDEX { // single sided line
		return op
	}

	op.FrontSector = ld.frontsector
	op.BackSector = ld.backsector
	if ld.IntFlags&MLI_1SPORTALLINE != 0 && ld.BeyondPortalLine != NO_INDEX {
		op.BackSector = w.lines[ld.BeyondPortalLine].frontsector
	}
	front := &w.sectors[op.FrontSector]
	back := &w.sectors[op.BackSector]

	// The only way a two-sided line gives lowered floor or raised ceiling is
	// when both sides have the same portal
	linked := mo != nil && w.compat.LinkedPortals
	var frontceilz, backceilz, frontfloorz, backfloorz Fixed
	if linked && w.sharesPortal(ld, front.CPFlags, back.CPFlags,
		front.CPortal, back.CPortal) {
		if !portalDetect {
			frontceilz = front.CeilingHeight + PORTAL_OPENING_EXTENT
			backceilz = frontceilz
		} else {
			op.Flags |= LINECLIP_UNDERPORTAL
			frontceilz = front.CeilingHeight
			backceilz = back.CeilingHeight
		}
	} else {
		frontceilz = front.CeilingHeight
		backceilz = back.CeilingHeight
	}

	if linked && w.sharesPortal(ld, front.FPFlags, back.FPFlags,
		front.FPortal, back.FPortal) {
		if !portalDetect {
			frontfloorz = front.FloorHeight - PORTAL_OPENING_EXTENT
			backfloorz = frontfloorz
		} else {
			op.Flags |= LINECLIP_ABOVEPORTAL
			frontfloorz = front.FloorHeight
			backfloorz = back.FloorHeight
		}
	} else {
		frontfloorz = front.FloorHeight
		backfloorz = back.FloorHeight
	}

	if ld.ExtFlags&EX_ML_UPPERPORTAL != 0 && back.CPFlags&PS_PASSABLE != 0 {
		op.Top = frontceilz
	} else if frontceilz < backceilz {
		op.Top = frontceilz
	} else {
		op.Top = backceilz
	}

	// Floor texture isn't taken from portal floors in portal detect mode
	if ld.ExtFlags&EX_ML_LOWERPORTAL != 0 && back.FPFlags&PS_PASSABLE != 0 {
		op.Bottom = frontfloorz
		op.LowFloor = frontfloorz
		if !portalDetect || front.FPFlags&PS_PASSABLE == 0 {
			op.FloorPic = front.FloorPic
		}
	} else if frontfloorz > backfloorz {
		op.Bottom = frontfloorz
		op.LowFloor = backfloorz
		if !portalDetect || front.FPFlags&PS_PASSABLE == 0 {
			op.FloorPic = front.FloorPic
		}
	} else {
		op.Bottom = backfloorz
		op.LowFloor = frontfloorz
		if !portalDetect || back.FPFlags&PS_PASSABLE == 0 {
			op.FloorPic = back.FloorPic
		}
	}

	// Real opening, for placing 3D midtextures
	otop := front.CeilingHeight
	if back.CeilingHeight < otop {
		otop = back.CeilingHeight
	}
	obot := front.FloorHeight
	if back.FloorHeight > obot {
		obot = back.FloorHeight
	}

	op.SecFloor = op.Bottom
	op.SecCeil = op.Top

	if mo != nil && w.blocksAsMidTex3D(ld, mo) {
		side := &w.sides[ld.Sidenum[0]]
		texheight, ok := w.textures.TextureHeight(side.MidTexture)
		if ok {
			var textop, texbot Fixed
			if ld.Flags&ML_DONTPEGBOTTOM != 0 {
				texbot = side.RowOffset + obot
				textop = texbot + texheight
			} else {
				textop = otop + side.RowOffset
				texbot = textop - texheight
			}
			texmid := (textop + texbot) / 2

			// Monster-blocking midtexture is a wall for walkers near its top
			if ld.Flags&ML_BLOCKMONSTERS != 0 &&
				mo.Flags&(MF_FLOAT|MF_DROPOFF) == 0 &&
				FixedAbs(mo.Z-textop) <= STEPSIZE {
				op.Top = op.Bottom
				op.Range = 0
				return op
			}

			if mo.Z+mo.Height/2 < texmid {
				if texbot < op.Top {
					op.Top = texbot
				}
				// Midtextures sunk into ceiling don't count
				if portalDetect && (texbot < front.CeilingHeight ||
					texbot < back.CeilingHeight) {
					op.Flags |= LINECLIP_UNDER3DMIDTEX
				}
			} else {
				if textop > op.Bottom {
					op.Bottom = textop
				}
				if portalDetect && (textop > front.FloorHeight ||
					textop > back.FloorHeight) {
					op.Flags |= LINECLIP_OVER3DMIDTEX
				}
				if FixedAbs(mo.Z-textop) <= STEPSIZE {
					op.Touch3DSide = true
				}
			}
		}
	}

	op.Range = op.Top - op.Bottom
	return op
}

// Both sides have the same passable plane portal, or the front one links the
// same way as the line's own portal (edge portals)
func (w *World) sharesPortal(ld *Line, frontPFlags, backPFlags uint32,
	frontPortal, backPortal int32) bool {
	if frontPFlags&PS_PASSABLE == 0 {
		return false
	}
	if backPFlags&PS_PASSABLE != 0 && frontPortal == backPortal {
		return true
	}
	return ld.PFlags&PS_PASSABLE != 0 &&
		w.portals[frontPortal].Link.DeltaEquals(&w.portals[ld.Portal].Link)
}

func (w *World) blocksAsMidTex3D(ld *Line, mo *Thing) bool {
	if !w.compat.MidTex3D || w.textures == nil || ld.Flags&ML_3DMIDTEX == 0 {
		return false
	}
	if w.sides[ld.Sidenum[0]].MidTexture == 0 {
		return false
	}
	return ld.ExtFlags&EX_ML_3DMTPASSPROJ == 0 ||
		mo.Flags&(MF_MISSILE|MF_BOUNCES) == 0
}
