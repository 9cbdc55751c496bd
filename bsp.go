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

// PointOnNodeSide tells which side of partition line a point is on: 0 front,
// 1 back
func PointOnNodeSide(x, y Fixed, node *Node) int {
	if node.Dx == 0 {
		if x <= node.X {
			return b2i(node.Dy > 0)
		}
		return b2i(node.Dy < 0)
	}
	if node.Dy == 0 {
		if y <= node.Y {
			return b2i(node.Dx < 0)
		}
		return b2i(node.Dx > 0)
	}

	dx := x - node.X
	dy := y - node.Y

	// Try to quickly decide by looking at sign bits
	if (node.Dy ^ node.Dx ^ dx ^ dy) < 0 {
		return b2i((node.Dy ^ dx) < 0)
	}

	left := FixedMul(node.Dy>>FRACBITS, dx)
	right := FixedMul(dy, node.Dx>>FRACBITS)
	return b2i(right >= left)
}

// PointInSubsector walks the BSP tree down to the subsector containing the
// point. A level without nodes has a single subsector
func (w *World) PointInSubsector(x, y Fixed) int32 {
	if len(w.nodes) == 0 {
		return 0
	}
	nodenum := uint32(len(w.nodes) - 1)
	for nodenum&NF_SUBSECTOR == 0 {
		node := &w.nodes[nodenum]
		nodenum = node.Children[PointOnNodeSide(x, y, node)]
	}
	return int32(nodenum &^ NF_SUBSECTOR)
}

// SectorAt returns sector containing the point
func (w *World) SectorAt(x, y Fixed) int32 {
	return w.subsectors[w.PointInSubsector(x, y)].Sector
}
