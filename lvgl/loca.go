/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package lvgl

import "encoding/binary"

// LocaTable precedes the glyph offsets, one uint32 per glyph ID.
type LocaTable struct {
	Size       uint32  //4	Record size (for quick skip)
	Label      [4]byte //4	"loca"
	EntryCount uint32  //4	Entries count (4 to simplify slign)
}

func NewLocaTable(offsets []uint32) *LocaTable {
	t := &LocaTable{
		Label:      [4]byte{'l', 'o', 'c', 'a'},
		EntryCount: uint32(len(offsets)),
	}
	t.Size = uint32(binary.Size(t) + binary.Size(offsets))
	return t
}
