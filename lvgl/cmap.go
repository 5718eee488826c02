/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package lvgl

import "encoding/binary"

// CmapTable is followed by Tables subtable headers and their data.
type CmapTable struct {
	Size   uint32  //4	Record size (for quick skip)
	Label  [4]byte //4	cmap (table marker)
	Tables uint32  //4	Number of subtables
}

type CmapSubTableHeader struct {
	DataOffset       uint32 //4	Data offset (or 0 if data segment not exists)
	RangeStart       uint32 //4	Range start (min codePoint)
	RangeLength      uint16 //2	Range length (up to 65535)
	GlyphIdOffset    uint16 //2	Glyph ID offset (for delta-coding)
	DataEntriesCount uint16 //2	Data entries count (for sparse data)
	FormatType       byte   //1	Format type (0 => format 0, 1 => format sparse, 2 => format 0 tiny, 3 => format sparse tiny)
	_                byte   //1	- (align to 4)
}

const formatSparseTiny = 3

// cmap 子表: sparse tiny, 只存 codePoint - range_start
type cmap struct {
	table   CmapTable
	headers []CmapSubTableHeader
	data    []uint16
}

// newCmap maps the sorted runes to glyph IDs 1..len(runes).
func newCmap(runes []rune) *cmap {
	ranges := splitRanges(runes)
	c := &cmap{
		table: CmapTable{
			Label:  [4]byte{'c', 'm', 'a', 'p'},
			Tables: uint32(len(ranges)),
		},
		headers: make([]CmapSubTableHeader, len(ranges)),
		data:    make([]uint16, 0, len(runes)),
	}
	offset := binary.Size(c.table) + binary.Size(c.headers)
	gid := uint16(1)
	for i, rs := range ranges {
		c.headers[i] = CmapSubTableHeader{
			DataOffset:       uint32(offset),
			RangeStart:       uint32(rs[0]),
			RangeLength:      uint16(rs[len(rs)-1] - rs[0] + 1),
			GlyphIdOffset:    gid,
			DataEntriesCount: uint16(len(rs)),
			FormatType:       formatSparseTiny,
		}
		for _, r := range rs {
			c.data = append(c.data, uint16(r-rs[0]))
		}
		if len(rs)%2 != 0 {
			c.data = append(c.data, 0)
		}
		offset += (len(rs) + len(rs)%2) * 2
		gid += uint16(len(rs))
	}
	c.table.Size = uint32(offset)
	return c
}

// splitRanges cuts sorted runes into groups spanning less than 65535
// codepoints.
func splitRanges(runes []rune) [][]rune {
	resp := make([][]rune, 0)
	if len(runes) == 0 {
		return resp
	}
	start := 0
	for i := range runes {
		if runes[i]-runes[start] >= 65535 || i-start >= 65535 {
			resp = append(resp, runes[start:i])
			start = i
		}
	}
	return append(resp, runes[start:])
}
