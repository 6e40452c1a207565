// Package formats provides readers for the legacy Ultima Online map records.
package formats

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Record sizes in bytes.
const (
	LandCellSize    = 3
	LandHeaderSize  = 4
	LandBlockSize   = LandHeaderSize + BlockCells*LandCellSize // 196
	StaticIndexSize = 12
	StaticSize      = 9
)

// Block geometry.
const (
	BlockSide  = 8
	BlockCells = BlockSide * BlockSide
)

// ErrTruncatedRecord is returned when a slice is shorter than the record being read.
var ErrTruncatedRecord = errors.New("truncated record")

// LandCell is one terrain cell of a land block.
type LandCell struct {
	TileID uint16
	Z      int8
}

// LandBlock is a view over one 196-byte land record.
// Cells are stored row-major: index y*8+x.
type LandBlock struct {
	data []byte
}

// ReadLandBlock returns a view over the land record at the start of data.
// The returned block references data; it is never copied.
func ReadLandBlock(data []byte) (LandBlock, error) {
	if len(data) < LandBlockSize {
		return LandBlock{}, fmt.Errorf("%w: land block needs %d bytes, have %d",
			ErrTruncatedRecord, LandBlockSize, len(data))
	}
	return LandBlock{data: data[:LandBlockSize]}, nil
}

// Header returns the record header. Decoding does not use it.
func (b LandBlock) Header() uint32 {
	return binary.LittleEndian.Uint32(b.data)
}

// Cell returns the cell at index i (0..63).
func (b LandBlock) Cell(i int) LandCell {
	off := LandHeaderSize + i*LandCellSize
	return LandCell{
		TileID: binary.LittleEndian.Uint16(b.data[off:]),
		Z:      int8(b.data[off+2]),
	}
}

// CellAt returns the cell at local coordinates (x, y).
func (b LandBlock) CellAt(x, y int) LandCell {
	return b.Cell(y*BlockSide + x)
}

// PutLandCell encodes a cell into dst, which must hold LandCellSize bytes.
func PutLandCell(dst []byte, c LandCell) {
	binary.LittleEndian.PutUint16(dst, c.TileID)
	dst[2] = byte(c.Z)
}
