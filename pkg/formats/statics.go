package formats

import (
	"encoding/binary"
	"fmt"
)

// NoStatics marks a static index record that has no payload.
const NoStatics = 0xFFFFFFFF

// MaxStaticsPerBlock caps how many statics are read for one block.
const MaxStaticsPerBlock = 1024

// StaticIndex is one 12-byte record of a staidx file.
type StaticIndex struct {
	Position uint32 // Byte offset into the statics file
	Size     uint32 // Byte length of the run
	Unknown  uint32
}

// HasStatics reports whether the record points at a non-empty run.
func (s StaticIndex) HasStatics() bool {
	return s.Size > 0 && s.Position != NoStatics
}

// Count returns the number of whole static records in the run, unclamped.
func (s StaticIndex) Count() uint32 {
	return s.Size / StaticSize
}

// ReadStaticIndex decodes a static index record from the start of data.
func ReadStaticIndex(data []byte) (StaticIndex, error) {
	if len(data) < StaticIndexSize {
		return StaticIndex{}, fmt.Errorf("%w: static index needs %d bytes, have %d",
			ErrTruncatedRecord, StaticIndexSize, len(data))
	}
	return StaticIndex{
		Position: binary.LittleEndian.Uint32(data[0:]),
		Size:     binary.LittleEndian.Uint32(data[4:]),
		Unknown:  binary.LittleEndian.Uint32(data[8:]),
	}, nil
}

// PutStaticIndex encodes s into dst, which must hold StaticIndexSize bytes.
func PutStaticIndex(dst []byte, s StaticIndex) {
	binary.LittleEndian.PutUint32(dst[0:], s.Position)
	binary.LittleEndian.PutUint32(dst[4:], s.Size)
	binary.LittleEndian.PutUint32(dst[8:], s.Unknown)
}

// Static is one 9-byte placed object record.
type Static struct {
	Color uint16 // Graphic id
	X     uint8  // Local x within the block
	Y     uint8  // Local y within the block
	Z     int8
	Hue   uint16
}

// InBlock reports whether the local coordinates fall inside an 8x8 block.
func (s Static) InBlock() bool {
	return s.X < BlockSide && s.Y < BlockSide
}

// ReadStatic decodes a static record from the start of data.
func ReadStatic(data []byte) (Static, error) {
	if len(data) < StaticSize {
		return Static{}, fmt.Errorf("%w: static needs %d bytes, have %d",
			ErrTruncatedRecord, StaticSize, len(data))
	}
	return Static{
		Color: binary.LittleEndian.Uint16(data[0:]),
		X:     data[2],
		Y:     data[3],
		Z:     int8(data[4]),
		Hue:   binary.LittleEndian.Uint16(data[5:]),
	}, nil
}

// PutStatic encodes s into dst, which must hold StaticSize bytes.
func PutStatic(dst []byte, s Static) {
	binary.LittleEndian.PutUint16(dst[0:], s.Color)
	dst[2] = s.X
	dst[3] = s.Y
	dst[4] = byte(s.Z)
	binary.LittleEndian.PutUint16(dst[5:], s.Hue)
}

// StaticRun iterates a packed run of static records.
type StaticRun struct {
	data  []byte
	count int
}

// NewStaticRun returns a run of up to count records starting at data.
// The count is reduced to the number of whole records present in data.
func NewStaticRun(data []byte, count int) StaticRun {
	if avail := len(data) / StaticSize; count > avail {
		count = avail
	}
	if count < 0 {
		count = 0
	}
	return StaticRun{data: data, count: count}
}

// Len returns the number of records in the run.
func (r StaticRun) Len() int {
	return r.count
}

// At returns record i of the run.
func (r StaticRun) At(i int) Static {
	s, _ := ReadStatic(r.data[i*StaticSize:])
	return s
}
