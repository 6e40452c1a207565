package maps

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/Faultbox/uomaps/pkg/formats"
	"github.com/Faultbox/uomaps/pkg/uofile"
)

// createTestLand builds count land blocks. Every cell of block b has tile id
// 0x100+b and z 0.
func createTestLand(count int) []byte {
	data := make([]byte, count*formats.LandBlockSize)
	for b := 0; b < count; b++ {
		base := b * formats.LandBlockSize
		for i := 0; i < formats.BlockCells; i++ {
			off := base + formats.LandHeaderSize + i*formats.LandCellSize
			formats.PutLandCell(data[off:], formats.LandCell{TileID: uint16(0x100 + b)})
		}
	}
	return data
}

// setLandCell overwrites one cell of block b.
func setLandCell(land []byte, b, x, y int, cell formats.LandCell) {
	off := b*formats.LandBlockSize + formats.LandHeaderSize + (y*formats.BlockSide+x)*formats.LandCellSize
	formats.PutLandCell(land[off:], cell)
}

// createTestStatics builds a static index of blocks records and the matching
// payload. Blocks missing from runs get the no-statics sentinel.
func createTestStatics(blocks int, runs map[int][]formats.Static) (staidx, statics []byte) {
	staidx = make([]byte, blocks*formats.StaticIndexSize)
	for b := 0; b < blocks; b++ {
		rec := formats.StaticIndex{Position: formats.NoStatics}
		if run, ok := runs[b]; ok && len(run) > 0 {
			rec = formats.StaticIndex{Position: uint32(len(statics)), Size: uint32(len(run) * formats.StaticSize)}
			for _, s := range run {
				buf := make([]byte, formats.StaticSize)
				formats.PutStatic(buf, s)
				statics = append(statics, buf...)
			}
		}
		formats.PutStaticIndex(staidx[b*formats.StaticIndexSize:], rec)
	}
	return staidx, statics
}

// createTestUOP builds a container with fileCount entry slots. Only the
// chunks present in the map are written.
func createTestUOP(pattern string, fileCount int, chunks map[int][]byte) []byte {
	const entryHeader = 4

	data := make([]byte, 28)
	binary.LittleEndian.PutUint32(data[0:], uofile.UOPMagic)
	binary.LittleEndian.PutUint32(data[4:], 5)
	binary.LittleEndian.PutUint32(data[20:], uint32(len(chunks)))
	binary.LittleEndian.PutUint32(data[24:], uint32(fileCount))

	ids := make([]int, 0, len(chunks))
	for id := range chunks {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	offsets := make(map[int]int, len(chunks))
	for _, id := range ids {
		offsets[id] = len(data)
		data = append(data, make([]byte, entryHeader)...)
		data = append(data, chunks[id]...)
	}

	binary.LittleEndian.PutUint64(data[12:], uint64(len(data)))

	slots := len(ids)
	if fileCount > slots {
		slots = fileCount
	}
	table := make([]byte, 12+slots*34)
	binary.LittleEndian.PutUint32(table[0:], uint32(slots))
	for i, id := range ids {
		raw := table[12+i*34:]
		binary.LittleEndian.PutUint64(raw[0:], uint64(offsets[id]))
		binary.LittleEndian.PutUint32(raw[8:], entryHeader)
		binary.LittleEndian.PutUint32(raw[12:], uint32(len(chunks[id])))
		binary.LittleEndian.PutUint32(raw[16:], uint32(len(chunks[id])))
		binary.LittleEndian.PutUint64(raw[20:], uofile.Hash(fmt.Sprintf(pattern, id)))
	}

	return append(data, table...)
}

// writeTestFile writes data into dir/name.
func writeTestFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}
