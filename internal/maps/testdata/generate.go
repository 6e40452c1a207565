//go:build ignore

// This program writes a small client folder for trying out uomaptool.
// Run with: go run generate.go [dir]
//
// The folder holds map 4 (1448x1448) as flat files with a hill in the first
// blocks and a few statics, and map 2 (2304x1600) inside a UOP container.
package main

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Faultbox/uomaps/pkg/formats"
	"github.com/Faultbox/uomaps/pkg/uofile"
)

const blocks = 64 // first column and a half of map 4

func main() {
	dir := "sample"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		fail(err)
	}

	land := make([]byte, blocks*formats.LandBlockSize)
	for b := 0; b < blocks; b++ {
		rec := land[b*formats.LandBlockSize+formats.LandHeaderSize:]
		for i := 0; i < formats.BlockCells; i++ {
			// Grass rising towards block 32
			z := 32 - abs(32-b)
			formats.PutLandCell(rec[i*formats.LandCellSize:], formats.LandCell{TileID: 0x0003, Z: int8(z)})
		}
	}
	write(dir, "map4.mul", land)

	staidx := make([]byte, blocks*formats.StaticIndexSize)
	var statics []byte
	for b := 0; b < blocks; b++ {
		idx := formats.StaticIndex{Position: formats.NoStatics}
		if b%4 == 0 {
			// A tree in the middle of every fourth block
			idx.Position = uint32(len(statics))
			idx.Size = formats.StaticSize
			rec := make([]byte, formats.StaticSize)
			formats.PutStatic(rec, formats.Static{Color: 0x0CCA, X: 4, Y: 4, Z: 40})
			statics = append(statics, rec...)
		}
		formats.PutStaticIndex(staidx[b*formats.StaticIndexSize:], idx)
	}
	write(dir, "staidx4.mul", staidx)
	write(dir, "statics4.mul", statics)

	// Map 2 in a container with one chunk of water
	water := make([]byte, blocks*formats.LandBlockSize)
	for b := 0; b < blocks; b++ {
		rec := water[b*formats.LandBlockSize+formats.LandHeaderSize:]
		for i := 0; i < formats.BlockCells; i++ {
			formats.PutLandCell(rec[i*formats.LandCellSize:], formats.LandCell{TileID: 0x00A8, Z: -5})
		}
	}
	write(dir, "map2LegacyMUL.uop", container("build/map2legacymul/%08d.dat", water))

	fmt.Printf("Generated sample client folder in %s\n", dir)
}

// container wraps one chunk in a single-table UOP file.
func container(pattern string, chunk []byte) []byte {
	const entryHeader = 4

	data := make([]byte, 28)
	binary.LittleEndian.PutUint32(data[0:], uofile.UOPMagic)
	binary.LittleEndian.PutUint32(data[4:], 5)
	binary.LittleEndian.PutUint32(data[20:], 1)
	binary.LittleEndian.PutUint32(data[24:], 1)

	offset := len(data)
	data = append(data, make([]byte, entryHeader)...)
	data = append(data, chunk...)
	binary.LittleEndian.PutUint64(data[12:], uint64(len(data)))

	table := make([]byte, 12+34)
	binary.LittleEndian.PutUint32(table[0:], 1)
	entry := table[12:]
	binary.LittleEndian.PutUint64(entry[0:], uint64(offset))
	binary.LittleEndian.PutUint32(entry[8:], entryHeader)
	binary.LittleEndian.PutUint32(entry[12:], uint32(len(chunk)))
	binary.LittleEndian.PutUint32(entry[16:], uint32(len(chunk)))
	binary.LittleEndian.PutUint64(entry[20:], uofile.Hash(fmt.Sprintf(pattern, 0)))

	return append(data, table...)
}

func write(dir, name string, data []byte) {
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		fail(err)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
