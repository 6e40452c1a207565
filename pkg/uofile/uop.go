package uofile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// UOP format errors.
var (
	ErrInvalidUOPMagic = errors.New("invalid UOP magic: expected 'MYP'")
	ErrTruncatedUOP    = errors.New("truncated UOP data")
)

// UOP layout constants.
const (
	UOPMagic       = 0x0050594D // "MYP\0"
	uopHeaderSize  = 28
	uopTableHeader = 12
	uopEntrySize   = 34
)

// Entry is one resolved container entry.
type Entry struct {
	Offset             int64 // Start of the entry data (past its header)
	Length             int64 // Stored (possibly compressed) length
	DecompressedLength int64
	Hash               uint64
	Flag               uint16
	Resolved           bool // False when the container has no entry with this name
}

// Header is the fixed UOP container header.
type Header struct {
	Magic         uint32
	Version       uint32
	Signature     uint32
	FirstTable    uint64
	TableCapacity uint32
	FileCount     uint32
}

// ReadHeader decodes the container header at the start of data.
func ReadHeader(data []byte) (Header, error) {
	if len(data) < uopHeaderSize {
		return Header{}, fmt.Errorf("%w: header", ErrTruncatedUOP)
	}

	h := Header{
		Magic:         binary.LittleEndian.Uint32(data[0:]),
		Version:       binary.LittleEndian.Uint32(data[4:]),
		Signature:     binary.LittleEndian.Uint32(data[8:]),
		FirstTable:    binary.LittleEndian.Uint64(data[12:]),
		TableCapacity: binary.LittleEndian.Uint32(data[20:]),
		FileCount:     binary.LittleEndian.Uint32(data[24:]),
	}

	if h.Magic != UOPMagic {
		return Header{}, ErrInvalidUOPMagic
	}
	return h, nil
}

// readEntries walks the table chain and orders entries by the names produced from pattern.
func readEntries(data []byte, pattern string) ([]Entry, error) {
	header, err := ReadHeader(data)
	if err != nil {
		return nil, err
	}

	byHash := make(map[uint64]Entry)
	visited := make(map[uint64]bool)
	size := uint64(len(data))
	var slots uint64

	for next := header.FirstTable; next != 0; {
		if visited[next] {
			return nil, fmt.Errorf("table chain loops at offset %d", next)
		}
		visited[next] = true

		if next > size || size-next < uopTableHeader {
			return nil, fmt.Errorf("%w: table at offset %d", ErrTruncatedUOP, next)
		}

		count := uint64(binary.LittleEndian.Uint32(data[next:]))
		following := binary.LittleEndian.Uint64(data[next+4:])
		pos := next + uopTableHeader

		if (size-pos)/uopEntrySize < count {
			return nil, fmt.Errorf("%w: table at offset %d lists %d entries", ErrTruncatedUOP, next, count)
		}
		slots += count

		for i := uint64(0); i < count; i++ {
			raw := data[pos : pos+uopEntrySize]
			pos += uopEntrySize

			offset := int64(binary.LittleEndian.Uint64(raw[0:]))
			if offset == 0 {
				continue
			}

			headerLength := int64(binary.LittleEndian.Uint32(raw[8:]))
			hash := binary.LittleEndian.Uint64(raw[20:])
			byHash[hash] = Entry{
				Offset:             offset + headerLength,
				Length:             int64(binary.LittleEndian.Uint32(raw[12:])),
				DecompressedLength: int64(binary.LittleEndian.Uint32(raw[16:])),
				Hash:               hash,
				Flag:               binary.LittleEndian.Uint16(raw[32:]),
				Resolved:           true,
			}
		}

		next = following
	}

	// Every file needs a table slot, so the tables bound the file count.
	if uint64(header.FileCount) > slots {
		return nil, fmt.Errorf("%w: header lists %d files, tables hold %d", ErrTruncatedUOP, header.FileCount, slots)
	}

	entries := make([]Entry, header.FileCount)
	for i := range entries {
		hash := Hash(fmt.Sprintf(pattern, i))
		if e, ok := byHash[hash]; ok {
			entries[i] = e
		} else {
			entries[i] = Entry{Hash: hash}
		}
	}

	return entries, nil
}

// Hash returns the container hash of an entry name. Names are case-insensitive.
func Hash(name string) uint64 {
	s := []byte(strings.ToLower(name))
	length := len(s)

	var eax, ecx, edx uint32
	ebx := uint32(length) + 0xDEADBEEF
	edi := ebx
	esi := ebx

	le := func(b []byte) uint32 {
		return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	}

	i := 0
	for ; i+12 < length; i += 12 {
		edi += le(s[i+4:])
		esi += le(s[i+8:])
		edx = le(s[i:]) - esi

		edx = (edx + ebx) ^ (esi >> 28) ^ (esi << 4)
		esi += edi
		edi = (edi - edx) ^ (edx >> 26) ^ (edx << 6)
		edx += esi
		esi = (esi - edi) ^ (edi >> 24) ^ (edi << 8)
		edi += edx
		ebx = (edx - esi) ^ (esi >> 16) ^ (esi << 16)
		esi += edi
		edi = (edi - ebx) ^ (ebx >> 13) ^ (ebx << 19)
		ebx += esi
		esi = (esi - edi) ^ (edi >> 28) ^ (edi << 4)
		edi += ebx
	}

	rest := length - i
	if rest == 0 {
		return uint64(esi)<<32 | uint64(eax)
	}

	// Tail bytes fold into ebx, edi, esi four at a time.
	for j := rest - 1; j >= 0; j-- {
		v := uint32(s[i+j]) << (8 * uint(j%4))
		switch {
		case j >= 8:
			esi += v
		case j >= 4:
			edi += v
		default:
			ebx += v
		}
	}

	esi = (esi ^ edi) - ((edi >> 18) ^ (edi << 14))
	ecx = (esi ^ ebx) - ((esi >> 21) ^ (esi << 11))
	edi = (edi ^ ecx) - ((ecx >> 7) ^ (ecx << 25))
	esi = (esi ^ edi) - ((edi >> 16) ^ (edi << 16))
	edx = (esi ^ ecx) - ((esi >> 28) ^ (esi << 4))
	edi = (edi ^ edx) - ((edx >> 18) ^ (edx << 14))
	eax = (esi ^ edi) - ((edi >> 8) ^ (edi << 24))

	return uint64(edi)<<32 | uint64(eax)
}
