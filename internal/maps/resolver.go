package maps

import (
	"fmt"
	"path/filepath"
)

// MapPaths lists the candidate files of one map slot.
type MapPaths struct {
	UOP         string // Chunked container, probed first
	UOPPattern  string // Entry name pattern inside the container
	MUL         string // Flat land file
	Statics     string
	StaticIndex string
}

// Resolver supplies file locations and the client version.
type Resolver interface {
	MapPaths(mapID int) MapPaths
	ClientVersion() ClientVersion
}

// FolderResolver resolves files inside a client installation folder.
type FolderResolver struct {
	Dir     string
	Version ClientVersion
}

// NewFolderResolver returns a resolver for the client folder dir.
func NewFolderResolver(dir string, version ClientVersion) *FolderResolver {
	return &FolderResolver{Dir: dir, Version: version}
}

// MapPaths returns the standard client file names for mapID.
func (r *FolderResolver) MapPaths(mapID int) MapPaths {
	return MapPaths{
		UOP:         filepath.Join(r.Dir, fmt.Sprintf("map%dLegacyMUL.uop", mapID)),
		UOPPattern:  fmt.Sprintf("build/map%dlegacymul/%%08d.dat", mapID),
		MUL:         filepath.Join(r.Dir, fmt.Sprintf("map%d.mul", mapID)),
		Statics:     filepath.Join(r.Dir, fmt.Sprintf("statics%d.mul", mapID)),
		StaticIndex: filepath.Join(r.Dir, fmt.Sprintf("staidx%d.mul", mapID)),
	}
}

// ClientVersion returns the configured client version.
func (r *FolderResolver) ClientVersion() ClientVersion {
	return r.Version
}
