// Package maps indexes and decodes the land and static blocks of every map.
package maps

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/uomaps/pkg/uofile"
)

// Registry errors.
var (
	ErrResourceNotFound = errors.New("no map files found")
	ErrInvalidMap       = errors.New("invalid map id")
	ErrMapNotAvailable  = errors.New("map has no land data")
)

// slot owns one map's files and index.
type slot struct {
	land        *uofile.File
	statics     *uofile.File
	staticIndex *uofile.File
	desc        Descriptor
	index       []IndexRecord
}

// Registry owns the map files and their block indexes.
//
// Index arrays are only replaced under the write lock. Lookups and decodes
// hold the read lock, so unloading waits for in-flight decodes and later
// decodes of an unloaded map report no data.
type Registry struct {
	mu         sync.RWMutex
	slots      [MapCount]slot
	version    ClientVersion
	generation atomic.Uint64
	classifier Classifier
	log        *zap.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(log *zap.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// WithClassifier sets the classifier used to drop non-drawable statics.
func WithClassifier(c Classifier) Option {
	return func(r *Registry) {
		r.classifier = c
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		classifier: DefaultClassifier,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load discovers every slot's files and computes the map dimensions.
// It fails only when no slot has a land file. Indexes are built separately
// by LoadMap or LoadAll.
func (r *Registry) Load(resolver Resolver) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.closeLocked(); err != nil {
		r.log.Warn("closing previous map files", zap.Error(err))
	}

	found := 0
	for i := range r.slots {
		paths := resolver.MapPaths(i)
		s := &r.slots[i]

		s.land = r.openLand(i, paths)
		if s.land != nil {
			found++
		}
		s.statics = r.openOptional(i, paths.Statics)
		s.staticIndex = r.openOptional(i, paths.StaticIndex)
	}

	if found == 0 {
		if err := r.closeLocked(); err != nil {
			r.log.Warn("closing statics files", zap.Error(err))
		}
		return fmt.Errorf("%w: searched %d map slots", ErrResourceNotFound, MapCount)
	}

	r.version = resolver.ClientVersion()
	records := landRecordCount(r.slots[0].land.Len())
	descs := Descriptors(records, r.version)
	for i := range r.slots {
		r.slots[i].desc = descs[i]
	}

	if UseLegacyWidth(records, r.version) {
		r.log.Info("using legacy map width",
			zap.Int("width", descs[0].Width),
			zap.Int("land_records", records),
			zap.Stringer("client_version", r.version))
	}

	r.generation.Inc()
	r.log.Info("map files loaded", zap.Int("maps", found))
	return nil
}

// openLand probes the UOP container first, then the flat file.
func (r *Registry) openLand(mapID int, paths MapPaths) *uofile.File {
	if paths.UOP != "" && fileExists(paths.UOP) {
		f, err := uofile.OpenUOP(paths.UOP, paths.UOPPattern)
		if err == nil {
			r.log.Debug("found map container",
				zap.Int("map", mapID),
				zap.String("path", paths.UOP),
				zap.Int("entries", len(f.Entries())))
			return f
		}
		r.log.Warn("unreadable map container", zap.Int("map", mapID), zap.String("path", paths.UOP), zap.Error(err))
	}

	if paths.MUL != "" && fileExists(paths.MUL) {
		f, err := uofile.Open(paths.MUL)
		if err == nil {
			r.log.Debug("found map file", zap.Int("map", mapID), zap.String("path", paths.MUL))
			return f
		}
		r.log.Warn("unreadable map file", zap.Int("map", mapID), zap.String("path", paths.MUL), zap.Error(err))
	}

	r.log.Debug("map not present", zap.Int("map", mapID))
	return nil
}

func (r *Registry) openOptional(mapID int, path string) *uofile.File {
	if path == "" || !fileExists(path) {
		return nil
	}
	f, err := uofile.Open(path)
	if err != nil {
		r.log.Warn("unreadable statics file", zap.Int("map", mapID), zap.String("path", path), zap.Error(err))
		return nil
	}
	return f
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LoadMap builds the block index of one map, replacing any previous index.
func (r *Registry) LoadMap(mapID int) error {
	if err := validMap(mapID); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.slots[mapID].land == nil {
		return fmt.Errorf("%w: map %d", ErrMapNotAvailable, mapID)
	}

	r.buildSlot(mapID)
	r.generation.Inc()
	return nil
}

// LoadAll builds the index of every map that has land data, one goroutine per map.
func (r *Registry) LoadAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	for i := range r.slots {
		if r.slots[i].land == nil {
			continue
		}
		mapID := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.buildSlot(mapID)
			return nil
		})
	}

	err := g.Wait()
	r.generation.Inc()
	return err
}

// buildSlot must be called with the write lock held. Each call touches only its own slot.
func (r *Registry) buildSlot(mapID int) {
	s := &r.slots[mapID]

	start := time.Now()
	index, stats := buildIndex(s.land, s.staticIndex, s.statics, s.desc)
	s.index = index

	r.log.Info("map indexed",
		zap.Int("map", mapID),
		zap.Bool("uop", s.land.IsUOP()),
		zap.Int("blocks", stats.Blocks),
		zap.Int("land", stats.Land),
		zap.Int("with_statics", stats.WithStatics),
		zap.Int("clamped", stats.Clamped),
		zap.Duration("took", time.Since(start)))

	if stats.Land < stats.Blocks {
		r.log.Debug("blocks without land data",
			zap.Int("map", mapID),
			zap.Int("missing", stats.Blocks-stats.Land))
	}
}

// GetIndex returns the record of block (x, y). It reports false when the map
// is not indexed or the coordinate is outside the block grid.
func (r *Registry) GetIndex(mapID, x, y int) (IndexRecord, bool) {
	if validMap(mapID) != nil {
		return IndexRecord{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.indexLocked(mapID, x, y)
}

func (r *Registry) indexLocked(mapID, x, y int) (IndexRecord, bool) {
	s := &r.slots[mapID]
	block := s.desc.BlockNumber(x, y)
	if block < 0 || block >= len(s.index) {
		return IndexRecord{}, false
	}
	return s.index[block], true
}

// GetRadarBlock decodes block (blockX, blockY) into merged land and static
// cells. It reports false when the block has no land data.
func (r *Registry) GetRadarBlock(mapID, blockX, blockY int) (*RadarBlock, bool) {
	if validMap(mapID) != nil {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.indexLocked(mapID, blockX, blockY)
	if !ok {
		return nil, false
	}

	s := &r.slots[mapID]
	return decodeBlock(s.land.Bytes(), s.statics.Bytes(), rec, r.classifier)
}

// UnloadMap drops the index of one map. Files stay open.
func (r *Registry) UnloadMap(mapID int) {
	if validMap(mapID) != nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.slots[mapID].index != nil {
		r.slots[mapID].index = nil
		r.generation.Inc()
	}
}

// Clear drops every map index.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clearLocked()
}

func (r *Registry) clearLocked() {
	for i := range r.slots {
		r.slots[i].index = nil
	}
	r.generation.Inc()
}

// Close drops every index and releases all files.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.closeLocked()
}

func (r *Registry) closeLocked() error {
	r.clearLocked()

	var err error
	for i := range r.slots {
		s := &r.slots[i]
		err = multierr.Append(err, s.land.Close())
		err = multierr.Append(err, s.statics.Close())
		err = multierr.Append(err, s.staticIndex.Close())
		*s = slot{}
	}
	return err
}

// Descriptor returns the dimensions of a map.
func (r *Registry) Descriptor(mapID int) (Descriptor, bool) {
	if validMap(mapID) != nil {
		return Descriptor{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	s := &r.slots[mapID]
	return s.desc, s.land != nil
}

// IsIndexed reports whether a map's block index is built.
func (r *Registry) IsIndexed(mapID int) bool {
	if validMap(mapID) != nil {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.slots[mapID].index != nil
}

// Generation increases every time an index is built or dropped.
func (r *Registry) Generation() uint64 {
	return r.generation.Load()
}

// ClientVersion returns the version supplied at load time.
func (r *Registry) ClientVersion() ClientVersion {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.version
}

// FileInfo describes one backing file.
type FileInfo struct {
	Path    string
	Size    int
	UOP     bool
	Entries int
}

// SlotInfo describes one map slot.
type SlotInfo struct {
	Land        *FileInfo
	Statics     *FileInfo
	StaticIndex *FileInfo
	Descriptor  Descriptor
	Indexed     bool
}

// Info returns a snapshot of a map slot.
func (r *Registry) Info(mapID int) (SlotInfo, error) {
	if err := validMap(mapID); err != nil {
		return SlotInfo{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	s := &r.slots[mapID]
	return SlotInfo{
		Land:        fileInfo(s.land),
		Statics:     fileInfo(s.statics),
		StaticIndex: fileInfo(s.staticIndex),
		Descriptor:  s.desc,
		Indexed:     s.index != nil,
	}, nil
}

func fileInfo(f *uofile.File) *FileInfo {
	if f == nil {
		return nil
	}
	return &FileInfo{
		Path:    f.Path(),
		Size:    f.Len(),
		UOP:     f.IsUOP(),
		Entries: len(f.Entries()),
	}
}

func validMap(mapID int) error {
	if mapID < 0 || mapID >= MapCount {
		return fmt.Errorf("%w: %d", ErrInvalidMap, mapID)
	}
	return nil
}
