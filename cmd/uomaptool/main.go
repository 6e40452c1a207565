// uomaptool is a CLI utility for inspecting Ultima Online map files.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"go.uber.org/zap"
	"golang.org/x/image/bmp"

	"github.com/Faultbox/uomaps/internal/config"
	"github.com/Faultbox/uomaps/internal/logger"
	"github.com/Faultbox/uomaps/internal/maps"
	"github.com/Faultbox/uomaps/internal/radar"
)

var (
	okColor   = color.New(color.FgGreen).SprintFunc()
	warnColor = color.New(color.FgYellow).SprintFunc()
	errColor  = color.New(color.FgRed, color.Bold).SprintFunc()
	dimColor  = color.New(color.Faint).SprintFunc()
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	var run func(*config.Config, []string) error
	switch command {
	case "info":
		run = cmdInfo
	case "index", "idx":
		run = cmdIndex
	case "block", "b":
		run = cmdBlock
	case "radar":
		run = cmdRadar
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fatalf("%v", err)
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)

	// Commands release their files before returning, so exiting here is safe.
	if err := run(cfg, args); err != nil {
		fatalf("%v", err)
	}
	logger.Sync()
}

func printUsage() {
	fmt.Println(`uomaptool - Ultima Online map file utility

Usage:
  uomaptool [flags] <command> [options]

Flags:
  -config <file>          Config file (default ./config.yaml)
  -uo-path <dir>          Client installation folder
  -client-version <ver>   Client version, e.g. 7.0.15.1 or 4.0.11c
  -scale <n>              Radar pixels per tile
  -debug                  Enable debug logging

Commands:
  info                                   Show the map files found and their sizes
  index [-n N] <map> <bx> <by>           Show the index record of a block
  block [-z] <map> <bx> <by>             Show the merged 8x8 cells of a block
  radar <map> <bx> <by> <w> <h> [out]    Render blocks to a BMP image

Examples:
  uomaptool -uo-path ~/uo info
  uomaptool index -n 4 0 180 200
  uomaptool block 1 100 100
  uomaptool -scale 2 radar 0 100 100 64 64 britain.bmp`)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", errColor("Error:"), fmt.Sprintf(format, args...))
	logger.Sync()
	os.Exit(1)
}

// usage prints a command's usage line and exits.
func usage(line string) {
	fmt.Fprintln(os.Stderr, "Usage: "+line)
	os.Exit(1)
}

// openRegistry loads the client folder and indexes the given maps,
// or every map present when none are given.
func openRegistry(cfg *config.Config, mapIDs ...int) (*maps.Registry, error) {
	version, err := maps.ParseClientVersion(cfg.Data.ClientVersion)
	if err != nil {
		return nil, err
	}

	reg := maps.NewRegistry(maps.WithLogger(logger.Named("maps")))
	if err := reg.Load(maps.NewFolderResolver(cfg.Data.UOPath, version)); err != nil {
		return nil, err
	}

	if len(mapIDs) == 0 {
		if err := reg.LoadAll(context.Background()); err != nil {
			reg.Close()
			return nil, fmt.Errorf("indexing maps: %w", err)
		}
		return reg, nil
	}

	for _, id := range mapIDs {
		if err := reg.LoadMap(id); err != nil {
			reg.Close()
			return nil, fmt.Errorf("indexing map %d: %w", id, err)
		}
	}
	return reg, nil
}

// parseInts parses positional integer arguments, naming the first bad one.
func parseInts(names []string, args []string) ([]int, error) {
	out := make([]int, len(names))
	for i, name := range names {
		v, err := strconv.Atoi(args[i])
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q", name, args[i])
		}
		out[i] = v
	}
	return out, nil
}

func cmdInfo(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	fs.Parse(args)

	reg, err := openRegistry(cfg, cfg.Data.Maps...)
	if err != nil {
		return err
	}
	defer reg.Close()

	fmt.Printf("Folder:  %s\n", cfg.Data.UOPath)
	fmt.Printf("Client:  %s\n", reg.ClientVersion())
	fmt.Println()

	var total uint64
	for id := 0; id < maps.MapCount; id++ {
		info, err := reg.Info(id)
		if err != nil {
			return err
		}

		d := info.Descriptor
		if info.Land == nil {
			fmt.Printf("map%d  %s  %dx%d\n", id, errColor("missing"), d.Width, d.Height)
			continue
		}

		state := okColor("indexed")
		if !info.Indexed {
			state = dimColor("loaded")
		}
		fmt.Printf("map%d  %s  %dx%d (%dx%d blocks)\n", id, state, d.Width, d.Height, d.BlockWidth, d.BlockHeight)

		for _, f := range []struct {
			label string
			info  *maps.FileInfo
		}{
			{"land", info.Land},
			{"staidx", info.StaticIndex},
			{"statics", info.Statics},
		} {
			if f.info == nil {
				fmt.Printf("  %-8s %s\n", f.label, warnColor("absent"))
				continue
			}
			total += uint64(f.info.Size)
			extra := ""
			if f.info.UOP {
				extra = fmt.Sprintf(" (uop, %d entries)", f.info.Entries)
			}
			fmt.Printf("  %-8s %-10s %s%s\n", f.label, humanize.Bytes(uint64(f.info.Size)), f.info.Path, extra)
		}
	}

	fmt.Printf("\nTotal mapped: %s\n", humanize.Bytes(total))
	return nil
}

func cmdIndex(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	count := fs.Int("n", 1, "Show N consecutive blocks down the column")
	fs.Parse(args)

	if fs.NArg() < 3 {
		usage("uomaptool index [-n N] <map> <bx> <by>")
	}
	v, err := parseInts([]string{"map", "block x", "block y"}, fs.Args())
	if err != nil {
		return err
	}
	mapID, bx, by := v[0], v[1], v[2]

	reg, err := openRegistry(cfg, mapID)
	if err != nil {
		return err
	}
	defer reg.Close()

	for i := 0; i < *count; i++ {
		rec, ok := reg.GetIndex(mapID, bx, by+i)
		if !ok {
			fmt.Printf("(%d,%d) %s\n", bx, by+i, errColor("out of range"))
			continue
		}

		land := errColor("no land")
		if rec.HasLand {
			land = okColor(fmt.Sprintf("land@0x%08X", rec.LandOffset))
		}
		statics := dimColor("no statics")
		if rec.HasStatics {
			statics = fmt.Sprintf("statics@0x%08X x%d", rec.StaticOffset, rec.StaticCount)
		}
		fmt.Printf("(%d,%d) %s %s\n", bx, by+i, land, statics)
		fmt.Printf("  original land=%d statics=%d count=%d\n",
			rec.OriginalLandOffset, rec.OriginalStaticOffset, rec.OriginalStaticCount)
	}
	return nil
}

func cmdBlock(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("block", flag.ExitOnError)
	heights := fs.Bool("z", false, "Print heights instead of graphics")
	fs.Parse(args)

	if fs.NArg() < 3 {
		usage("uomaptool block [-z] <map> <bx> <by>")
	}
	v, err := parseInts([]string{"map", "block x", "block y"}, fs.Args())
	if err != nil {
		return err
	}
	mapID, bx, by := v[0], v[1], v[2]

	reg, err := openRegistry(cfg, mapID)
	if err != nil {
		return err
	}
	defer reg.Close()

	block, ok := reg.GetRadarBlock(mapID, bx, by)
	if !ok {
		return fmt.Errorf("block (%d,%d) of map %d has no data", bx, by, mapID)
	}

	fmt.Printf("map%d block (%d,%d), tiles (%d,%d)-(%d,%d)\n", mapID, bx, by, bx*8, by*8, bx*8+7, by*8+7)

	for y := 0; y < 8; y++ {
		var row strings.Builder
		for x := 0; x < 8; x++ {
			cell := block.At(x, y)
			text := fmt.Sprintf("%04X", cell.Graphic)
			if *heights {
				text = fmt.Sprintf("%4d", cell.Z)
			}
			if !cell.IsLand {
				text = warnColor(text)
			}
			row.WriteString(text)
			row.WriteByte(' ')
		}
		fmt.Println(strings.TrimRight(row.String(), " "))
	}
	fmt.Fprintln(os.Stderr, dimColor("(statics highlighted)"))
	return nil
}

func cmdRadar(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("radar", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 5 {
		usage("uomaptool radar <map> <bx> <by> <w> <h> [out.bmp]")
	}
	v, err := parseInts([]string{"map", "block x", "block y", "width", "height"}, fs.Args())
	if err != nil {
		return err
	}
	mapID := v[0]
	out := "radar.bmp"
	if fs.NArg() > 5 {
		out = fs.Arg(5)
	}

	reg, err := openRegistry(cfg, mapID)
	if err != nil {
		return err
	}
	defer reg.Close()

	opts := []radar.Option{
		radar.WithScale(cfg.Radar.Scale),
		radar.WithLogger(logger.Named("radar")),
	}
	if cfg.Radar.CacheBlocks > 0 {
		cache, err := radar.NewCache(cfg.Radar.CacheBlocks)
		if err != nil {
			return err
		}
		defer cache.Close()
		opts = append(opts, radar.WithCache(cache))
	}

	img, err := radar.NewRenderer(reg, opts...).Render(mapID, v[1], v[2], v[3], v[4])
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := bmp.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	info, err := os.Stat(out)
	if err != nil {
		return err
	}
	logger.Log.Debug("radar written", zap.String("path", out), zap.Int64("bytes", info.Size()))

	b := img.Bounds()
	fmt.Printf("Wrote: %s (%dx%d, %s)\n", out, b.Dx(), b.Dy(), humanize.Bytes(uint64(info.Size())))
	return nil
}
