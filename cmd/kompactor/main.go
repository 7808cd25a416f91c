// Command kompactor creates, lists, and extracts KOM archives.
//
// Usage:
//
//	kompactor -c dir [out.kom]   create an archive from a directory
//	kompactor -l file.kom        list entry names
//	kompactor -x file.kom [dir]  extract into a directory
//
// The -k flag additionally writes the crc.xml manifest next to the output.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kogtools/kom"
)

// defaultVersion matches the format revision current game clients produce.
const defaultVersion = 2

type config struct {
	create  bool
	list    bool
	extract bool
	keepCRC bool
	version int
	verbose bool
}

func main() {
	var cfg config
	flag.BoolVar(&cfg.create, "c", false, "create a .kom archive from directory <file>")
	flag.BoolVar(&cfg.create, "create", false, "create a .kom archive from directory <file>")
	flag.BoolVar(&cfg.list, "l", false, "list file entries")
	flag.BoolVar(&cfg.list, "list", false, "list file entries")
	flag.BoolVar(&cfg.extract, "x", false, "extract <file> into a directory")
	flag.BoolVar(&cfg.extract, "extract", false, "extract <file> into a directory")
	flag.BoolVar(&cfg.keepCRC, "k", false, "write the crc.xml manifest next to the output")
	flag.BoolVar(&cfg.keepCRC, "keep-crc", false, "write the crc.xml manifest next to the output")
	flag.IntVar(&cfg.version, "version", defaultVersion, "format version for created archives (0-5)")
	flag.BoolVar(&cfg.verbose, "v", false, "enable debug logging")
	flag.Usage = usage
	flag.Parse()

	if err := run(&cfg, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func usage() {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <option> <file> [out_file]\n\n", name)
	fmt.Fprintln(os.Stderr, "Options:")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
  %[1]s -l file.kom    # List entries from file.kom.
  %[1]s -x file.kom    # Extract file.kom into a directory named "file".
  %[1]s -c dir         # Create dir.kom from the directory "dir".
  %[1]s -c dir out.kom # Create out.kom from the directory "dir".
`, name)
}

func run(cfg *config, args []string) error {
	actions := 0
	for _, set := range []bool{cfg.create, cfg.list, cfg.extract} {
		if set {
			actions++
		}
	}
	if actions == 0 {
		return errors.New("no action specified, use one of -c, -l, -x")
	}
	if actions > 1 {
		return errors.New("multiple actions specified, use just one of -c, -l, -x")
	}
	if len(args) == 0 {
		return errors.New("an input file or directory is required")
	}
	if len(args) > 2 {
		return errors.New("at most one input and one output may be given")
	}

	var opts []kom.Option
	if cfg.verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, kom.WithLogger(logger))
	}

	switch {
	case cfg.create:
		return create(cfg, args, opts)
	case cfg.list:
		return list(args[0], opts)
	default:
		return extract(cfg, args, opts)
	}
}

// create packs the regular files of a directory into an archive.
// Subdirectories and entries the format cannot hold are skipped with a
// warning rather than aborting the whole archive.
func create(cfg *config, args []string, opts []kom.Option) error {
	dir := args[0]
	out := dir + ".kom"
	if len(args) == 2 {
		out = args[1]
	}

	a, err := kom.New(cfg.version, opts...)
	if err != nil {
		return err
	}

	listing, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, d := range listing {
		if d.IsDir() {
			fmt.Fprintf(os.Stderr, "Warning: skipping directory %q\n", d.Name())
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, d.Name()))
		if err != nil {
			return err
		}
		if err := a.AddEntry(d.Name(), content); err != nil {
			var reserved *kom.ReservedNameError
			var tooLong *kom.NameTooLongError
			var dup *kom.DuplicateNameError
			if errors.As(err, &reserved) || errors.As(err, &tooLong) || errors.As(err, &dup) {
				fmt.Fprintf(os.Stderr, "Warning: skipping %q: %v\n", d.Name(), err)
				continue
			}
			return err
		}
	}

	data, err := a.Serialize()
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}

	if cfg.keepCRC {
		return writeManifest(a, filepath.Dir(out))
	}
	return nil
}

// list prints the content entry names of an archive.
func list(path string, opts []kom.Option) error {
	a, err := open(path, opts)
	if err != nil {
		return err
	}
	for _, info := range a.Entries() {
		fmt.Println(info.Name)
	}
	return nil
}

// extract unpacks every content entry into a directory.
func extract(cfg *config, args []string, opts []kom.Option) error {
	path := args[0]
	out := strings.TrimSuffix(path, filepath.Ext(path))
	if len(args) == 2 {
		out = args[1]
	}

	a, err := open(path, opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}

	for i, info := range a.Entries() {
		content, err := a.Extract(kom.ByIndex(i))
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(out, info.Name), content, 0o644); err != nil {
			return err
		}
	}

	if cfg.keepCRC {
		return writeManifest(a, out)
	}
	return nil
}

func open(path string, opts []kom.Option) (*kom.Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return kom.Open(data, opts...)
}

func writeManifest(a *kom.Archive, dir string) error {
	xmlBytes, err := a.ManifestXML()
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, kom.ManifestName), xmlBytes, 0o644)
}
