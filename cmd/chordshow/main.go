// Command chordshow converts chord-over-lyrics markup into corrected
// markup and presentation JSON. It provides commands for processing
// local files, fetching a remote repertoire, querying the processing
// catalog, and bundling outputs.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/bricedupuy/chordshow/internal/archive"
	"github.com/bricedupuy/chordshow/internal/catalog"
	"github.com/bricedupuy/chordshow/internal/config"
	"github.com/bricedupuy/chordshow/internal/fetch"
	"github.com/bricedupuy/chordshow/internal/fileutil"
	"github.com/bricedupuy/chordshow/internal/formats/chordpro"
	"github.com/bricedupuy/chordshow/internal/formats/freeshow"
	"github.com/bricedupuy/chordshow/internal/logging"
	"github.com/bricedupuy/chordshow/internal/metadata"
	"github.com/bricedupuy/chordshow/internal/pipeline"

	"github.com/bricedupuy/chordshow/core/enrich"
)

const version = "1.0.0"

// CLI defines the command-line interface for chordshow.
var CLI struct {
	// Global flags
	Config    string `short:"c" help:"Configuration file path" type:"path"`
	Verbose   bool   `short:"v" help:"Enable debug logging"`
	LogFormat string `name:"log-format" enum:"text,json" default:"text" help:"Log output format (text or json)"`

	// Command groups (noun-first organization)
	Process ProcessCmd   `cmd:"" help:"Process local markup files into corrected markup and presentation JSON"`
	Fetch   FetchGroup   `cmd:"" help:"Remote repertoire operations (list, get)"`
	Catalog CatalogGroup `cmd:"" help:"Processing catalog queries"`
	Bundle  BundleGroup  `cmd:"" help:"Output bundle archives"`
	Init    InitCmd      `cmd:"" help:"Write a default configuration file"`
	Version VersionCmd   `cmd:"" help:"Print version information"`
}

// FetchGroup contains remote repertoire operations.
type FetchGroup struct {
	List ListSongsCmd `cmd:"" help:"List songs available in the remote repertoire"`
	Get  GetCmd       `cmd:"" help:"Download songs, optionally processing them"`
}

// CatalogGroup contains catalog query operations.
type CatalogGroup struct {
	List CatalogListCmd `cmd:"" help:"List all processed songs"`
	Show CatalogShowCmd `cmd:"" help:"Show the catalog entry for one song"`
}

// BundleGroup contains output archive operations.
type BundleGroup struct {
	Create  BundleCreateCmd  `cmd:"" help:"Pack output directories into a tar.xz bundle"`
	Extract BundleExtractCmd `cmd:"" help:"Unpack a bundle into a directory"`
	List    BundleListCmd    `cmd:"" help:"List the members of a bundle"`
}

// loadConfig resolves the effective configuration from the --config
// flag, falling back to environment-backed defaults.
func loadConfig() (config.Config, error) {
	if CLI.Config != "" {
		return config.Load(CLI.Config)
	}
	return config.Default(), nil
}

// ProcessCmd processes local markup files.
type ProcessCmd struct {
	Dir         string `arg:"" default:"." help:"Directory containing .chordpro files" type:"existingdir"`
	Metadata    string `help:"Metadata CSV file to enrich songs with" type:"existingfile"`
	EnhancedDir string `name:"enhanced-dir" help:"Override output directory for corrected markup" type:"path"`
	ShowDir     string `name:"show-dir" help:"Override output directory for presentation JSON" type:"path"`
	NoCatalog   bool   `name:"no-catalog" help:"Skip recording results in the catalog"`
}

func (c *ProcessCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if c.EnhancedDir != "" {
		cfg.EnhancedDir = c.EnhancedDir
	}
	if c.ShowDir != "" {
		cfg.ShowDir = c.ShowDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	records := enrich.Set{}
	if c.Metadata != "" {
		records, err = metadata.Load(c.Metadata)
		if err != nil {
			return err
		}
	}

	docs, err := readDocuments(c.Dir)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Printf("No .chordpro files found in %s\n", c.Dir)
		return nil
	}

	ctx := logging.WithRunID(context.Background(), uuid.NewString())
	results := pipeline.RunBatch(ctx, docs, records, cfg)
	return writeResults(ctx, results, cfg, !c.NoCatalog)
}

// readDocuments loads every .chordpro file in dir, in repertoire order.
func readDocuments(dir string) ([]pipeline.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".chordpro") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Slice(names, func(i, j int) bool { return fileutil.Less(names[i], names[j]) })

	docs := make([]pipeline.Document, 0, len(names))
	for _, name := range names {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		docs = append(docs, pipeline.Document{Source: fileutil.Stem(name), Raw: string(raw)})
	}
	return docs, nil
}

// writeResults writes both artifacts for each successful result,
// records them in the catalog, and prints a per-song summary.
func writeResults(ctx context.Context, results []pipeline.Result, cfg config.Config, record bool) error {
	if err := os.MkdirAll(cfg.EnhancedDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.MkdirAll(cfg.ShowDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var cat *catalog.Catalog
	if record && cfg.CatalogPath != "" {
		var err error
		cat, err = catalog.Open(cfg.CatalogPath)
		if err != nil {
			return err
		}
		defer cat.Close()
	}

	runID := pipeline.RunID(ctx)
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("  [FAIL] %s: %v\n", r.Source, r.Err)
			failed++
			continue
		}

		enhancedOut := filepath.Join(cfg.EnhancedDir, chordpro.OutputName(r.Source))
		showOut := filepath.Join(cfg.ShowDir, freeshow.OutputName(r.Source))
		if err := os.WriteFile(enhancedOut, r.Enhanced, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", enhancedOut, err)
		}
		if err := os.WriteFile(showOut, r.Show, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", showOut, err)
		}
		logging.SongProcessed(ctx, r.Source, enhancedOut, showOut, r.Duplicates)

		if cat != nil {
			entry := catalog.Entry{
				RunID:       runID,
				Source:      r.Source,
				Number:      r.Number,
				Title:       r.Title,
				EnhancedOut: enhancedOut,
				ShowOut:     showOut,
				ContentKey:  r.ContentKey,
				ProcessedAt: time.Now().UTC(),
			}
			if err := cat.Record(ctx, entry); err != nil {
				return err
			}
		}

		note := ""
		if !r.MetadataFound {
			note = " (no metadata)"
		}
		fmt.Printf("  [OK] %s%s\n", r.Source, note)
	}

	fmt.Printf("\nResults: %d processed, %d failed\n", len(results)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d song(s) failed", failed)
	}
	return nil
}

// ListSongsCmd lists songs available in the remote repertoire.
type ListSongsCmd struct{}

func (c *ListSongsCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := fetch.New(cfg.SongBaseURL, cfg.MetadataURL, cfg.Timeout(), cfg.MaxRetries, cfg.RetryDelay())

	names, err := client.ListSongs(context.Background())
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	fmt.Printf("\nTotal: %d song(s)\n", len(names))
	return nil
}

// GetCmd downloads songs and optionally processes them.
type GetCmd struct {
	Names   []string `arg:"" optional:"" help:"Song names to download (default: all)"`
	Dir     string   `default:"songs" help:"Directory to save downloaded files" type:"path"`
	Process bool     `help:"Process downloaded songs after fetching"`
}

func (c *GetCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	ctx := context.Background()
	client := fetch.New(cfg.SongBaseURL, cfg.MetadataURL, cfg.Timeout(), cfg.MaxRetries, cfg.RetryDelay())

	names := c.Names
	if len(names) == 0 {
		names, err = client.ListSongs(ctx)
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}

	var docs []pipeline.Document
	for _, name := range names {
		local, data, err := client.DownloadSong(ctx, name)
		if err != nil {
			return err
		}
		path := filepath.Join(c.Dir, local)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Printf("Downloaded: %s\n", local)
		docs = append(docs, pipeline.Document{Source: fileutil.Stem(local), Raw: string(data)})
	}

	if !c.Process {
		return nil
	}

	records := enrich.Set{}
	csvData, err := client.DownloadMetadata(ctx)
	if err != nil {
		logging.Warn("metadata download failed, songs keep inline metadata", "error", err)
	} else {
		records, err = metadata.Parse(bytes.NewReader(csvData))
		if err != nil {
			return err
		}
	}

	ctx = logging.WithRunID(ctx, uuid.NewString())
	results := pipeline.RunBatch(ctx, docs, records, cfg)
	return writeResults(ctx, results, cfg, true)
}

// CatalogListCmd lists all processed songs.
type CatalogListCmd struct{}

func (c *CatalogListCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cat, err := catalog.Open(cfg.CatalogPath)
	if err != nil {
		return err
	}
	defer cat.Close()

	entries, err := cat.List(context.Background())
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("Catalog is empty.")
		return nil
	}

	for _, e := range entries {
		title := e.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("  %-20s %-6s %s\n", e.Source, e.Number, title)
	}
	fmt.Printf("\nTotal: %d song(s)\n", len(entries))
	return nil
}

// CatalogShowCmd shows the catalog entry for one song.
type CatalogShowCmd struct {
	Source string `arg:"" help:"Song source identifier"`
}

func (c *CatalogShowCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cat, err := catalog.Open(cfg.CatalogPath)
	if err != nil {
		return err
	}
	defer cat.Close()

	e, err := cat.Get(context.Background(), c.Source)
	if err != nil {
		return err
	}

	fmt.Printf("Source: %s\n", e.Source)
	fmt.Printf("  Number: %s\n", e.Number)
	fmt.Printf("  Title: %s\n", e.Title)
	fmt.Printf("  Run: %s\n", e.RunID)
	fmt.Printf("  Enhanced: %s\n", e.EnhancedOut)
	fmt.Printf("  Show: %s\n", e.ShowOut)
	fmt.Printf("  Content key: %s\n", e.ContentKey)
	fmt.Printf("  Processed: %s\n", e.ProcessedAt.Format(time.RFC3339))
	return nil
}

// BundleCreateCmd packs output directories into a tar.xz bundle.
type BundleCreateCmd struct {
	Out  string   `required:"" help:"Output bundle path" type:"path"`
	Dirs []string `arg:"" optional:"" help:"Directories to pack (default: configured output directories)"`
}

func (c *BundleCreateCmd) Run() error {
	dirs := c.Dirs
	if len(dirs) == 0 {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dirs = []string{cfg.EnhancedDir, cfg.ShowDir}
	}
	for _, dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			return fmt.Errorf("directory not found: %s", dir)
		}
	}

	if err := archive.Create(dirs, c.Out); err != nil {
		return err
	}
	fmt.Printf("Created: %s\n", c.Out)
	return nil
}

// BundleExtractCmd unpacks a bundle into a directory.
type BundleExtractCmd struct {
	Bundle string `arg:"" help:"Path to bundle" type:"existingfile"`
	Out    string `default:"." help:"Destination directory" type:"path"`
}

func (c *BundleExtractCmd) Run() error {
	if err := archive.Extract(c.Bundle, c.Out); err != nil {
		return err
	}
	fmt.Printf("Extracted: %s -> %s\n", c.Bundle, c.Out)
	return nil
}

// BundleListCmd lists the members of a bundle.
type BundleListCmd struct {
	Bundle string `arg:"" help:"Path to bundle" type:"existingfile"`
}

func (c *BundleListCmd) Run() error {
	names, err := archive.List(c.Bundle)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	fmt.Printf("\nTotal: %d member(s)\n", len(names))
	return nil
}

// InitCmd writes a default configuration file.
type InitCmd struct {
	Out string `default:"chordshow.yaml" help:"Configuration file to write" type:"path"`
}

func (c *InitCmd) Run() error {
	if _, err := os.Stat(c.Out); err == nil {
		return fmt.Errorf("refusing to overwrite existing file: %s", c.Out)
	}
	if err := config.WriteDefault(c.Out); err != nil {
		return err
	}
	fmt.Printf("Wrote: %s\n", c.Out)
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("chordshow %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("chordshow"),
		kong.Description("Convert chord-over-lyrics markup into corrected markup and presentation JSON"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	level := logging.LevelInfo
	if CLI.Verbose {
		level = logging.LevelDebug
	}
	format := logging.FormatText
	if CLI.LogFormat == "json" {
		format = logging.FormatJSON
	}
	logging.InitLogger(level, format)

	ctx.FatalIfErrorf(ctx.Run())
}
