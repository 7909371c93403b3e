package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nbilal/homepin/internal/config"
	"github.com/nbilal/homepin/internal/engine/storage"
)

func runExport(args []string) error {
	var dbPath, outputPath, format string

	cfg := config.Load()

	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.StringVar(&dbPath, "db", cfg.DBPath(), "Path to listings .db file")
	fs.StringVar(&outputPath, "output", "", "Output file path (default: same dir as db)")
	fs.StringVar(&format, "format", "csv", "Export format: csv")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: homepin export [flags]\n\nFlags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  homepin export\n")
		fmt.Fprintf(os.Stderr, "  homepin export -db ./listings.db -output results.csv\n")
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if format != "csv" {
		return fmt.Errorf("unsupported format: %s (only csv supported)", format)
	}

	if outputPath == "" {
		dir := filepath.Dir(dbPath)
		base := strings.TrimSuffix(filepath.Base(dbPath), ".db")
		outputPath = filepath.Join(dir, base+".csv")
	}

	store, err := storage.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("opening db: %w", err)
	}
	defer store.Close()

	listings, err := store.ListListings()
	if err != nil {
		return fmt.Errorf("loading listings: %w", err)
	}
	if len(listings) == 0 {
		return fmt.Errorf("no listings found in database")
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	w.Write([]string{
		"server_id", "title", "price", "city", "type",
		"description", "zipcode", "lat", "lng", "image_path",
		"owner_id", "created_at",
	})

	for _, l := range listings {
		w.Write([]string{
			l.ServerID,
			l.Title,
			l.Price,
			l.City,
			l.Type,
			l.Description,
			l.Zipcode,
			fmt.Sprintf("%.6f", l.Lat),
			fmt.Sprintf("%.6f", l.Lng),
			l.ImagePath,
			l.OwnerID,
			l.CreatedAt.Format(time.RFC3339),
		})
	}

	fmt.Fprintf(os.Stderr, "Exported %d listings to %s\n", len(listings), outputPath)
	return nil
}
