package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/nbilal/homepin/internal/config"
	"github.com/nbilal/homepin/internal/engine/media"
	"github.com/nbilal/homepin/internal/engine/storage"
	"github.com/nbilal/homepin/internal/engine/submit"
	"github.com/nbilal/homepin/internal/logger"
	"github.com/nbilal/homepin/internal/model"
)

func runSubmit(args []string) error {
	var (
		title, price, city, propType string
		desc, zipcode, imagePath     string
		userID                       string
		lat, lng                     float64
		hasCoords                    bool
	)

	cfg := config.Load()

	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	fs.StringVar(&title, "title", "", "Listing title")
	fs.StringVar(&price, "price", "", "Asking price")
	fs.StringVar(&city, "city", "", "City")
	fs.StringVar(&propType, "type", "", "Property type")
	fs.StringVar(&desc, "desc", "", "Description")
	fs.StringVar(&zipcode, "zipcode", "", "Zipcode")
	fs.Float64Var(&lat, "lat", 0, "Latitude")
	fs.Float64Var(&lng, "lng", 0, "Longitude")
	fs.StringVar(&imagePath, "image", "", "Path to a photo to attach")
	fs.StringVar(&userID, "user", cfg.UserID, "Owner user id")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: homepin submit [flags]\n\nFlags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  homepin submit -title \"2BR flat\" -price 12000 -city Dubai -type apartment\n")
		fmt.Fprintf(os.Stderr, "  homepin submit -title Villa -price 45000 -lat 25.2048 -lng 55.2708 -image ./photo.jpg\n")
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "lat" || f.Name == "lng" {
			hasCoords = true
		}
	})

	log := logger.New(cfg)
	defer log.Sync()

	draft := model.PropertyDraft{
		Title:       title,
		Price:       price,
		City:        city,
		Type:        propType,
		Description: desc,
		Zipcode:     zipcode,
		OwnerID:     userID,
	}
	if hasCoords {
		draft.SetLocation(model.Coordinate{Latitude: lat, Longitude: lng})
	}
	if imagePath != "" {
		ref, err := media.FromFile(imagePath)
		if err != nil {
			return fmt.Errorf("reading image: %w", err)
		}
		draft.SetMedia(ref)
	}

	log.Info("headless submission",
		zap.String("title", title),
		zap.String("city", city),
		zap.Bool("has_coords", hasCoords),
		zap.Bool("has_image", imagePath != ""))

	start := time.Now()
	submitter := submit.NewSubmitter(cfg.BaseURL, cfg.ProxyURL, log)
	serverID, err := submitter.Submit(context.Background(), draft)
	if err != nil {
		log.Error("submission failed", zap.Error(err))
		return err
	}

	store, err := storage.NewStore(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("opening listings store: %w", err)
	}
	defer store.Close()

	listing := model.Listing{
		ServerID:    serverID,
		Title:       title,
		Price:       price,
		City:        city,
		Type:        propType,
		Description: desc,
		Zipcode:     zipcode,
		OwnerID:     userID,
		ImagePath:   imagePath,
	}
	if hasCoords {
		listing.Lat = lat
		listing.Lng = lng
	}
	if _, err := store.InsertListing(listing); err != nil {
		log.Warn("local listing save failed", zap.Error(err))
	}
	total, _ := store.Count()

	duration := time.Since(start).Truncate(time.Millisecond)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "══════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Listing Submitted\n")
	fmt.Fprintf(os.Stderr, "══════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Title:      %s\n", title)
	if city != "" {
		fmt.Fprintf(os.Stderr, "  City:       %s\n", city)
	}
	if hasCoords {
		fmt.Fprintf(os.Stderr, "  Location:   %.6f, %.6f\n", lat, lng)
	}
	if serverID != "" {
		fmt.Fprintf(os.Stderr, "  Server ID:  %s\n", serverID)
	}
	fmt.Fprintf(os.Stderr, "  Local DB:   %s (%d listings)\n", cfg.DBPath(), total)
	fmt.Fprintf(os.Stderr, "  Log:        %s\n", cfg.LogPath())
	fmt.Fprintf(os.Stderr, "  Duration:   %s\n", duration)
	fmt.Fprintf(os.Stderr, "══════════════════════════════\n")

	return nil
}
