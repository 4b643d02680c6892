package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"civic_app_go/config"
	"civic_app_go/services"
	"civic_app_go/services/geography"
)

type ValidateCommand struct {
	File string `arg:"" help:"Dataset file (.json, .yaml, .yml or .xlsx)." type:"existingfile"`

	out io.Writer `kong:"-"`
}

func (r *ValidateCommand) Run(app *App) error {
	regions, err := geography.LoadFile(r.File)
	if err != nil {
		return err
	}

	cities, barangays := countTiers(regions)
	fmt.Fprintf(writer(r.out), "%s: ok (%d regions, %d cities, %d barangays)\n", r.File, len(regions), cities, barangays)
	if app.Verbose {
		for _, region := range regions {
			fmt.Fprintf(writer(r.out), "  %s: %d cities\n", region.Name, len(region.Cities))
		}
	}
	return nil
}

type ListCommand struct {
	File   string `arg:"" help:"Dataset file." type:"existingfile"`
	Region string `help:"List the cities of this region."`
	City   string `help:"List the barangays of this city (requires --region)."`

	out io.Writer `kong:"-"`
}

func (r *ListCommand) Run(app *App) error {
	regions, err := geography.LoadFile(r.File)
	if err != nil {
		return err
	}
	catalog, err := geography.NewCatalog(regions)
	if err != nil {
		return err
	}

	var names []string
	switch {
	case r.City != "" && r.Region == "":
		return fmt.Errorf("--city requires --region")
	case r.City != "":
		names, err = catalog.ListBarangays(r.Region, r.City)
	case r.Region != "":
		names, err = catalog.ListCities(r.Region)
	default:
		names, err = catalog.ListRegions()
	}
	if err != nil {
		return err
	}

	for _, name := range names {
		fmt.Fprintln(writer(r.out), name)
	}
	return nil
}

type ConvertCommand struct {
	Input  string `arg:"" help:"Source dataset file." type:"existingfile"`
	Output string `arg:"" help:"Destination file; format follows the extension."`
}

func (r *ConvertCommand) Run(app *App) error {
	regions, err := geography.LoadFile(r.Input)
	if err != nil {
		return err
	}
	format, err := geography.FormatFromPath(r.Output)
	if err != nil {
		return err
	}

	f, err := os.Create(r.Output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", r.Output, err)
	}
	defer f.Close()

	if err := geography.Encode(format, f, regions); err != nil {
		return err
	}
	if app.Verbose {
		fmt.Printf("Wrote %s (%s)\n", r.Output, format)
	}
	return f.Close()
}

type PublishCommand struct {
	File string `arg:"" help:"Dataset file to upload." type:"existingfile"`
	Key  string `help:"Object key; defaults to geography/<file name>."`
}

func (r *PublishCommand) Run(app *App) error {
	// Refuse to publish anything the server would fail to load
	if _, err := geography.LoadFile(r.File); err != nil {
		return err
	}

	data, err := os.ReadFile(r.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", r.File, err)
	}

	key := r.Key
	if key == "" {
		key = services.GeographyDatasetKey(filepath.Base(r.File))
	}
	// The server picks the parser from the key's extension
	keyFormat, err := geography.FormatFromPath(key)
	if err != nil {
		return fmt.Errorf("key %q: %w", key, err)
	}
	if fileFormat, _ := geography.FormatFromPath(r.File); fileFormat != keyFormat {
		return fmt.Errorf("key %q is %s but %s is %s", key, keyFormat, r.File, fileFormat)
	}

	store := services.InitializeStorage(config.Load())
	result, err := store.UploadReader(context.Background(), bytes.NewReader(data), key, services.DatasetContentType(key), int64(len(data)))
	if err != nil {
		return err
	}

	fmt.Printf("Published %s to %s (%d bytes)\n", result.Key, store.Name(), result.FileSize)
	fmt.Printf("Set GEOGRAPHY_SOURCE=%s%s to serve it\n", services.StorageSourcePrefix, result.Key)
	return nil
}

func countTiers(regions []geography.Region) (cities, barangays int) {
	for _, region := range regions {
		cities += len(region.Cities)
		for _, city := range region.Cities {
			barangays += len(city.Barangays)
		}
	}
	return cities, barangays
}

func writer(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
