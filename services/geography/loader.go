package geography

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Supported dataset formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatXLSX = "xlsx"
)

// xlsxHeader is the expected first row of a spreadsheet dataset.
var xlsxHeader = []string{"Region", "City", "Barangay"}

// ObjectGetter fetches a stored object by key. services.StorageProvider satisfies it.
type ObjectGetter interface {
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
}

// FormatFromPath guesses the dataset format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported dataset extension %q", filepath.Ext(path))
	}
}

// Parse decodes and validates a dataset. Any failure is a *DatasetLoadError.
func Parse(source, format string, r io.Reader) ([]Region, error) {
	var (
		regions []Region
		err     error
	)

	switch format {
	case FormatJSON:
		regions, err = parseJSON(r)
	case FormatYAML:
		regions, err = parseYAML(r)
	case FormatXLSX:
		regions, err = parseXLSX(r)
	default:
		err = fmt.Errorf("unsupported dataset format %q", format)
	}
	if err != nil {
		return nil, &DatasetLoadError{Source: source, Err: err}
	}

	if err := Validate(regions); err != nil {
		return nil, &DatasetLoadError{Source: source, Err: err}
	}
	return regions, nil
}

// LoadFile reads a dataset from disk, choosing the format by extension.
func LoadFile(path string) ([]Region, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, &DatasetLoadError{Source: path, Err: err}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &DatasetLoadError{Source: path, Err: err}
	}
	defer f.Close()

	return Parse(path, format, f)
}

// LoadFromStorage fetches a dataset object through the storage provider.
func LoadFromStorage(ctx context.Context, store ObjectGetter, key string) ([]Region, error) {
	source := "storage:" + key

	format, err := FormatFromPath(key)
	if err != nil {
		return nil, &DatasetLoadError{Source: source, Err: err}
	}

	rc, _, err := store.Get(ctx, key)
	if err != nil {
		return nil, &DatasetLoadError{Source: source, Err: err}
	}
	defer rc.Close()

	return Parse(source, format, rc)
}

// NewCatalogFromRegions builds a catalog, or an unavailable one when loading failed.
func NewCatalogFromRegions(source string, regions []Region, loadErr error) *Catalog {
	if loadErr != nil {
		return Unavailable(loadErr)
	}
	c, err := NewCatalog(regions)
	if err != nil {
		return Unavailable(&DatasetLoadError{Source: source, Err: err})
	}
	return c
}

// Encode writes regions in the given format.
func Encode(format string, w io.Writer, regions []Region) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(regions)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(regions); err != nil {
			return err
		}
		return enc.Close()
	case FormatXLSX:
		return encodeXLSX(w, regions)
	default:
		return fmt.Errorf("unsupported dataset format %q", format)
	}
}

func parseJSON(r io.Reader) ([]Region, error) {
	var regions []Region
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&regions); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return regions, nil
}

func parseYAML(r io.Reader) ([]Region, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML: %w", err)
	}
	var regions []Region
	if err := yaml.Unmarshal(data, &regions); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return regions, nil
}

// parseXLSX reads the first sheet as Region | City | Barangay rows.
// First appearance decides display order at every tier.
func parseXLSX(r io.Reader) ([]Region, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}

	var regions []Region
	regionIdx := map[string]int{}
	cityIdx := map[[2]string]int{}

	for i, row := range rows {
		if i == 0 {
			if !isXLSXHeader(row) {
				return nil, fmt.Errorf("sheet %s: header must be %s", sheets[0], strings.Join(xlsxHeader, " | "))
			}
			continue
		}
		if isBlankRow(row) {
			continue
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("sheet %s row %d: expected 3 columns, got %d", sheets[0], i+1, len(row))
		}

		regionName := strings.TrimSpace(row[0])
		cityName := strings.TrimSpace(row[1])
		barangay := strings.TrimSpace(row[2])

		ri, ok := regionIdx[regionName]
		if !ok {
			regions = append(regions, Region{Name: regionName})
			ri = len(regions) - 1
			regionIdx[regionName] = ri
		}

		key := [2]string{regionName, cityName}
		ci, ok := cityIdx[key]
		if !ok {
			regions[ri].Cities = append(regions[ri].Cities, City{Name: cityName})
			ci = len(regions[ri].Cities) - 1
			cityIdx[key] = ci
		}

		city := &regions[ri].Cities[ci]
		city.Barangays = append(city.Barangays, barangay)
	}

	return regions, nil
}

func encodeXLSX(w io.Writer, regions []Region) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := make([]interface{}, len(xlsxHeader))
	for i, h := range xlsxHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := 2
	for _, region := range regions {
		for _, city := range region.Cities {
			for _, barangay := range city.Barangays {
				cell, err := excelize.CoordinatesToCellName(1, row)
				if err != nil {
					return err
				}
				values := []interface{}{region.Name, city.Name, barangay}
				if err := f.SetSheetRow(sheet, cell, &values); err != nil {
					return fmt.Errorf("failed to write row %d: %w", row, err)
				}
				row++
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return fmt.Errorf("failed to write excel buffer: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func isXLSXHeader(row []string) bool {
	if len(row) < len(xlsxHeader) {
		return false
	}
	for i, h := range xlsxHeader {
		if !strings.EqualFold(strings.TrimSpace(row[i]), h) {
			return false
		}
	}
	return true
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
