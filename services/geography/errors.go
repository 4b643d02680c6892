package geography

import (
	"errors"
	"fmt"
)

// ErrInvalidSelection is matched by every *InvalidSelectionError via errors.Is.
var ErrInvalidSelection = errors.New("invalid selection")

// DatasetLoadError reports that the geography dataset could not be loaded.
// A catalog built from a failed load refuses every query with this error.
type DatasetLoadError struct {
	Source string
	Err    error
}

func (e *DatasetLoadError) Error() string {
	return fmt.Sprintf("failed to load geography dataset from %s: %v", e.Source, e.Err)
}

func (e *DatasetLoadError) Unwrap() error {
	return e.Err
}

// Tier names used in InvalidSelectionError.
const (
	TierRegion   = "region"
	TierCity     = "city"
	TierBarangay = "barangay"
)

// InvalidSelectionError is returned by Selector when a pick does not fit the
// current higher-tier state or is not one of the available options.
type InvalidSelectionError struct {
	Tier   string
	Name   string
	Reason string
}

func (e *InvalidSelectionError) Error() string {
	return fmt.Sprintf("invalid %s selection %q: %s", e.Tier, e.Name, e.Reason)
}

func (e *InvalidSelectionError) Is(target error) bool {
	return target == ErrInvalidSelection
}
