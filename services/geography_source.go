package services

import (
	"context"
	"log"
	"strings"

	"civic_app_go/services/geography"
)

// StorageSourcePrefix marks a GEOGRAPHY_SOURCE value that lives in object storage
const StorageSourcePrefix = "r2:"

// LoadGeographyCatalog builds the process-wide catalog from the configured source.
// An empty source uses the built-in dataset. A failed load yields an unavailable
// catalog so geography queries fail closed instead of returning empty lists.
func LoadGeographyCatalog(ctx context.Context, source string, store geography.ObjectGetter) *geography.Catalog {
	if source == "" {
		log.Println("Geography catalog loaded (built-in dataset)")
		return geography.Default()
	}

	var (
		regions []geography.Region
		err     error
	)
	if key, ok := strings.CutPrefix(source, StorageSourcePrefix); ok {
		regions, err = geography.LoadFromStorage(ctx, store, key)
	} else {
		regions, err = geography.LoadFile(source)
	}

	catalog := geography.NewCatalogFromRegions(source, regions, err)
	if loadErr := catalog.Err(); loadErr != nil {
		log.Printf("[WARNING] %v. Geography endpoints will be unavailable.", loadErr)
		return catalog
	}

	log.Printf("Geography catalog loaded (%s, %d regions)", source, len(regions))
	return catalog
}
