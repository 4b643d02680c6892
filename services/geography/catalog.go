package geography

import "fmt"

// Catalog is a read-only view over the region -> city -> barangay tree.
// It is immutable after construction and safe for concurrent use.
type Catalog struct {
	regions   []Region
	regionIdx map[string]int
	cityIdx   []map[string]int
	loadErr   error
}

// NewCatalog validates the regions and builds a catalog over a private copy of them.
func NewCatalog(regions []Region) (*Catalog, error) {
	if err := Validate(regions); err != nil {
		return nil, err
	}

	c := &Catalog{
		regions:   cloneRegions(regions),
		regionIdx: make(map[string]int, len(regions)),
		cityIdx:   make([]map[string]int, len(regions)),
	}
	for i, region := range c.regions {
		c.regionIdx[region.Name] = i
		cities := make(map[string]int, len(region.Cities))
		for j, city := range region.Cities {
			cities[city.Name] = j
		}
		c.cityIdx[i] = cities
	}

	return c, nil
}

// Default returns a catalog over the built-in dataset.
func Default() *Catalog {
	c, err := NewCatalog(DefaultRegions())
	if err != nil {
		panic(fmt.Sprintf("built-in geography dataset is invalid: %v", err))
	}
	return c
}

// Unavailable returns a catalog that refuses every query with err.
// Used when the dataset failed to load so the failure is never masked as "no data".
func Unavailable(err error) *Catalog {
	if err == nil {
		err = &DatasetLoadError{Source: "unknown", Err: fmt.Errorf("no dataset loaded")}
	}
	return &Catalog{loadErr: err}
}

// Err returns the load error of an unavailable catalog, or nil.
func (c *Catalog) Err() error {
	return c.loadErr
}

// ListRegions returns region names in stored order.
func (c *Catalog) ListRegions() ([]string, error) {
	if c.loadErr != nil {
		return nil, c.loadErr
	}
	names := make([]string, len(c.regions))
	for i, region := range c.regions {
		names[i] = region.Name
	}
	return names, nil
}

// ListCities returns the cities of region in stored order.
// An unknown region yields an empty list, not an error.
func (c *Catalog) ListCities(region string) ([]string, error) {
	if c.loadErr != nil {
		return nil, c.loadErr
	}
	r, ok := c.region(region)
	if !ok {
		return []string{}, nil
	}
	names := make([]string, len(r.Cities))
	for i, city := range r.Cities {
		names[i] = city.Name
	}
	return names, nil
}

// ListBarangays returns the barangays of city within region in stored order.
// An unknown region or city yields an empty list, not an error.
func (c *Catalog) ListBarangays(region, city string) ([]string, error) {
	if c.loadErr != nil {
		return nil, c.loadErr
	}
	ct, ok := c.city(region, city)
	if !ok {
		return []string{}, nil
	}
	return append([]string{}, ct.Barangays...), nil
}

// Regions returns a deep copy of the whole tree.
func (c *Catalog) Regions() ([]Region, error) {
	if c.loadErr != nil {
		return nil, c.loadErr
	}
	return cloneRegions(c.regions), nil
}

// HasRegion reports whether region exists.
func (c *Catalog) HasRegion(region string) bool {
	_, ok := c.region(region)
	return ok
}

// HasCity reports whether city exists within region.
func (c *Catalog) HasCity(region, city string) bool {
	_, ok := c.city(region, city)
	return ok
}

// HasBarangay reports whether barangay exists within city and region.
func (c *Catalog) HasBarangay(region, city, barangay string) bool {
	ct, ok := c.city(region, city)
	if !ok {
		return false
	}
	for _, b := range ct.Barangays {
		if b == barangay {
			return true
		}
	}
	return false
}

func (c *Catalog) region(name string) (*Region, bool) {
	if c.loadErr != nil {
		return nil, false
	}
	i, ok := c.regionIdx[name]
	if !ok {
		return nil, false
	}
	return &c.regions[i], true
}

func (c *Catalog) city(region, name string) (*City, bool) {
	if c.loadErr != nil {
		return nil, false
	}
	i, ok := c.regionIdx[region]
	if !ok {
		return nil, false
	}
	j, ok := c.cityIdx[i][name]
	if !ok {
		return nil, false
	}
	return &c.regions[i].Cities[j], true
}
