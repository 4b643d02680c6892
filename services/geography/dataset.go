package geography

import "fmt"

// Region is the top tier of the address hierarchy.
type Region struct {
	Name   string `json:"name" yaml:"name"`
	Cities []City `json:"cities" yaml:"cities"`
}

// City belongs to exactly one Region and owns an ordered list of barangay names.
type City struct {
	Name      string   `json:"name" yaml:"name"`
	Barangays []string `json:"barangays" yaml:"barangays"`
}

// DefaultRegions returns the built-in dataset shipped with the app.
func DefaultRegions() []Region {
	return []Region{
		{
			Name: "NCR",
			Cities: []City{
				{
					Name:      "Caloocan City",
					Barangays: []string{"Barangay 73"},
				},
			},
		},
	}
}

// Validate checks that every name is non-empty and unique among its siblings.
// Names may repeat across different parents.
func Validate(regions []Region) error {
	if len(regions) == 0 {
		return fmt.Errorf("dataset has no regions")
	}

	seenRegions := make(map[string]bool, len(regions))
	for i, region := range regions {
		if region.Name == "" {
			return fmt.Errorf("region #%d has an empty name", i+1)
		}
		if seenRegions[region.Name] {
			return fmt.Errorf("duplicate region %q", region.Name)
		}
		seenRegions[region.Name] = true

		seenCities := make(map[string]bool, len(region.Cities))
		for j, city := range region.Cities {
			if city.Name == "" {
				return fmt.Errorf("city #%d in region %q has an empty name", j+1, region.Name)
			}
			if seenCities[city.Name] {
				return fmt.Errorf("duplicate city %q in region %q", city.Name, region.Name)
			}
			seenCities[city.Name] = true

			seenBarangays := make(map[string]bool, len(city.Barangays))
			for k, barangay := range city.Barangays {
				if barangay == "" {
					return fmt.Errorf("barangay #%d in %q, %q has an empty name", k+1, city.Name, region.Name)
				}
				if seenBarangays[barangay] {
					return fmt.Errorf("duplicate barangay %q in %q, %q", barangay, city.Name, region.Name)
				}
				seenBarangays[barangay] = true
			}
		}
	}

	return nil
}

// cloneRegions returns a deep copy so callers never share backing arrays with the catalog.
func cloneRegions(regions []Region) []Region {
	out := make([]Region, len(regions))
	for i, region := range regions {
		cities := make([]City, len(region.Cities))
		for j, city := range region.Cities {
			cities[j] = City{
				Name:      city.Name,
				Barangays: append([]string(nil), city.Barangays...),
			}
		}
		out[i] = Region{Name: region.Name, Cities: cities}
	}
	return out
}
