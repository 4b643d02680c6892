package geography

import "strconv"

// Selection is a snapshot of a Selector's tiers. A nil field means the tier is unset.
type Selection struct {
	Region   *string `json:"region"`
	City     *string `json:"city"`
	Barangay *string `json:"barangay"`
}

// Selector holds the three-tier address selection of a single form session.
// Changing a tier clears every tier below it. A Selector must not be shared
// between sessions; it is not safe for concurrent use.
type Selector struct {
	catalog  *Catalog
	region   *string
	city     *string
	barangay *string
}

// NewSelector returns a selector with every tier unset.
func NewSelector(catalog *Catalog) *Selector {
	return &Selector{catalog: catalog}
}

// SelectRegion sets the region and unconditionally clears city and barangay,
// even when the region is unchanged.
func (s *Selector) SelectRegion(name string) {
	s.region = &name
	s.city = nil
	s.barangay = nil
}

// SelectCity sets the city and clears the barangay. The region must be set and
// name must be one of its cities; on failure the state is left untouched.
func (s *Selector) SelectCity(name string) error {
	if err := s.catalog.Err(); err != nil {
		return err
	}
	if s.region == nil {
		return &InvalidSelectionError{Tier: TierCity, Name: name, Reason: "no region selected"}
	}
	if !s.catalog.HasCity(*s.region, name) {
		return &InvalidSelectionError{Tier: TierCity, Name: name, Reason: "not a city of region " + strconv.Quote(*s.region)}
	}

	s.city = &name
	s.barangay = nil
	return nil
}

// SelectBarangay sets the barangay. Region and city must be set and name must
// be one of the city's barangays; on failure the state is left untouched.
func (s *Selector) SelectBarangay(name string) error {
	if err := s.catalog.Err(); err != nil {
		return err
	}
	if s.region == nil {
		return &InvalidSelectionError{Tier: TierBarangay, Name: name, Reason: "no region selected"}
	}
	if s.city == nil {
		return &InvalidSelectionError{Tier: TierBarangay, Name: name, Reason: "no city selected"}
	}
	if !s.catalog.HasBarangay(*s.region, *s.city, name) {
		return &InvalidSelectionError{Tier: TierBarangay, Name: name, Reason: "not a barangay of " + strconv.Quote(*s.city)}
	}

	s.barangay = &name
	return nil
}

// AvailableCities lists the cities of the selected region, or nothing when no
// region is selected.
func (s *Selector) AvailableCities() ([]string, error) {
	if err := s.catalog.Err(); err != nil {
		return nil, err
	}
	if s.region == nil {
		return []string{}, nil
	}
	return s.catalog.ListCities(*s.region)
}

// AvailableBarangays lists the barangays of the selected city, or nothing when
// region or city is unset.
func (s *Selector) AvailableBarangays() ([]string, error) {
	if err := s.catalog.Err(); err != nil {
		return nil, err
	}
	if s.region == nil || s.city == nil {
		return []string{}, nil
	}
	return s.catalog.ListBarangays(*s.region, *s.city)
}

// IsComplete reports whether all three tiers are set.
func (s *Selector) IsComplete() bool {
	return s.region != nil && s.city != nil && s.barangay != nil
}

// Reset clears all tiers.
func (s *Selector) Reset() {
	s.region = nil
	s.city = nil
	s.barangay = nil
}

// State returns a copy of the current selection.
func (s *Selector) State() Selection {
	return Selection{
		Region:   copyString(s.region),
		City:     copyString(s.city),
		Barangay: copyString(s.barangay),
	}
}

func copyString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
