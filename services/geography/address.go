package geography

// ResolveAddress replays a submitted address through a fresh Selector, stopping
// at the first empty tier. It returns the selector even on failure so callers
// can report the options that remain valid.
func ResolveAddress(catalog *Catalog, region, city, barangay string) (*Selector, error) {
	s := NewSelector(catalog)
	if err := catalog.Err(); err != nil {
		return s, err
	}

	if region == "" {
		if city != "" {
			return s, s.SelectCity(city)
		}
		if barangay != "" {
			return s, s.SelectBarangay(barangay)
		}
		return s, nil
	}
	if !catalog.HasRegion(region) {
		return s, &InvalidSelectionError{Tier: TierRegion, Name: region, Reason: "unknown region"}
	}
	s.SelectRegion(region)

	if city != "" {
		if err := s.SelectCity(city); err != nil {
			return s, err
		}
	}
	if barangay != "" {
		if err := s.SelectBarangay(barangay); err != nil {
			return s, err
		}
	}
	return s, nil
}
