package models

// Building is a single footprint taken from the input feature collection.
type Building struct {
	Coordinates        // Point of the building footprint.
	Label       string // Label is the free-form building label from the feature properties.
}

// ResolvedBuilding is a Building paired with the street address returned by the
// reverse-geocoding provider.
type ResolvedBuilding struct {
	Coordinates
	StreetAddress string // StreetAddress is the display name returned by the provider.
	Label         string // Label is copied from the originating Building.
}

// Resolve returns the ResolvedBuilding for b with the given street address.
func (b Building) Resolve(streetAddress string) ResolvedBuilding {
	return ResolvedBuilding{
		Coordinates:   b.Coordinates,
		StreetAddress: streetAddress,
		Label:         b.Label,
	}
}

// UniqueAddresses counts distinct street addresses across the resolved buildings.
func UniqueAddresses(buildings []ResolvedBuilding) int {
	seen := make(map[string]struct{}, len(buildings))
	for _, b := range buildings {
		seen[b.StreetAddress] = struct{}{}
	}

	return len(seen)
}
