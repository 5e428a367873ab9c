package rtm

// Station is the logical union of stop identifiers that constitute one
// physical place across operators.
type Station struct {
	DisplayName   string   `json:"displayName" groups:"basic"`
	City          string   `json:"city" groups:"basic"`
	Country       string   `json:"country" groups:"basic"`
	MemberStopIDs []string `json:"memberStopIds" groups:"basic"`
	Operators     []string `json:"operators" groups:"basic"`
	Latitude      float64  `json:"lat" groups:"basic"`
	Longitude     float64  `json:"lon" groups:"basic"`
}

// CityKey identifies the metropolitan grouping a station belongs to.
type CityKey struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

func (s *Station) CityKey() CityKey {
	return CityKey{City: s.City, Country: s.Country}
}

// CityGroup is a set of ≥2 stations sharing the same (city, country)
// key, exposed for "search from city" queries.
type CityGroup struct {
	City     string     `json:"city" groups:"basic"`
	Country  string     `json:"country" groups:"basic"`
	Stations []*Station `json:"stations" groups:"detailed"`
}

// StationIndex is the full list of logical stations plus lookup maps
// derived from it. Stations partition the stop universe almost
// completely; leftover stops form orphan stations, one per normalized
// stop name.
type StationIndex struct {
	Stations []*Station

	StationByStop map[string]*Station
	CityGroups    map[CityKey]*CityGroup
}

// BuildLookups populates StationByStop and CityGroups from Stations.
func (index *StationIndex) BuildLookups() {
	index.StationByStop = map[string]*Station{}
	index.CityGroups = map[CityKey]*CityGroup{}

	cityStations := map[CityKey][]*Station{}

	for _, station := range index.Stations {
		for _, stopID := range station.MemberStopIDs {
			index.StationByStop[stopID] = station
		}

		if station.City != "" {
			key := station.CityKey()
			cityStations[key] = append(cityStations[key], station)
		}
	}

	for key, stations := range cityStations {
		if len(stations) < 2 {
			continue
		}

		index.CityGroups[key] = &CityGroup{
			City:     key.City,
			Country:  key.Country,
			Stations: stations,
		}
	}
}

// CityKeyForStop returns the (city, country) key of the station a stop
// belongs to, or false when the stop is unassigned.
func (index *StationIndex) CityKeyForStop(stopID string) (CityKey, bool) {
	station := index.StationByStop[stopID]
	if station == nil {
		return CityKey{}, false
	}

	return station.CityKey(), true
}
