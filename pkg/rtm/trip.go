package rtm

// StopTime is one scheduled call of a trip at a stop. Times are seconds
// from local midnight and may exceed 86400 for trips crossing midnight.
type StopTime struct {
	StopID        string `json:"stopId" groups:"basic"`
	ArrivalTime   int    `json:"arrivalTime" groups:"basic"`
	DepartureTime int    `json:"departureTime" groups:"basic"`
}

// Trip is one scheduled service instance along a fixed ordered stop
// sequence. After repair its stop times are non-decreasing.
type Trip struct {
	TripID             string     `json:"tripId" groups:"basic"`
	ServiceID          string     `json:"serviceId" groups:"detailed"`
	Operator           string     `json:"operator" groups:"basic"`
	TrainType          string     `json:"trainType" groups:"basic"`
	FirstDepartureTime int        `json:"firstDepartureTime" groups:"basic"`
	StopTimes          []StopTime `json:"stopTimes" groups:"basic"`

	// RouteID is filled in at load time from the route the trip is stored
	// under; it is not part of the persisted trip record.
	RouteID string `json:"-"`
}
