package rtm

// RouteInfo describes one logical route: an equivalence class of trips
// sharing an ordered stop sequence. The feed's own route grouping is
// treated as authoritative.
type RouteInfo struct {
	ShortName string `json:"short" groups:"basic"`
	LongName  string `json:"long" groups:"basic"`
	Type      string `json:"type" groups:"detailed"`
	Operator  string `json:"operator" groups:"basic"`
}
