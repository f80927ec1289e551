package domain

// DriverLocation is the canonical record for one driver position event,
// whether it arrived over the tracking stream or was posted by the simulator.
type DriverLocation struct {
	DriverID  int64
	OrderID   int64
	Latitude  float64
	Longitude float64
}
