package parking

// ParkingSpace is the root aggregate: devices, slots and access
// credentials all point at exactly one parking space.
type ParkingSpace struct {
	ID   int
	Name string
}
