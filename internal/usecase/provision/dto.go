package provision

type DoorSpec struct {
	Name string
}

type LcdSpec struct {
	Name string
}

type SensorSpec struct {
	Name     string
	Type     string
	SlotName string
}

type Request struct {
	Doors   []DoorSpec
	Lcds    []LcdSpec
	Sensors []SensorSpec
}

type ProvisionedComponent struct {
	ID   int
	Name string
}

// Result reports the database identity assigned to every component that
// resolved, plus one message per item that did not. Re-provisioning the
// same payload yields the same ids.
type Result struct {
	Doors   []ProvisionedComponent
	Lcds    []ProvisionedComponent
	Sensors []ProvisionedComponent

	Failures []string
}

// Success reports whether every declared item resolved.
func (r *Result) Success() bool {
	return len(r.Failures) == 0
}
