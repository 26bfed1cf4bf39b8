package vorwerk

// Sensor metadata reported to the platform.
const (
	BatteryDeviceClass = "battery"
	PercentUnit        = "%"
)

// BatterySensor projects the cached battery level as a percentage-valued
// reading. It is a pure projection: no commands, no mutation, no failure
// modes of its own.
type BatterySensor struct {
	state  *State
	name   string
	serial string
}

// NewBatterySensor creates the battery sensor for one robot.
func NewBatterySensor(state *State) *BatterySensor {
	info := state.Info()
	return &BatterySensor{
		state:  state,
		name:   info.Name + " Battery",
		serial: info.Serial,
	}
}

// Name returns "<device name> Battery".
func (s *BatterySensor) Name() string {
	return s.name
}

// UniqueID returns the robot serial.
func (s *BatterySensor) UniqueID() string {
	return s.serial
}

// Available reports availability straight from the cached state.
func (s *BatterySensor) Available() bool {
	return s.state.Available()
}

// Value returns the raw cached battery percentage, including zero. The
// second return value is false until a poll has succeeded at least once.
func (s *BatterySensor) Value() (int, bool) {
	return s.state.BatteryLevel()
}

// Unit returns the unit of measurement.
func (s *BatterySensor) Unit() string {
	return PercentUnit
}

// DeviceClass returns the platform device class.
func (s *BatterySensor) DeviceClass() string {
	return BatteryDeviceClass
}

// DeviceInfo returns the grouping metadata for the robot.
func (s *BatterySensor) DeviceInfo() DeviceInfo {
	return s.state.DeviceInfo()
}
