// Package robot defines the vendor-client surface consumed by the rest of
// the system: robot identity, the raw poll result, the imperative command
// set, and a driver registry through which concrete vendor implementations
// are plugged in. The package deliberately owns no network protocol; drivers
// are responsible for authentication and transport.
package robot

// Info is the immutable identity of a robot. Serial is the stable unique
// identifier used throughout the system; Name is for display.
type Info struct {
	Name     string
	Serial   string
	Model    string
	Firmware string
}

// Robot state codes as reported by the vacuum.
const (
	StateIdle   = 1
	StateBusy   = 2
	StatePaused = 3
	StateError  = 4
)

// Action codes qualifying StateBusy.
const (
	ActionHouseCleaning  = 1
	ActionSpotCleaning   = 2
	ActionManualCleaning = 3
	ActionDocking        = 4
	ActionSuspended      = 6
	ActionMapCleaning    = 11
)

// Cleaning modes, navigation modes and categories accepted by StartCleaning.
const (
	ModeEco   = 1
	ModeTurbo = 2

	NavigationNormal    = 1
	NavigationExtraCare = 2
	NavigationDeep      = 3

	CategoryHouse = 2
	CategorySpot  = 3
	CategoryZone  = 4
)

// Status is the raw result of a single state poll. It carries no freshness
// guarantee; consumers cache the last successful value.
type Status struct {
	State      int
	Action     int
	Charge     int
	IsCharging bool
	IsDocked   bool
	// Error is the vendor error token when State is StateError, e.g.
	// "ui_error_brush_stuck".
	Error string
}

// Boundary is a named sub-area of a robot's map that can be targeted for
// zone cleaning.
type Boundary struct {
	ID   string
	Name string
}

// CleaningParams parameterize StartCleaning. A zero BoundaryID means no
// zone restriction.
type CleaningParams struct {
	Mode       int
	Navigation int
	Category   int
	BoundaryID string
}

// DefaultParams returns the parameters used for a plain start command.
func DefaultParams() CleaningParams {
	return CleaningParams{
		Mode:       ModeTurbo,
		Navigation: NavigationNormal,
		Category:   CategoryHouse,
	}
}

// Robot is the imperative interface to one vacuum. All methods block until
// the underlying request completes and return an error wrapping
// ErrCommunication when the robot cannot be reached.
type Robot interface {
	// Info returns the robot's identity. It never performs I/O.
	Info() Info

	// Status polls the robot for its current state.
	Status() (Status, error)

	// Boundaries lists the zones known for the robot's active map.
	Boundaries() ([]Boundary, error)

	StartCleaning(params CleaningParams) error
	ResumeCleaning() error
	PauseCleaning() error
	StopCleaning() error
	SendToBase() error
	Locate() error
	StartSpotCleaning() error
}
