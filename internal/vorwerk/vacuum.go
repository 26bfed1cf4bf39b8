package vorwerk

import (
	"strings"

	"vorwerkhome/pkg/robot"

	"go.uber.org/zap"
)

// Icon is the static icon reported by the vacuum entity.
const Icon = "mdi:robot-vacuum-variant"

// Custom cleaning defaults applied when the service call omits a parameter.
const (
	DefaultCustomMode       = 2
	DefaultCustomNavigation = 1
	DefaultCustomCategory   = 4
)

// Vacuum presents a robot's coarse run state and translates commands into
// robot calls. Commands are best-effort and at-most-once: a communication
// failure is logged and swallowed, never returned to the caller, so failures
// are only observable through the next poll or the logs. Every command except
// an unresolvable zone request ends with a coordinator refresh request.
type Vacuum struct {
	robot     robot.Robot
	state     *State
	refresher Refresher
	logger    *zap.Logger

	// Read-only, possibly-stale snapshot of the robot's zones, fetched
	// once at setup and held for the entity's lifetime.
	boundaries []robot.Boundary
}

// NewVacuum creates the vacuum entity for one robot.
func NewVacuum(r robot.Robot, state *State, refresher Refresher, boundaries []robot.Boundary, logger *zap.Logger) *Vacuum {
	return &Vacuum{
		robot:      r,
		state:      state,
		refresher:  refresher,
		logger:     logger.Named("vacuum").With(zap.String("serial", r.Info().Serial)),
		boundaries: boundaries,
	}
}

// Name returns the device name.
func (v *Vacuum) Name() string {
	return v.state.Info().Name
}

// UniqueID returns the robot serial.
func (v *Vacuum) UniqueID() string {
	return v.state.Info().Serial
}

// Icon returns the static entity icon.
func (v *Vacuum) Icon() string {
	return Icon
}

// Available reports availability straight from the cached state.
func (v *Vacuum) Available() bool {
	return v.state.Available()
}

// State returns the coarse run state from the cached poll result.
func (v *Vacuum) State() string {
	return v.state.State()
}

// BatteryLevel returns the cached battery percentage, or nil when it is
// absent. A cached zero counts as absent here; the battery sensor reports
// the raw value instead.
func (v *Vacuum) BatteryLevel() *int {
	level, ok := v.state.BatteryLevel()
	if !ok || level == 0 {
		return nil
	}
	return &level
}

// Attributes returns the extra state attributes, currently only the
// free-text status detail when one is present.
func (v *Vacuum) Attributes() map[string]string {
	attrs := map[string]string{}
	if status := v.state.Status(); status != "" {
		attrs["status"] = status
	}
	return attrs
}

// DeviceInfo returns the grouping metadata for the robot.
func (v *Vacuum) DeviceInfo() DeviceInfo {
	return v.state.DeviceInfo()
}

// Boundaries returns the zone snapshot held by the entity.
func (v *Vacuum) Boundaries() []robot.Boundary {
	return v.boundaries
}

// Start begins cleaning when the robot is idle or docked, resumes when it is
// paused, and otherwise issues no robot call. A refresh is requested in
// every case.
func (v *Vacuum) Start() {
	switch v.state.State() {
	case StateIdle, StateDocked:
		v.call("start_cleaning", func() error {
			return v.robot.StartCleaning(robot.DefaultParams())
		})
	case StatePaused:
		v.call("resume_cleaning", v.robot.ResumeCleaning)
	}
	v.refresher.RequestRefresh()
}

// Pause pauses the robot.
func (v *Vacuum) Pause() {
	v.call("pause_cleaning", v.robot.PauseCleaning)
	v.refresher.RequestRefresh()
}

// ReturnToBase sends the robot back to its dock. A robot that is mid-clean
// must be paused before it accepts the dock command.
func (v *Vacuum) ReturnToBase() {
	if v.state.State() == StateCleaning {
		v.call("pause_cleaning", v.robot.PauseCleaning)
	}
	v.call("send_to_base", v.robot.SendToBase)
	v.refresher.RequestRefresh()
}

// Stop stops the robot.
func (v *Vacuum) Stop() {
	v.call("stop_cleaning", v.robot.StopCleaning)
	v.refresher.RequestRefresh()
}

// Locate makes the robot emit an audible locate beacon.
func (v *Vacuum) Locate() {
	v.call("locate", v.robot.Locate)
	v.refresher.RequestRefresh()
}

// CleanSpot runs a spot cleaning starting from the robot's position.
func (v *Vacuum) CleanSpot() {
	v.call("start_spot_cleaning", v.robot.StartSpotCleaning)
	v.refresher.RequestRefresh()
}

// CustomCleaning starts a cleaning run with explicit parameters. A supplied
// zone name must resolve against the cached boundary list; when it does not,
// the command is dropped before any robot call and no refresh is requested.
func (v *Vacuum) CustomCleaning(mode, navigation, category int, zone string) {
	params := robot.CleaningParams{
		Mode:       mode,
		Navigation: navigation,
		Category:   category,
	}

	if zone != "" {
		boundaryID, ok := v.resolveZone(zone)
		if !ok {
			v.logger.Error("Zone not found for robot",
				zap.String("zone", zone))
			return
		}
		v.logger.Info("Starting zone cleaning",
			zap.String("zone", zone),
			zap.String("boundary_id", boundaryID))
		params.BoundaryID = boundaryID
	}

	v.call("start_cleaning", func() error {
		return v.robot.StartCleaning(params)
	})
	v.refresher.RequestRefresh()
}

// resolveZone maps a user-supplied zone name onto a boundary id. Matching is
// substring containment against the boundary name; the first match in stored
// order wins.
func (v *Vacuum) resolveZone(zone string) (string, bool) {
	for _, b := range v.boundaries {
		if strings.Contains(b.Name, zone) {
			return b.ID, true
		}
	}
	return "", false
}

// call dispatches one robot command. Communication failures are logged with
// entity context and swallowed; success is implicit in the next poll.
func (v *Vacuum) call(op string, fn func() error) {
	if err := fn(); err != nil {
		v.logger.Error("Robot connection error",
			zap.String("op", op),
			zap.Error(err))
	}
}
