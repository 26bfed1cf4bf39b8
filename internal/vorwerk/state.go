// Package vorwerk maps cached robot state onto the two entities surfaced to
// the automation platform and translates platform commands into robot calls.
package vorwerk

import (
	"vorwerkhome/pkg/robot"
)

// Coarse run states reported by the vacuum entity.
const (
	StateIdle     = "idle"
	StateCleaning = "cleaning"
	StatePaused   = "paused"
	StateDocked   = "docked"
	StateError    = "error"
)

// StateSource provides the cached result of the most recent poll. It is
// implemented by the coordinator; entities only ever read through it.
type StateSource interface {
	// Snapshot returns the last successfully polled status; false until
	// the first successful poll.
	Snapshot() (robot.Status, bool)

	// Available reports whether the most recent poll succeeded.
	Available() bool
}

// Refresher schedules an out-of-band poll to shorten the staleness window
// after a command.
type Refresher interface {
	RequestRefresh()
}

// DeviceInfo is the identity metadata used to group entities under one
// device on the platform.
type DeviceInfo struct {
	Identifier   string
	Name         string
	Manufacturer string
	Model        string
	SwVersion    string
}

// State projects the coordinator's cached poll result into the derived
// read-only fields the entities report. Entities never see raw status codes.
type State struct {
	info   robot.Info
	source StateSource
}

// NewState creates the projection for one robot.
func NewState(info robot.Info, source StateSource) *State {
	return &State{info: info, source: source}
}

// Info returns the robot's identity.
func (s *State) Info() robot.Info {
	return s.info
}

// Available reports whether the robot responded to the most recent poll.
func (s *State) Available() bool {
	return s.source.Available()
}

// BatteryLevel returns the cached battery percentage. The second return
// value is false until a poll has succeeded at least once.
func (s *State) BatteryLevel() (int, bool) {
	st, ok := s.source.Snapshot()
	if !ok {
		return 0, false
	}
	return st.Charge, true
}

// State returns the coarse run state, or "" before the first successful poll.
func (s *State) State() string {
	st, ok := s.source.Snapshot()
	if !ok {
		return ""
	}
	switch st.State {
	case robot.StateIdle:
		if st.IsDocked {
			return StateDocked
		}
		return StateIdle
	case robot.StateBusy:
		return StateCleaning
	case robot.StatePaused:
		return StatePaused
	case robot.StateError:
		return StateError
	default:
		return StateIdle
	}
}

// Status returns the free-text status detail, or "" when there is none.
func (s *State) Status() string {
	st, ok := s.source.Snapshot()
	if !ok {
		return ""
	}
	switch st.State {
	case robot.StateIdle:
		if st.IsDocked && st.IsCharging {
			return "Charging"
		}
		if st.IsDocked {
			return "Docked"
		}
		return "Stopped"
	case robot.StateBusy:
		return actionLabel(st.Action)
	case robot.StatePaused:
		return "Paused"
	case robot.StateError:
		return errorLabel(st.Error)
	default:
		return ""
	}
}

// DeviceInfo returns the grouping metadata for the robot.
func (s *State) DeviceInfo() DeviceInfo {
	return DeviceInfo{
		Identifier:   s.info.Serial,
		Name:         s.info.Name,
		Manufacturer: "Vorwerk",
		Model:        s.info.Model,
		SwVersion:    s.info.Firmware,
	}
}

var actionLabels = map[int]string{
	robot.ActionHouseCleaning:  "House Cleaning",
	robot.ActionSpotCleaning:   "Spot Cleaning",
	robot.ActionManualCleaning: "Manual Cleaning",
	robot.ActionDocking:        "Docking",
	robot.ActionSuspended:      "Suspended Cleaning",
	robot.ActionMapCleaning:    "Map Cleaning",
}

func actionLabel(action int) string {
	if label, ok := actionLabels[action]; ok {
		return label
	}
	return "Cleaning"
}

// Vendor error tokens with readable labels. Unknown tokens pass through
// unchanged so nothing reported by the robot is lost.
var errorLabels = map[string]string{
	"ui_error_battery_low":       "Battery Low",
	"ui_error_brush_stuck":       "Brush Stuck",
	"ui_error_bumper_stuck":      "Bumper Stuck",
	"ui_error_dust_bin_missing":  "Dust Bin Missing",
	"ui_error_dust_bin_full":     "Dust Bin Full",
	"ui_error_navigation_failed": "Navigation Failed",
	"ui_error_picked_up":         "Picked Up",
	"ui_error_stuck":             "Stuck",
}

func errorLabel(token string) string {
	if token == "" {
		return "Error"
	}
	if label, ok := errorLabels[token]; ok {
		return label
	}
	return token
}
