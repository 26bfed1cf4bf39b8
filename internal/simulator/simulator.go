// Package simulator provides an in-memory robot driver so the daemon can run
// without vendor credentials. It registers itself under the "simulated"
// driver name at default priority; a private vendor driver can take the same
// name at override priority.
package simulator

import (
	"sync"

	"vorwerkhome/pkg/robot"

	"go.uber.org/zap"
)

func init() {
	robot.Register(robot.DriverInfo{
		Name:        "simulated",
		Description: "in-memory robot for development and tests",
		Priority:    robot.PriorityDefault,
		Factory:     New,
	})
}

// Simulated is a Robot backed by a small in-memory state machine. Cleaning
// drains the battery one percent per poll; charging on the dock restores it.
type Simulated struct {
	mu     sync.Mutex
	info   robot.Info
	status robot.Status
	logger *zap.Logger
}

// New constructs a simulated robot. Name and serial default when the config
// leaves them empty.
func New(cfg robot.Config, logger *zap.Logger) (robot.Robot, error) {
	info := robot.Info{
		Name:     cfg.Name,
		Serial:   cfg.Serial,
		Model:    "VR300",
		Firmware: "4.5.3-simulated",
	}
	if info.Name == "" {
		info.Name = "Simulated Robot"
	}
	if info.Serial == "" {
		info.Serial = "SIM-0001"
	}

	return &Simulated{
		info: info,
		status: robot.Status{
			State:      robot.StateIdle,
			Charge:     85,
			IsDocked:   true,
			IsCharging: true,
		},
		logger: logger.Named("simulator").With(zap.String("serial", info.Serial)),
	}, nil
}

// Info implements robot.Robot.
func (s *Simulated) Info() robot.Info {
	return s.info
}

// Status implements robot.Robot. Each poll also advances the battery model.
func (s *Simulated) Status() (robot.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.status.State == robot.StateBusy && s.status.Charge > 1:
		s.status.Charge--
	case s.status.IsCharging && s.status.Charge < 100:
		s.status.Charge++
		if s.status.Charge == 100 {
			s.status.IsCharging = false
		}
	}
	return s.status, nil
}

// Boundaries implements robot.Robot with a fixed sample map.
func (s *Simulated) Boundaries() ([]robot.Boundary, error) {
	return []robot.Boundary{
		{ID: "sim-kitchen", Name: "Kitchen"},
		{ID: "sim-living", Name: "Living Room"},
		{ID: "sim-hall", Name: "Hallway"},
	}, nil
}

// StartCleaning implements robot.Robot.
func (s *Simulated) StartCleaning(params robot.CleaningParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	action := robot.ActionHouseCleaning
	switch params.Category {
	case robot.CategorySpot:
		action = robot.ActionSpotCleaning
	case robot.CategoryZone:
		action = robot.ActionMapCleaning
	}

	s.status = robot.Status{
		State:  robot.StateBusy,
		Action: action,
		Charge: s.status.Charge,
	}
	s.logger.Debug("Cleaning started",
		zap.Int("mode", params.Mode),
		zap.Int("category", params.Category),
		zap.String("boundary_id", params.BoundaryID))
	return nil
}

// ResumeCleaning implements robot.Robot.
func (s *Simulated) ResumeCleaning() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.State == robot.StatePaused {
		s.status.State = robot.StateBusy
	}
	return nil
}

// PauseCleaning implements robot.Robot.
func (s *Simulated) PauseCleaning() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.State == robot.StateBusy {
		s.status.State = robot.StatePaused
	}
	return nil
}

// StopCleaning implements robot.Robot.
func (s *Simulated) StopCleaning() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = robot.Status{State: robot.StateIdle, Charge: s.status.Charge}
	return nil
}

// SendToBase implements robot.Robot.
func (s *Simulated) SendToBase() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = robot.Status{
		State:      robot.StateIdle,
		Charge:     s.status.Charge,
		IsDocked:   true,
		IsCharging: s.status.Charge < 100,
	}
	return nil
}

// Locate implements robot.Robot.
func (s *Simulated) Locate() error {
	s.logger.Info("Locate beacon requested")
	return nil
}

// StartSpotCleaning implements robot.Robot.
func (s *Simulated) StartSpotCleaning() error {
	return s.StartCleaning(robot.CleaningParams{
		Mode:       robot.ModeTurbo,
		Navigation: robot.NavigationNormal,
		Category:   robot.CategorySpot,
	})
}
