package vorwerk

import (
	"time"

	"vorwerkhome/internal/clock"
	"vorwerkhome/internal/coordinator"
	"vorwerkhome/pkg/robot"

	"go.uber.org/zap"
)

// RobotEntry bundles everything built for one robot: the vendor client, its
// coordinator, the shared state projection and the two entities.
type RobotEntry struct {
	Robot       robot.Robot
	Coordinator *coordinator.Coordinator
	State       *State
	Sensor      *BatterySensor
	Vacuum      *Vacuum
}

// Integration is the per-integration context object threaded into everything
// that needs robots, replacing any ambient global registry.
type Integration struct {
	logger  *zap.Logger
	entries []*RobotEntry
}

// Setup builds a coordinator, state projection and both entities for every
// configured robot. The zone list is fetched once here; a robot whose zones
// cannot be fetched still gets its entities, just with no resolvable zones.
func Setup(robots []robot.Robot, interval time.Duration, clk clock.Clock, logger *zap.Logger) *Integration {
	integration := &Integration{logger: logger.Named("vorwerk")}

	for _, r := range robots {
		info := r.Info()
		coord := coordinator.New(r, interval, clk, logger)
		state := NewState(info, coord)

		boundaries, err := r.Boundaries()
		if err != nil {
			integration.logger.Warn("Failed to fetch zone boundaries",
				zap.String("serial", info.Serial),
				zap.Error(err))
			boundaries = nil
		}

		integration.entries = append(integration.entries, &RobotEntry{
			Robot:       r,
			Coordinator: coord,
			State:       state,
			Sensor:      NewBatterySensor(state),
			Vacuum:      NewVacuum(r, state, coord, boundaries, logger),
		})

		integration.logger.Info("Robot configured",
			zap.String("name", info.Name),
			zap.String("serial", info.Serial),
			zap.Int("zones", len(boundaries)))
	}

	return integration
}

// Start launches the coordinator for every robot. The first poll happens
// synchronously, so entities have cached state before anything is surfaced.
func (i *Integration) Start() error {
	for _, e := range i.entries {
		if err := e.Coordinator.Start(); err != nil {
			return err
		}
	}
	return nil
}

// Stop terminates all coordinators.
func (i *Integration) Stop() {
	for _, e := range i.entries {
		e.Coordinator.Stop()
	}
}

// Robots returns the per-robot entries.
func (i *Integration) Robots() []*RobotEntry {
	return i.entries
}

// Entities returns all entities across all robots.
func (i *Integration) Entities() []Entity {
	entities := make([]Entity, 0, 2*len(i.entries))
	for _, e := range i.entries {
		entities = append(entities, e.Sensor, e.Vacuum)
	}
	return entities
}
