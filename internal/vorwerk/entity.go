package vorwerk

// Entity is one reported or controllable capability surfaced to the
// automation platform. Both entity kinds report through the shared state
// projection rather than holding any device state of their own.
type Entity interface {
	// Name returns the display name of the entity.
	Name() string

	// UniqueID returns the stable identifier, the robot serial for both
	// entity kinds.
	UniqueID() string

	// Available reports whether the backing robot responded to the most
	// recent poll.
	Available() bool
}
