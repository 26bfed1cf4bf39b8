package robot

import (
	"sync"
)

// Mock implements Robot for testing. It records every command issued and
// serves scripted status, boundary and error responses.
type Mock struct {
	mu         sync.Mutex
	info       Info
	status     Status
	statusErr  error
	boundaries []Boundary
	boundsErr  error
	failures   map[string]error
	calls      []Call
	statusN    int
}

// Call records a single command dispatched to the mock.
type Call struct {
	Op     string
	Params CleaningParams
}

// NewMock creates a mock robot with the given identity.
func NewMock(info Info) *Mock {
	return &Mock{
		info:     info,
		failures: make(map[string]error),
	}
}

// SetStatus scripts the result of subsequent Status calls.
func (m *Mock) SetStatus(st Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = st
	m.statusErr = nil
}

// SetStatusError makes subsequent Status calls fail.
func (m *Mock) SetStatusError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusErr = err
}

// SetBoundaries scripts the result of Boundaries.
func (m *Mock) SetBoundaries(bs []Boundary, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.boundaries = bs
	m.boundsErr = err
}

// FailWith makes the named command return err.
func (m *Mock) FailWith(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op] = err
}

// Calls returns all recorded commands in dispatch order.
func (m *Mock) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallNames returns the recorded command names in dispatch order.
func (m *Mock) CallNames() []string {
	calls := m.Calls()
	if len(calls) == 0 {
		return nil
	}
	names := make([]string, len(calls))
	for i, c := range calls {
		names[i] = c.Op
	}
	return names
}

// StatusCalls returns how many times Status has been polled.
func (m *Mock) StatusCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statusN
}

// Reset clears recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.statusN = 0
}

func (m *Mock) record(op string, params CleaningParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Op: op, Params: params})
	return m.failures[op]
}

// Info implements Robot.
func (m *Mock) Info() Info {
	return m.info
}

// Status implements Robot.
func (m *Mock) Status() (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusN++
	if m.statusErr != nil {
		return Status{}, m.statusErr
	}
	return m.status, nil
}

// Boundaries implements Robot.
func (m *Mock) Boundaries() ([]Boundary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.boundsErr != nil {
		return nil, m.boundsErr
	}
	out := make([]Boundary, len(m.boundaries))
	copy(out, m.boundaries)
	return out, nil
}

// StartCleaning implements Robot.
func (m *Mock) StartCleaning(params CleaningParams) error {
	return m.record("start_cleaning", params)
}

// ResumeCleaning implements Robot.
func (m *Mock) ResumeCleaning() error {
	return m.record("resume_cleaning", CleaningParams{})
}

// PauseCleaning implements Robot.
func (m *Mock) PauseCleaning() error {
	return m.record("pause_cleaning", CleaningParams{})
}

// StopCleaning implements Robot.
func (m *Mock) StopCleaning() error {
	return m.record("stop_cleaning", CleaningParams{})
}

// SendToBase implements Robot.
func (m *Mock) SendToBase() error {
	return m.record("send_to_base", CleaningParams{})
}

// Locate implements Robot.
func (m *Mock) Locate() error {
	return m.record("locate", CleaningParams{})
}

// StartSpotCleaning implements Robot.
func (m *Mock) StartSpotCleaning() error {
	return m.record("start_spot_cleaning", CleaningParams{})
}
