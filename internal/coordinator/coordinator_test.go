package coordinator

import (
	"fmt"
	"testing"
	"time"

	"vorwerkhome/internal/clock"
	"vorwerkhome/pkg/robot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCoordinator(t *testing.T, mock *robot.Mock) (*Coordinator, *clock.MockClock) {
	t.Helper()
	clk := clock.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	c := New(mock, time.Minute, clk, zap.NewNop())
	return c, clk
}

func TestCoordinator_InitialPoll(t *testing.T) {
	mock := robot.NewMock(robot.Info{Name: "Robbie", Serial: "VR123"})
	mock.SetStatus(robot.Status{State: robot.StateIdle, Charge: 80, IsDocked: true})

	c, _ := newTestCoordinator(t, mock)
	require.NoError(t, c.Start())
	defer c.Stop()

	st, ok := c.Snapshot()
	require.True(t, ok)
	assert.Equal(t, 80, st.Charge)
	assert.True(t, c.Available())
	assert.Equal(t, 1, mock.StatusCalls())
}

func TestCoordinator_PollFailureKeepsCachedState(t *testing.T) {
	mock := robot.NewMock(robot.Info{Serial: "VR123"})
	mock.SetStatus(robot.Status{State: robot.StateBusy, Charge: 55})

	c, _ := newTestCoordinator(t, mock)
	require.NoError(t, c.Start())
	defer c.Stop()

	require.True(t, c.Available())

	mock.SetStatusError(fmt.Errorf("poll: %w", robot.ErrCommunication))
	c.Refresh()

	// Previous values stay in place, availability flips.
	st, ok := c.Snapshot()
	require.True(t, ok)
	assert.Equal(t, 55, st.Charge)
	assert.False(t, c.Available())

	polls, failures := c.Stats()
	assert.Equal(t, uint64(2), polls)
	assert.Equal(t, uint64(1), failures)

	// Recovery makes the robot available again.
	mock.SetStatus(robot.Status{State: robot.StateBusy, Charge: 54})
	c.Refresh()
	st, _ = c.Snapshot()
	assert.Equal(t, 54, st.Charge)
	assert.True(t, c.Available())
}

func TestCoordinator_NoDataBeforeFirstSuccess(t *testing.T) {
	mock := robot.NewMock(robot.Info{Serial: "VR123"})
	mock.SetStatusError(fmt.Errorf("poll: %w", robot.ErrCommunication))

	c, _ := newTestCoordinator(t, mock)
	require.NoError(t, c.Start())
	defer c.Stop()

	_, ok := c.Snapshot()
	assert.False(t, ok)
	assert.False(t, c.Available())
}

func TestCoordinator_RequestRefresh(t *testing.T) {
	mock := robot.NewMock(robot.Info{Serial: "VR123"})
	mock.SetStatus(robot.Status{State: robot.StateIdle})

	c, _ := newTestCoordinator(t, mock)

	notified := make(chan struct{}, 8)
	c.Subscribe(func() { notified <- struct{}{} })

	require.NoError(t, c.Start())
	defer c.Stop()

	// Initial poll notification.
	waitNotify(t, notified)

	c.RequestRefresh()
	waitNotify(t, notified)

	assert.Equal(t, 2, mock.StatusCalls())
}

func TestCoordinator_PeriodicPoll(t *testing.T) {
	mock := robot.NewMock(robot.Info{Serial: "VR123"})
	mock.SetStatus(robot.Status{State: robot.StateIdle})

	c, clk := newTestCoordinator(t, mock)

	notified := make(chan struct{}, 8)
	c.Subscribe(func() { notified <- struct{}{} })

	require.NoError(t, c.Start())
	defer c.Stop()

	waitNotify(t, notified)

	clk.Advance(time.Minute)
	waitNotify(t, notified)

	assert.Equal(t, 2, mock.StatusCalls())
}

func TestCoordinator_Unsubscribe(t *testing.T) {
	mock := robot.NewMock(robot.Info{Serial: "VR123"})
	mock.SetStatus(robot.Status{State: robot.StateIdle})

	c, _ := newTestCoordinator(t, mock)

	count := 0
	sub := c.Subscribe(func() { count++ })

	require.NoError(t, c.Start())
	defer c.Stop()
	assert.Equal(t, 1, count)

	sub.Unsubscribe()
	c.Refresh()
	assert.Equal(t, 1, count)
}

func waitNotify(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for coordinator notification")
	}
}
