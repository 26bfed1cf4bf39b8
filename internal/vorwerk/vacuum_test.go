package vorwerk

import (
	"fmt"
	"testing"

	"vorwerkhome/pkg/robot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestVacuum(status robot.Status, boundaries []robot.Boundary) (*Vacuum, *robot.Mock, *fakeRefresher) {
	mock := robot.NewMock(testInfo)
	source := &fakeSource{status: status, hasData: true, available: true}
	refresher := &fakeRefresher{}
	vacuum := NewVacuum(mock, NewState(testInfo, source), refresher, boundaries, zap.NewNop())
	return vacuum, mock, refresher
}

func TestVacuum_Identity(t *testing.T) {
	vacuum, _, _ := newTestVacuum(robot.Status{}, nil)

	assert.Equal(t, "Robbie", vacuum.Name())
	assert.Equal(t, "VR300-1234", vacuum.UniqueID())
	assert.Equal(t, "mdi:robot-vacuum-variant", vacuum.Icon())
}

func TestVacuum_SensorAndVacuumShareSerial(t *testing.T) {
	state := NewState(testInfo, &fakeSource{})
	sensor := NewBatterySensor(state)
	vacuum, _, _ := newTestVacuum(robot.Status{}, nil)

	assert.Equal(t, sensor.UniqueID(), vacuum.UniqueID())
	assert.NotEqual(t, sensor.Name(), vacuum.Name())
}

func TestVacuum_Start(t *testing.T) {
	tests := []struct {
		name      string
		status    robot.Status
		wantCalls []string
	}{
		{
			name:      "idle starts cleaning",
			status:    robot.Status{State: robot.StateIdle},
			wantCalls: []string{"start_cleaning"},
		},
		{
			name:      "docked starts cleaning",
			status:    robot.Status{State: robot.StateIdle, IsDocked: true},
			wantCalls: []string{"start_cleaning"},
		},
		{
			name:      "paused resumes",
			status:    robot.Status{State: robot.StatePaused},
			wantCalls: []string{"resume_cleaning"},
		},
		{
			name:      "cleaning issues no call",
			status:    robot.Status{State: robot.StateBusy, Action: robot.ActionHouseCleaning},
			wantCalls: nil,
		},
		{
			name:      "error issues no call",
			status:    robot.Status{State: robot.StateError},
			wantCalls: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vacuum, mock, refresher := newTestVacuum(tt.status, nil)

			vacuum.Start()

			assert.Equal(t, tt.wantCalls, mock.CallNames())
			// A refresh is requested even when no call was dispatched.
			assert.Equal(t, 1, refresher.requests)
		})
	}
}

func TestVacuum_StartUsesDefaultParams(t *testing.T) {
	vacuum, mock, _ := newTestVacuum(robot.Status{State: robot.StateIdle}, nil)

	vacuum.Start()

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, robot.DefaultParams(), calls[0].Params)
}

func TestVacuum_ReturnToBase(t *testing.T) {
	tests := []struct {
		name      string
		status    robot.Status
		wantCalls []string
	}{
		{
			name:      "mid-clean pauses before docking",
			status:    robot.Status{State: robot.StateBusy, Action: robot.ActionHouseCleaning},
			wantCalls: []string{"pause_cleaning", "send_to_base"},
		},
		{
			name:      "idle docks directly",
			status:    robot.Status{State: robot.StateIdle},
			wantCalls: []string{"send_to_base"},
		},
		{
			name:      "paused docks directly",
			status:    robot.Status{State: robot.StatePaused},
			wantCalls: []string{"send_to_base"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vacuum, mock, refresher := newTestVacuum(tt.status, nil)

			vacuum.ReturnToBase()

			assert.Equal(t, tt.wantCalls, mock.CallNames())
			assert.Equal(t, 1, refresher.requests)
		})
	}
}

func TestVacuum_SimpleCommands(t *testing.T) {
	tests := []struct {
		name     string
		invoke   func(v *Vacuum)
		wantCall string
	}{
		{"pause", func(v *Vacuum) { v.Pause() }, "pause_cleaning"},
		{"stop", func(v *Vacuum) { v.Stop() }, "stop_cleaning"},
		{"locate", func(v *Vacuum) { v.Locate() }, "locate"},
		{"clean spot", func(v *Vacuum) { v.CleanSpot() }, "start_spot_cleaning"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vacuum, mock, refresher := newTestVacuum(robot.Status{State: robot.StateBusy}, nil)

			tt.invoke(vacuum)

			assert.Equal(t, []string{tt.wantCall}, mock.CallNames())
			assert.Equal(t, 1, refresher.requests)
		})
	}
}

func TestVacuum_CommandFailureNeverRaises(t *testing.T) {
	// Communication failures are swallowed; the caller sees a normal
	// completion and a refresh is still requested.
	vacuum, mock, refresher := newTestVacuum(robot.Status{State: robot.StateBusy}, nil)
	mock.FailWith("pause_cleaning", fmt.Errorf("pause: %w", robot.ErrCommunication))

	vacuum.Pause()

	assert.Equal(t, []string{"pause_cleaning"}, mock.CallNames())
	assert.Equal(t, 1, refresher.requests)
}

func TestVacuum_ReturnToBaseContinuesAfterPauseFailure(t *testing.T) {
	vacuum, mock, refresher := newTestVacuum(
		robot.Status{State: robot.StateBusy, Action: robot.ActionHouseCleaning}, nil)
	mock.FailWith("pause_cleaning", fmt.Errorf("pause: %w", robot.ErrCommunication))

	vacuum.ReturnToBase()

	assert.Equal(t, []string{"pause_cleaning", "send_to_base"}, mock.CallNames())
	assert.Equal(t, 1, refresher.requests)
}

func TestVacuum_CustomCleaning(t *testing.T) {
	boundaries := []robot.Boundary{
		{ID: "b1", Name: "Kitchen Area"},
		{ID: "b2", Name: "Kitchen Annex"},
		{ID: "b3", Name: "Hallway"},
	}

	t.Run("zone resolves by substring, first match wins", func(t *testing.T) {
		vacuum, mock, refresher := newTestVacuum(robot.Status{State: robot.StateIdle, IsDocked: true}, boundaries)

		vacuum.CustomCleaning(2, 1, 4, "Kitchen")

		calls := mock.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, "start_cleaning", calls[0].Op)
		assert.Equal(t, robot.CleaningParams{Mode: 2, Navigation: 1, Category: 4, BoundaryID: "b1"}, calls[0].Params)
		assert.Equal(t, 1, refresher.requests)
	})

	t.Run("no zone cleans without boundary", func(t *testing.T) {
		vacuum, mock, refresher := newTestVacuum(robot.Status{State: robot.StateIdle}, boundaries)

		vacuum.CustomCleaning(1, 2, 2, "")

		calls := mock.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, robot.CleaningParams{Mode: 1, Navigation: 2, Category: 2}, calls[0].Params)
		assert.Equal(t, 1, refresher.requests)
	})

	t.Run("unknown zone drops the command without a refresh", func(t *testing.T) {
		vacuum, mock, refresher := newTestVacuum(robot.Status{State: robot.StateIdle}, boundaries)

		vacuum.CustomCleaning(2, 1, 4, "Garage")

		assert.Empty(t, mock.Calls())
		assert.Zero(t, refresher.requests)
	})

	t.Run("empty boundary list resolves nothing", func(t *testing.T) {
		vacuum, mock, refresher := newTestVacuum(robot.Status{State: robot.StateIdle}, nil)

		vacuum.CustomCleaning(2, 1, 4, "Kitchen")

		assert.Empty(t, mock.Calls())
		assert.Zero(t, refresher.requests)
	})
}

func TestVacuum_BatteryLevelAbsentForZero(t *testing.T) {
	tests := []struct {
		name   string
		source *fakeSource
		want   *int
	}{
		{
			name:   "no data yet",
			source: &fakeSource{},
			want:   nil,
		},
		{
			name:   "zero charge is absent",
			source: &fakeSource{status: robot.Status{Charge: 0}, hasData: true, available: true},
			want:   nil,
		},
		{
			name:   "positive charge reported",
			source: &fakeSource{status: robot.Status{Charge: 61}, hasData: true, available: true},
			want:   intPtr(61),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := robot.NewMock(testInfo)
			vacuum := NewVacuum(mock, NewState(testInfo, tt.source), &fakeRefresher{}, nil, zap.NewNop())

			assert.Equal(t, tt.want, vacuum.BatteryLevel())
		})
	}
}

func TestVacuum_Attributes(t *testing.T) {
	t.Run("status included when present", func(t *testing.T) {
		vacuum, _, _ := newTestVacuum(robot.Status{State: robot.StateBusy, Action: robot.ActionHouseCleaning}, nil)
		assert.Equal(t, map[string]string{"status": "House Cleaning"}, vacuum.Attributes())
	})

	t.Run("empty before first poll", func(t *testing.T) {
		mock := robot.NewMock(testInfo)
		vacuum := NewVacuum(mock, NewState(testInfo, &fakeSource{}), &fakeRefresher{}, nil, zap.NewNop())
		assert.Empty(t, vacuum.Attributes())
	})
}

func TestVacuum_UnavailablePassthrough(t *testing.T) {
	source := &fakeSource{status: robot.Status{State: robot.StateBusy}, hasData: true, available: false}
	mock := robot.NewMock(testInfo)
	vacuum := NewVacuum(mock, NewState(testInfo, source), &fakeRefresher{}, nil, zap.NewNop())

	assert.False(t, vacuum.Available())
	// Cached fields still project while unavailable.
	assert.Equal(t, StateCleaning, vacuum.State())
}

func intPtr(v int) *int {
	return &v
}
