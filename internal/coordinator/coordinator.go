// Package coordinator implements the polling coordinator: it periodically
// polls a robot for its state, caches the last successful result for any
// number of consumers, and notifies subscribers after every completed poll.
// A failed poll keeps the previous cached values in place and flips
// availability to false.
package coordinator

import (
	"sync"
	"sync/atomic"
	"time"

	"vorwerkhome/internal/clock"
	"vorwerkhome/pkg/robot"

	"go.uber.org/zap"
)

// Subscription represents an active update subscription.
type Subscription interface {
	Unsubscribe()
}

type subscription struct {
	id    int
	coord *Coordinator
}

func (s *subscription) Unsubscribe() {
	s.coord.unsubscribe(s.id)
}

// Coordinator polls one robot and caches its latest state.
type Coordinator struct {
	robot    robot.Robot
	interval time.Duration
	clk      clock.Clock
	logger   *zap.Logger

	mu        sync.RWMutex
	status    robot.Status
	hasData   bool
	available bool
	lastPoll  time.Time

	subsMu      sync.RWMutex
	subscribers map[int]func()
	nextSubID   int

	polls        atomic.Uint64
	pollFailures atomic.Uint64

	refreshCh chan struct{}
	stopCh    chan struct{}
	stopOnce  sync.Once
	done      chan struct{}
}

// New creates a coordinator for the given robot. The interval controls the
// periodic poll; RequestRefresh schedules an additional out-of-band poll.
func New(r robot.Robot, interval time.Duration, clk clock.Clock, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		robot:       r,
		interval:    interval,
		clk:         clk,
		logger:      logger.Named("coordinator").With(zap.String("serial", r.Info().Serial)),
		subscribers: make(map[int]func()),
		refreshCh:   make(chan struct{}, 1),
		stopCh:      make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Start performs an initial poll and launches the poll loop. It always
// returns nil; a failing robot only manifests as unavailability.
func (c *Coordinator) Start() error {
	c.Refresh()
	go c.loop()
	return nil
}

// Stop terminates the poll loop.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
		<-c.done
	})
}

func (c *Coordinator) loop() {
	defer close(c.done)
	for {
		select {
		case <-c.clk.After(c.interval):
			c.Refresh()
		case <-c.refreshCh:
			c.Refresh()
		case <-c.stopCh:
			return
		}
	}
}

// Refresh polls the robot synchronously and notifies subscribers.
func (c *Coordinator) Refresh() {
	st, err := c.robot.Status()

	c.polls.Add(1)
	c.mu.Lock()
	c.lastPoll = c.clk.Now()
	if err != nil {
		c.available = false
	} else {
		c.status = st
		c.hasData = true
		c.available = true
	}
	c.mu.Unlock()

	if err != nil {
		c.pollFailures.Add(1)
		c.logger.Warn("Poll failed, marking robot unavailable", zap.Error(err))
	}

	c.notify()
}

// RequestRefresh schedules an out-of-band poll. It never blocks; pending
// requests are coalesced into a single poll.
func (c *Coordinator) RequestRefresh() {
	select {
	case c.refreshCh <- struct{}{}:
	default:
	}
}

// Snapshot returns the last successfully polled status. The second return
// value is false until the first successful poll.
func (c *Coordinator) Snapshot() (robot.Status, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status, c.hasData
}

// Available reports whether the most recent poll succeeded.
func (c *Coordinator) Available() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.available
}

// LastPoll returns the time of the most recent poll attempt.
func (c *Coordinator) LastPoll() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastPoll
}

// Stats returns the total number of polls and how many of them failed.
func (c *Coordinator) Stats() (polls, failures uint64) {
	return c.polls.Load(), c.pollFailures.Load()
}

// Subscribe registers fn to run after every completed poll. Callbacks run
// on the polling goroutine and must not block.
func (c *Coordinator) Subscribe(fn func()) Subscription {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()

	c.nextSubID++
	id := c.nextSubID
	c.subscribers[id] = fn
	return &subscription{id: id, coord: c}
}

func (c *Coordinator) unsubscribe(id int) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	delete(c.subscribers, id)
}

func (c *Coordinator) notify() {
	c.subsMu.RLock()
	fns := make([]func(), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		fns = append(fns, fn)
	}
	c.subsMu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}
