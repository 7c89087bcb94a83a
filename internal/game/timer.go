package game

import (
	"sync"
	"time"
)

// TimerManager runs independent countdown timers keyed by room id. Each
// timer re-arms itself every second and recomputes the remaining time from
// the wall clock on every tick, so load-induced scheduling drift never
// accumulates. Per-second callbacks fire on each tick; timeout callbacks
// fire exactly once when the countdown reaches zero.
type TimerManager struct {
	mu    sync.Mutex
	log   Logger
	rooms map[string]*roomTimer
}

type roomTimer struct {
	roomID    string
	start     time.Time
	duration  int // seconds
	arm       *time.Timer
	stopped   bool
	onTimeout []func()
	onTick    []func(remaining int)
}

// NewTimerManager constructs an empty manager that logs callback failures
// through log.
func NewTimerManager(log Logger) *TimerManager {
	return &TimerManager{
		log:   log,
		rooms: make(map[string]*roomTimer),
	}
}

// Start begins a countdown of the given number of seconds for the room,
// replacing any existing timer. Callbacks registered on the replaced timer
// are discarded.
func (m *TimerManager) Start(roomID string, seconds int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.rooms[roomID]; ok {
		prev.stopped = true
		prev.arm.Stop()
	}

	rt := &roomTimer{
		roomID:   roomID,
		start:    time.Now(),
		duration: seconds,
	}
	rt.arm = time.AfterFunc(time.Second, func() { m.tick(rt) })
	m.rooms[roomID] = rt
}

// Stop cancels the room's timer immediately. No further callbacks fire.
// Other rooms' timers are unaffected.
func (m *TimerManager) Stop(roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rt, ok := m.rooms[roomID]
	if !ok {
		return
	}
	rt.stopped = true
	rt.arm.Stop()
	delete(m.rooms, roomID)
}

// Has reports whether a timer is currently running for the room.
func (m *TimerManager) Has(roomID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rooms[roomID]
	return ok
}

// Remaining returns the whole seconds left for the room's timer, or -1 when
// no timer exists.
func (m *TimerManager) Remaining(roomID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	rt, ok := m.rooms[roomID]
	if !ok {
		return -1
	}
	return remainingSeconds(rt, time.Now())
}

// Progress returns how far the countdown has advanced as a percentage in
// [0, 100], or -1 when no timer exists.
func (m *TimerManager) Progress(roomID string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	rt, ok := m.rooms[roomID]
	if !ok {
		return -1
	}
	if rt.duration <= 0 {
		return 100
	}
	remaining := remainingSeconds(rt, time.Now())
	progress := float64(rt.duration-remaining) / float64(rt.duration) * 100
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}

// OnTimeout registers fn to run once when the room's countdown expires. It
// reports false when no timer is running for the room.
func (m *TimerManager) OnTimeout(roomID string, fn func()) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	rt, ok := m.rooms[roomID]
	if !ok {
		return false
	}
	rt.onTimeout = append(rt.onTimeout, fn)
	return true
}

// OnEverySecond registers fn to run on each tick with the remaining whole
// seconds. It reports false when no timer is running for the room.
func (m *TimerManager) OnEverySecond(roomID string, fn func(remaining int)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	rt, ok := m.rooms[roomID]
	if !ok {
		return false
	}
	rt.onTick = append(rt.onTick, fn)
	return true
}

// tick is the re-arm loop body. The next arm is scheduled for the next
// whole-second boundary after start, then callbacks run outside the lock so
// they may start or stop timers themselves.
func (m *TimerManager) tick(rt *roomTimer) {
	m.mu.Lock()
	if m.rooms[rt.roomID] != rt || rt.stopped {
		m.mu.Unlock()
		return
	}

	elapsed := time.Since(rt.start)
	remaining := rt.duration - int(elapsed/time.Second)
	if remaining < 0 {
		remaining = 0
	}

	ticks := append([]func(int){}, rt.onTick...)
	var timeouts []func()
	if remaining <= 0 {
		timeouts = append([]func(){}, rt.onTimeout...)
		rt.stopped = true
		delete(m.rooms, rt.roomID)
	} else {
		next := rt.start.Add(time.Duration(int(elapsed/time.Second)+1) * time.Second)
		rt.arm = time.AfterFunc(time.Until(next), func() { m.tick(rt) })
	}
	m.mu.Unlock()

	for _, fn := range ticks {
		m.invoke(rt.roomID, "every-second", func() { fn(remaining) })
	}
	for _, fn := range timeouts {
		m.invoke(rt.roomID, "timeout", fn)
	}
}

// invoke shields the tick loop from a faulty callback: a panic in one
// callback must not prevent the others from running or kill the timer.
func (m *TimerManager) invoke(roomID, kind string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("timer %s callback panicked for room %s: %v", kind, roomID, r)
		}
	}()
	fn()
}

func remainingSeconds(rt *roomTimer, now time.Time) int {
	remaining := rt.duration - int(now.Sub(rt.start)/time.Second)
	if remaining < 0 {
		return 0
	}
	return remaining
}
