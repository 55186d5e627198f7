package circuitbreaker

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDown = errors.New("service unavailable")

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(cfg Config) (*CircuitBreaker, *clock) {
	c := &clock{t: time.Unix(1700000000, 0)}
	cb := NewCircuitBreaker("test", cfg)
	cb.now = c.now
	cb.toNewGeneration(c.now())
	return cb, c
}

func fail() error    { return errDown }
func succeed() error { return nil }

func TestCircuitBreaker_StaysClosedOnSuccess(t *testing.T) {
	cb, _ := newTestBreaker(Config{Timeout: 30 * time.Second})
	for i := 0; i < 10; i++ {
		require.NoError(t, cb.Execute(succeed))
	}
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(10), cb.Counts().TotalSuccesses)
}

func TestCircuitBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	cb, _ := newTestBreaker(Config{Timeout: 30 * time.Second})

	for i := 0; i < 4; i++ {
		assert.ErrorIs(t, cb.Execute(fail), errDown)
	}
	assert.Equal(t, StateClosed, cb.State())

	assert.ErrorIs(t, cb.Execute(fail), errDown)
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpenState)
	assert.False(t, called, "熔断时不调用下游")
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb, c := newTestBreaker(Config{
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 1 },
	})

	var transitions []string
	cb.SetStateChangeCallback(func(name string, from, to State) {
		transitions = append(transitions, from.String()+"->"+to.String())
	})

	_ = cb.Execute(fail)
	require.Equal(t, StateOpen, cb.State())

	c.advance(31 * time.Second)
	assert.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, cb.Execute(succeed))
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, []string{"CLOSED->OPEN", "OPEN->HALF_OPEN", "HALF_OPEN->CLOSED"}, transitions)
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb, c := newTestBreaker(Config{
		Timeout:     time.Second,
		ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 1 },
	})
	_ = cb.Execute(fail)
	c.advance(2 * time.Second)

	assert.ErrorIs(t, cb.Execute(fail), errDown)
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_IsSuccessful(t *testing.T) {
	errBadInput := errors.New("bad input")
	cb, _ := newTestBreaker(Config{
		Timeout:      time.Second,
		ReadyToTrip:  func(counts Counts) bool { return counts.ConsecutiveFailures >= 1 },
		IsSuccessful: func(err error) bool { return err == nil || errors.Is(err, errBadInput) },
	})

	assert.ErrorIs(t, cb.Execute(func() error { return errBadInput }), errBadInput)
	assert.Equal(t, StateClosed, cb.State(), "调用方错误不计入故障")
}

func TestCircuitBreaker_IntervalResetsCounts(t *testing.T) {
	cb, c := newTestBreaker(Config{Interval: 10 * time.Second, Timeout: time.Second})
	for i := 0; i < 4; i++ {
		_ = cb.Execute(fail)
	}
	c.advance(11 * time.Second)
	_ = cb.Execute(fail)
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(1), cb.Counts().ConsecutiveFailures)
}

func TestCircuitBreaker_Concurrent(t *testing.T) {
	cb := NewCircuitBreaker("concurrent", Config{Timeout: time.Minute})
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = cb.Execute(succeed)
		}()
	}
	wg.Wait()
	assert.Equal(t, uint32(50), cb.Counts().TotalSuccesses)
}

func TestCounts_FailureRate(t *testing.T) {
	assert.Equal(t, 0.0, Counts{}.FailureRate())
	assert.InDelta(t, 0.25, Counts{Requests: 4, TotalFailures: 1}.FailureRate(), 1e-9)
}
