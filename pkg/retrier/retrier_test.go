package retrier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDelayForDeterministicSchedule(t *testing.T) {
	p := New(
		WithMaxAttempts(3),
		WithBaseDelay(100*time.Millisecond),
		WithMultiplier(2),
		WithJitter(0),
		WithMaxDelay(30*time.Second),
	)

	assert.Equal(t, 100*time.Millisecond, p.DelayFor(1))
	assert.Equal(t, 200*time.Millisecond, p.DelayFor(2))
	assert.Equal(t, 400*time.Millisecond, p.DelayFor(3))
}

func TestDelayForClampsToMaxDelay(t *testing.T) {
	p := New(
		WithBaseDelay(1*time.Second),
		WithMultiplier(10),
		WithJitter(0),
		WithMaxDelay(5*time.Second),
	)

	assert.Equal(t, 1*time.Second, p.DelayFor(1))
	assert.Equal(t, 5*time.Second, p.DelayFor(2))
	assert.Equal(t, 5*time.Second, p.DelayFor(10))
}

func TestDelayForJitterStaysWithinBound(t *testing.T) {
	p := New(
		WithBaseDelay(time.Second),
		WithMultiplier(1),
		WithJitter(0.5),
	)

	for i := 0; i < 100; i++ {
		d := p.DelayFor(1)
		assert.GreaterOrEqual(t, d, 500*time.Millisecond)
		assert.LessOrEqual(t, d, 1500*time.Millisecond)
	}
}

func TestDefaults(t *testing.T) {
	p := New()
	assert.Equal(t, 3, p.MaxAttempts())
	assert.Equal(t, time.Duration(0), p.Budget())
}
