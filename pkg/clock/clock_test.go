package clock_test

import (
	"testing"
	"time"

	"github.com/julien-sobczak/nimbus2md/pkg/clock"
	"github.com/stretchr/testify/assert"
)

func TestDefaultClock(t *testing.T) {
	t1 := time.Now()
	assert.WithinDuration(t, t1, clock.Now(), 1*time.Second)
}

func TestFreeze(t *testing.T) {
	clock.Freeze()
	defer clock.Unfreeze()
	t1 := clock.Now()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, t1, clock.Now())
}

func TestFastForward(t *testing.T) {
	start := time.Date(2023, time.January, 1, 12, 30, 0, 0, time.UTC)
	c := clock.FreezeAt(start)
	defer clock.Unfreeze()

	c.FastForward(90 * time.Second)
	assert.Equal(t, start.Add(90*time.Second), clock.Now())
	assert.Equal(t, 90*time.Second, clock.Since(start))
}
