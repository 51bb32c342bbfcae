package notify_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/loginlab/internal/notify"
	"github.com/vytor/loginlab/internal/testutil"
)

func TestSlot_ShowThenExpire(t *testing.T) {
	timers := &testutil.ManualTimers{}
	slot := notify.NewSlot(3*time.Second, timers.AfterFunc)

	slot.Show("Section completed: Introduction")

	title, ok := slot.Current()
	require.True(t, ok)
	assert.Equal(t, "Section completed: Introduction", title)
	require.Len(t, timers.Timers(), 1)
	assert.Equal(t, 3*time.Second, timers.Timers()[0].Delay)

	timers.FireAll()

	_, ok = slot.Current()
	assert.False(t, ok)
}

func TestSlot_NewerNotificationCancelsOlderTimer(t *testing.T) {
	timers := &testutil.ManualTimers{}
	slot := notify.NewSlot(0, timers.AfterFunc)

	slot.Show("first")
	slot.Show("second")

	all := timers.Timers()
	require.Len(t, all, 2)
	assert.True(t, all[0].Stopped(), "superseded timer must be cancelled")
	assert.Equal(t, notify.DefaultDisplay, all[1].Delay)

	title, ok := slot.Current()
	assert.True(t, ok)
	assert.Equal(t, "second", title)
}

func TestSlot_StaleCallbackDoesNotClearNewer(t *testing.T) {
	timers := &testutil.ManualTimers{}
	slot := notify.NewSlot(time.Second, timers.AfterFunc)

	slot.Show("first")
	first := timers.Timers()[0]
	slot.Show("second")

	// The first callback was already running when it got superseded.
	timers.Fire(first)

	title, ok := slot.Current()
	assert.True(t, ok)
	assert.Equal(t, "second", title)
}

func TestSlot_Dismiss(t *testing.T) {
	timers := &testutil.ManualTimers{}
	slot := notify.NewSlot(time.Second, timers.AfterFunc)

	slot.Show("hello")
	slot.Dismiss()

	_, ok := slot.Current()
	assert.False(t, ok)
	assert.Equal(t, 0, timers.Armed())
}

func TestSlot_CloseCancelsAndRejectsFurtherShows(t *testing.T) {
	timers := &testutil.ManualTimers{}
	slot := notify.NewSlot(time.Second, timers.AfterFunc)

	slot.Show("pending")
	slot.Close()

	assert.Equal(t, 0, timers.Armed())
	slot.Show("after teardown")
	_, ok := slot.Current()
	assert.False(t, ok)
	assert.Len(t, timers.Timers(), 1, "no timer may be scheduled after Close")
}

func TestSlot_RealTimerExpires(t *testing.T) {
	slot := notify.NewSlot(10*time.Millisecond, nil)
	slot.Show("short lived")

	assert.Eventually(t, func() bool {
		_, ok := slot.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)
}
