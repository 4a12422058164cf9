package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) record(v string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, v)
}

func (r *recorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func TestTrigger_FiresOnceWithLastValue(t *testing.T) {
	var rec recorder
	d := New(30*time.Millisecond, rec.record)

	for _, v := range []string{"o", "oa", "oat"} {
		d.Trigger(v)
		time.Sleep(5 * time.Millisecond)
	}
	assert.True(t, d.Pending())

	assert.Eventually(t, func() bool { return len(rec.get()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, []string{"oat"}, rec.get())
	assert.False(t, d.Pending())
}

func TestTrigger_SeparatedBursts(t *testing.T) {
	var rec recorder
	d := New(10*time.Millisecond, rec.record)

	d.Trigger("a")
	assert.Eventually(t, func() bool { return len(rec.get()) == 1 }, time.Second, 2*time.Millisecond)
	d.Trigger("b")
	assert.Eventually(t, func() bool { return len(rec.get()) == 2 }, time.Second, 2*time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, rec.get())
}

func TestCancel(t *testing.T) {
	var rec recorder
	d := New(20*time.Millisecond, rec.record)

	d.Trigger("a")
	d.Cancel()
	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.get())

	d.Trigger("b")
	assert.Eventually(t, func() bool { return len(rec.get()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestStop_IgnoresLaterTriggers(t *testing.T) {
	var rec recorder
	d := New(10*time.Millisecond, rec.record)

	d.Trigger("a")
	d.Stop()
	d.Trigger("b")
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, rec.get())
	assert.False(t, d.Pending())
}
