package picker

import "time"

// DefaultDebounce is the delay between the last keystroke and filter application
const DefaultDebounce = 200 * time.Millisecond

// Token stamps one keystroke; only the newest token may fire
type Token uint64

// Pending describes a scheduled filter application
type Pending struct {
	Token Token
	Value string
	Due   time.Time
}

// Debouncer coalesces rapid keystrokes so only the last value is applied.
//
// It holds no timers itself: the caller schedules a wake-up for Pending.Due
// (tea.Tick in the wizard) and hands the token back to Fire. A newer Push makes
// every earlier token stale, which is how a pending application is cancelled.
type Debouncer struct {
	Delay time.Duration

	// Now is the clock, replaceable in tests
	Now func() time.Time

	token   Token
	value   string
	due     time.Time
	waiting bool
}

// NewDebouncer creates a debouncer with the given delay
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		Delay: delay,
		Now:   time.Now,
	}
}

// Push records a keystroke and returns the pending application it schedules
func (d *Debouncer) Push(value string) Pending {
	d.token++
	d.value = value
	d.due = d.Now().Add(d.Delay)
	d.waiting = true
	return Pending{Token: d.token, Value: value, Due: d.due}
}

// Fire returns the value to apply for token. ok is false when the token has been
// superseded or cancelled, or fires before its due time.
func (d *Debouncer) Fire(token Token) (value string, ok bool) {
	if !d.waiting || token != d.token {
		return "", false
	}
	if d.Now().Before(d.due) {
		return "", false
	}
	d.waiting = false
	return d.value, true
}

// Cancel drops any pending application
func (d *Debouncer) Cancel() {
	d.token++
	d.waiting = false
}

// Waiting reports whether an application is pending
func (d *Debouncer) Waiting() bool {
	return d.waiting
}
