package notes

import "sync/atomic"

// Context shares one Table between a settings writer and any number of
// concurrent readers. Retuning builds a complete replacement table and
// publishes it with a single pointer swap, so a reader either sees the
// old table or the new one, never a half-rebuilt mix.
//
// This replaces the global mutable statics of older tuner designs: the
// components that need the table hold a *Context (or a *Table snapshot)
// explicitly.
type Context struct {
	table atomic.Pointer[Table]
}

// NewContext returns a context tuned to the given concert pitch.
func NewContext(concertPitchHz int) *Context {
	c := &Context{}
	c.table.Store(tableFor(concertPitchHz))
	return c
}

// SetConcertPitch rebuilds the table at the new pitch and swaps it in.
func (c *Context) SetConcertPitch(hz int) {
	c.table.Store(tableFor(hz))
}

// tableFor hands out the shared canonical table for the default pitch,
// so an untouched context matches Default exactly instead of picking up
// the rounding a rebuild applies.
func tableFor(hz int) *Table {
	if hz == DefaultConcertPitch {
		return defaultTable
	}
	return New(hz)
}

// Table returns the current snapshot. Callers doing several dependent
// lookups should grab one snapshot and reuse it.
func (c *Context) Table() *Table {
	return c.table.Load()
}

// ConcertPitch returns the pitch of the current snapshot.
func (c *Context) ConcertPitch() int {
	return c.table.Load().ConcertPitch()
}
