package gesture

import "time"

// contact is the in-progress state of one finger.
type contact struct {
	id       int32
	origin   Point
	last     Point
	start    time.Time
	lastSeen time.Time
	phase    Phase

	// Set on the first sample that crosses the distance threshold and never
	// changed afterwards.
	decided bool
	dir     Direction
}

func (c *contact) displacement() Point { return c.last.Sub(c.origin) }

func (c *contact) elapsed() time.Duration { return c.lastSeen.Sub(c.start) }

// contactTable owns every live contact, keyed by id. Entries are removed
// as soon as their Up or Cancelled sample has been dispatched.
type contactTable struct {
	live map[int32]*contact
	max  int
}

func newContactTable(max int) *contactTable {
	return &contactTable{live: make(map[int32]*contact), max: max}
}

// begin registers a new contact. A Down for an id that is already live
// replaces the old record, since the driver only reuses an id after the
// previous session ended. It returns false when the table is full.
func (t *contactTable) begin(s Sample) (*contact, bool) {
	if _, exists := t.live[s.ID]; !exists && t.max > 0 && len(t.live) >= t.max {
		return nil, false
	}
	c := &contact{
		id:       s.ID,
		origin:   s.Pos,
		last:     s.Pos,
		start:    s.Time,
		lastSeen: s.Time,
		phase:    PhaseDown,
	}
	t.live[s.ID] = c
	return c, true
}

// advance records a new position for a known contact.
func (t *contactTable) advance(s Sample) (*contact, bool) {
	c, ok := t.live[s.ID]
	if !ok {
		return nil, false
	}
	c.last = s.Pos
	c.lastSeen = s.Time
	c.phase = s.Phase
	return c, true
}

func (t *contactTable) remove(id int32) bool {
	if _, ok := t.live[id]; !ok {
		return false
	}
	delete(t.live, id)
	return true
}

// evictIdle drops contacts not seen for longer than timeout and returns
// how many were removed.
func (t *contactTable) evictIdle(now time.Time, timeout time.Duration) int {
	if timeout <= 0 {
		return 0
	}
	n := 0
	for id, c := range t.live {
		if now.Sub(c.lastSeen) > timeout {
			delete(t.live, id)
			n++
		}
	}
	return n
}

func (t *contactTable) has(id int32) bool {
	_, ok := t.live[id]
	return ok
}

func (t *contactTable) len() int { return len(t.live) }

func (t *contactTable) reset() { clear(t.live) }
