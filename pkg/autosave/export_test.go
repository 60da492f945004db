package autosave

// Arms returns how many times the guard has been armed.
func (g *Guard) Arms() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.arms
}

// Pending returns the number of scheduled, unfired timers.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, t := range c.timers {
		if !t.done {
			n++
		}
	}
	return n
}
