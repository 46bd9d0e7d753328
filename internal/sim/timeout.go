package sim

// ExpireTimeouts counts every timeout down by dt. An expired timeout removes
// its own entity and everything tied to it, whatever their state. It returns
// the removed IDs in removal order.
func ExpireTimeouts(store *Store, dt float64) []EntityID {
	var removed []EntityID
	for _, id := range store.TimeoutIDs() {
		t, ok := store.timeouts[id]
		if !ok {
			continue // cascaded away by an earlier timeout this tick
		}
		t.TimeLeft -= dt
		if t.TimeLeft > 0 {
			continue
		}
		store.Remove(id)
		removed = append(removed, id)
		for _, tied := range t.TiedTo {
			if store.Remove(tied) {
				removed = append(removed, tied)
			}
		}
	}
	return removed
}
