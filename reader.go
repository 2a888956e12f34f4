package conchash

// acquireTable is the reader-side acquire protocol: bump the hazard
// counter for id first (acquire-ordered), then load the current table
// pointer. Because the increment is acquire-ordered and publication is
// release-ordered, the pair establishes happens-before without needing the
// pointer load itself to be anything stronger than a plain read — any
// writer publish that the increment could possibly have missed is, by
// definition, a publish this goroutine's subsequent load will see instead.
func (t *Table[K, V]) acquireTable(id int) *body[K, V] {
	t.hazards.acquire(id)
	return loadAcquire(&t.current)
}

func (t *Table[K, V]) releaseTable(id int) {
	t.hazards.release(id)
}

func (t *Table[K, V]) checkReaderID(id int) error {
	if id < 0 || id >= t.hazards.size() {
		return ErrReaderIDOutOfRange
	}
	return nil
}

// ApplyToElem looks up key under hazard protection and, if found, invokes
// cb with the matched key and value while still holding the hazard pin.
// Returns whether the key was found. cb must not call back into the table
// under the same reader id; a distinct id is fine.
func (t *Table[K, V]) ApplyToElem(readerID int, key K, cb func(key K, value V)) (bool, error) {
	if err := t.checkReaderID(readerID); err != nil {
		return false, err
	}

	b := t.acquireTable(readerID)
	h := mix(t.hashFn(key), 0)
	idx, found := lookupProbe(b, h, key, t.eqFn, t.cfg.probeLimit)
	if !found {
		t.releaseTable(readerID)
		return false, nil
	}

	fullFence() // acquire fence before reading the matched slot's value
	s := &b.slots[idx]
	cb(s.key, s.value)
	t.releaseTable(readerID)
	return true, nil
}

// ForEach walks the current body's iteration list under hazard protection,
// invoking predicate for every slot whose tag is currently live. Entries
// inserted since the last resize are visited most recent first; a resize
// rebuilds the list in a different order, so no overall order is defined.
// predicate returning false stops the walk early.
func (t *Table[K, V]) ForEach(readerID int, predicate func(key K, value V) bool) error {
	if err := t.checkReaderID(readerID); err != nil {
		return err
	}

	b := t.acquireTable(readerID)
	defer t.releaseTable(readerID)

	idx := b.iterHead.Load()
	for idx != nilLink {
		s := &b.slots[idx]
		next := s.iterNext // consume-order load of next

		if s.isLive() {
			fullFence() // acquire fence before reading key/value
			if !predicate(s.key, s.value) {
				break
			}
		}
		idx = next
	}
	return nil
}
