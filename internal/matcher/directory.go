package matcher

import (
	"github.com/prlpayroll/timecard/internal/model"
)

// Directory is the loaded mapping from canonical worker name to pay rate.
// Iteration order is insertion order, which keeps fuzzy-match tie-breaking
// deterministic across runs. A Directory is immutable once built; a rate
// reload constructs a new Directory and swaps the reference.
type Directory struct {
	entries map[string]model.RateEntry
	keys    []string
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{entries: make(map[string]model.RateEntry)}
}

// Add inserts a rate entry keyed by the canonical form of raw. When two raw
// names canonicalize identically the later insert wins, keeping the earlier
// entry's position in iteration order.
func (d *Directory) Add(raw string, rate float64) {
	canonical := Normalize(raw)
	if canonical == "" {
		return
	}
	if _, ok := d.entries[canonical]; !ok {
		d.keys = append(d.keys, canonical)
	}
	d.entries[canonical] = model.RateEntry{
		RawName:       raw,
		CanonicalName: canonical,
		Rate:          rate,
	}
}

// Merge applies every entry of other on top of d, last-wins.
func (d *Directory) Merge(other *Directory) {
	for _, key := range other.keys {
		entry := other.entries[key]
		if _, ok := d.entries[key]; !ok {
			d.keys = append(d.keys, key)
		}
		d.entries[key] = entry
	}
}

// LookupExact returns the entry for an already-canonical name.
func (d *Directory) LookupExact(canonical string) (model.RateEntry, bool) {
	entry, ok := d.entries[canonical]
	return entry, ok
}

// Len returns the number of entries.
func (d *Directory) Len() int {
	return len(d.keys)
}

// Entries returns all entries in insertion order.
func (d *Directory) Entries() []model.RateEntry {
	out := make([]model.RateEntry, 0, len(d.keys))
	for _, key := range d.keys {
		out = append(out, d.entries[key])
	}
	return out
}
