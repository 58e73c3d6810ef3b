package matcher

import "testing"

func TestDirectoryAddAndLookup(t *testing.T) {
	dir := NewDirectory()
	dir.Add("John Smith", 20.0)

	entry, ok := dir.LookupExact("john smith")
	if !ok {
		t.Fatal("expected entry for canonical key")
	}
	if entry.RawName != "John Smith" || entry.Rate != 20.0 {
		t.Errorf("entry = %+v", entry)
	}
	if entry.CanonicalName != "john smith" {
		t.Errorf("CanonicalName = %q", entry.CanonicalName)
	}

	if _, ok := dir.LookupExact("nobody here"); ok {
		t.Error("unexpected entry for unknown key")
	}
}

func TestDirectoryLastWins(t *testing.T) {
	dir := NewDirectory()
	dir.Add("John Smith", 20.0)
	dir.Add("JOHN SMITH", 25.0) // same canonical form

	if dir.Len() != 1 {
		t.Fatalf("Len = %d, want 1", dir.Len())
	}
	entry, _ := dir.LookupExact("john smith")
	if entry.Rate != 25.0 {
		t.Errorf("Rate = %v, want later insert to win", entry.Rate)
	}
	if entry.RawName != "JOHN SMITH" {
		t.Errorf("RawName = %q, want later insert's raw name", entry.RawName)
	}
}

func TestDirectoryBlankNameDropped(t *testing.T) {
	dir := NewDirectory()
	dir.Add("  ", 20.0)
	dir.Add("–––", 20.0)
	if dir.Len() != 0 {
		t.Errorf("Len = %d, want 0 after blank inserts", dir.Len())
	}
}

func TestDirectoryMergeLastWins(t *testing.T) {
	first := NewDirectory()
	first.Add("A Worker", 10.0)
	first.Add("B Worker", 11.0)

	second := NewDirectory()
	second.Add("A Worker", 12.5)

	first.Merge(second)

	entry, _ := first.LookupExact("a worker")
	if entry.Rate != 12.5 {
		t.Errorf("merged rate = %v, want the second source's 12.5", entry.Rate)
	}
	if first.Len() != 2 {
		t.Errorf("Len = %d, want 2", first.Len())
	}
}

func TestDirectoryEntriesInsertionOrder(t *testing.T) {
	dir := NewDirectory()
	names := []string{"Charlie", "Alpha", "Bravo"}
	for i, n := range names {
		dir.Add(n, float64(i))
	}

	entries := dir.Entries()
	if len(entries) != len(names) {
		t.Fatalf("got %d entries, want %d", len(entries), len(names))
	}
	for i, e := range entries {
		if e.RawName != names[i] {
			t.Errorf("entries[%d] = %q, want %q (insertion order)", i, e.RawName, names[i])
		}
	}
}
