package merge

import (
	"slices"
	"strings"
)

// CommitMarker is the entry inserted between groups of statements.
const CommitMarker = "COMMIT;"

// Batch collects generated statements and inserts a COMMIT marker after
// every commitEvery statements.
type Batch struct {
	commitEvery int
	entries     []string
	count       int
	skipped     int
}

// NewBatch creates an empty batch. A commitEvery below 1 uses DefaultCommitEvery.
func NewBatch(commitEvery int) *Batch {
	if commitEvery < 1 {
		commitEvery = DefaultCommitEvery
	}

	return &Batch{commitEvery: commitEvery}
}

// Add appends a statement.
func (b *Batch) Add(statement string) {
	b.entries = append(b.entries, statement)
	b.count++

	if b.count%b.commitEvery == 0 {
		b.entries = append(b.entries, CommitMarker)
	}
}

// Skip records a statement that was not converted. Skips don't count towards
// the commit interval.
func (b *Batch) Skip() {
	b.skipped++
}

// Len returns the number of statements added.
func (b *Batch) Len() int {
	return b.count
}

// Skipped returns the number of skipped statements.
func (b *Batch) Skipped() int {
	return b.skipped
}

// Empty reports whether no statement was added.
func (b *Batch) Empty() bool {
	return b.count == 0
}

// Entries returns statements and commit markers in order, ending with a
// commit marker unless the batch is empty.
func (b *Batch) Entries() []string {
	entries := slices.Clone(b.entries)
	if len(entries) > 0 && entries[len(entries)-1] != CommitMarker {
		entries = append(entries, CommitMarker)
	}

	return entries
}

// String joins the entries with a blank line.
func (b *Batch) String() string {
	return strings.Join(b.Entries(), "\n\n")
}
