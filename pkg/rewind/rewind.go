// Package rewind keeps a fixed-capacity history of encoded save-states
// for scrubbing backward through recently played frames, per spec.md
// §4.7.
package rewind

// Buffer is a fixed-capacity ring of save-state snapshots addressed by
// a reader and a writer index chasing each other around the slice.
// Reader == writer means empty; Push always leaves one slot between
// them by evicting the oldest entry the instant the writer would catch
// up to the reader, so a capacity-N buffer holds at most N-1 snapshots.
type Buffer struct {
	items     [][]byte
	capacity  int
	readerIdx int
	writerIdx int
}

// New creates a Buffer holding up to capacity-1 snapshots before the
// oldest starts getting evicted.
func New(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{items: make([][]byte, capacity), capacity: capacity}
}

// Push records snapshot as the newest entry, evicting the oldest one if
// the buffer was already full.
func (b *Buffer) Push(snapshot []byte) {
	b.items[b.writerIdx] = snapshot
	b.advanceWriter()
	if b.readerIdx == b.writerIdx {
		b.advanceReader()
	}
}

// Pop removes and returns the oldest surviving snapshot (FIFO order).
func (b *Buffer) Pop() ([]byte, bool) {
	if b.readerIdx == b.writerIdx {
		return nil, false
	}
	item := b.items[b.readerIdx]
	b.items[b.readerIdx] = nil
	b.advanceReader()
	return item, true
}

// PopNewest removes and returns the most recently pushed snapshot
// (LIFO order), undoing the last Push. This is the operation an actual
// rewind control drives: "go back one step" pops the newest state off
// without disturbing anything pushed earlier.
func (b *Buffer) PopNewest() ([]byte, bool) {
	if b.readerIdx == b.writerIdx {
		return nil, false
	}
	b.retreatWriter()
	item := b.items[b.writerIdx]
	b.items[b.writerIdx] = nil
	return item, true
}

// Len reports how many snapshots are currently held.
func (b *Buffer) Len() int {
	if b.readerIdx == b.writerIdx {
		return 0
	}
	if b.writerIdx > b.readerIdx {
		return b.writerIdx - b.readerIdx
	}
	return b.capacity - (b.readerIdx - b.writerIdx)
}

func (b *Buffer) advanceReader() {
	b.readerIdx++
	if b.readerIdx >= b.capacity {
		b.readerIdx = 0
	}
}

func (b *Buffer) advanceWriter() {
	b.writerIdx++
	if b.writerIdx >= b.capacity {
		b.writerIdx = 0
	}
}

func (b *Buffer) retreatWriter() {
	if b.writerIdx == 0 {
		b.writerIdx = b.capacity - 1
	} else {
		b.writerIdx--
	}
}
