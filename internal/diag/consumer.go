package diag

import "sort"

// Consumer receives finished diagnostics. Implementations may render,
// buffer, wrap, or drop them.
type Consumer interface {
	Consume(d *Diagnostic)
	// Flush releases anything buffered. Safe to call on consumers
	// that buffer nothing.
	Flush()
}

// ErrorTrackingConsumer forwards every diagnostic and remembers
// whether any of them was an error.
type ErrorTrackingConsumer struct {
	next      Consumer
	seenError bool
}

func NewErrorTrackingConsumer(next Consumer) *ErrorTrackingConsumer {
	return &ErrorTrackingConsumer{next: next}
}

func (c *ErrorTrackingConsumer) Consume(d *Diagnostic) {
	c.seenError = c.seenError || d.Level == Error
	c.next.Consume(d)
}

func (c *ErrorTrackingConsumer) Flush() { c.next.Flush() }

// SeenError reports whether any consumed diagnostic had level Error.
func (c *ErrorTrackingConsumer) SeenError() bool { return c.seenError }

func (c *ErrorTrackingConsumer) Reset() { c.seenError = false }

// SortingConsumer buffers diagnostics and forwards them in
// (filename, line, column) order on Flush. Flush must run before the
// consumer goes away; AssertFlushed is the drop-time check.
type SortingConsumer struct {
	next    Consumer
	pending []*Diagnostic
}

func NewSortingConsumer(next Consumer) *SortingConsumer {
	return &SortingConsumer{next: next}
}

func (c *SortingConsumer) Consume(d *Diagnostic) {
	c.pending = append(c.pending, d)
}

func (c *SortingConsumer) Flush() {
	sort.SliceStable(c.pending, func(i, j int) bool {
		li := primaryLocation(c.pending[i])
		lj := primaryLocation(c.pending[j])
		if li.Filename != lj.Filename {
			return li.Filename < lj.Filename
		}
		if li.LineNumber != lj.LineNumber {
			return li.LineNumber < lj.LineNumber
		}
		return li.ColumnNumber < lj.ColumnNumber
	})
	for _, d := range c.pending {
		c.next.Consume(d)
	}
	c.pending = nil
	c.next.Flush()
}

// AssertFlushed panics if buffered diagnostics were never flushed.
func (c *SortingConsumer) AssertFlushed() {
	if len(c.pending) != 0 {
		panic("diag: sorting consumer dropped with unflushed diagnostics")
	}
}

func primaryLocation(d *Diagnostic) Location {
	if len(d.Collections) == 0 || len(d.Collections[0].Messages) == 0 {
		panic("diag: diagnostic with no messages")
	}
	return d.Collections[0].Messages[0].Location
}

// NopConsumer drops everything. Useful for phases that only need the
// error flag.
type NopConsumer struct{}

func (NopConsumer) Consume(*Diagnostic) {}
func (NopConsumer) Flush()              {}
