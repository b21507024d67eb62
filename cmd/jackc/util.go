package main

import "bytes"

// countingWriter counts emitted VM instruction lines for verbose
// reporting, without buffering the content itself.
type countingWriter struct {
	lines int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.lines += bytes.Count(p, []byte("\n"))
	return len(p), nil
}
