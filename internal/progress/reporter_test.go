package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCIReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewCIReporter(&buf)

	r.Start(2, "Reading documents")
	r.Update(1, "intro.md")
	r.Update(2, "cells.txt")
	r.Finish("Read 2 documents")

	assert.Equal(t, "Reading documents (2 files)\n[1/2] intro.md\n[2/2] cells.txt\nRead 2 documents\n", buf.String())
}

func TestNewReporterInCI(t *testing.T) {
	t.Setenv("CI", "true")
	_, ok := NewReporter().(*CIReporter)
	assert.True(t, ok)
}

func TestTerminalReporterWithoutStart(t *testing.T) {
	r := &TerminalReporter{}
	assert.NotPanics(t, func() {
		r.Update(1, "x")
		r.Finish("")
	})
}
