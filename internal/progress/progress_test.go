// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package progress

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminalNotATTY(t *testing.T) {
	var buf bytes.Buffer
	p := NewTerminal(&buf)

	p.Start("embed", 2)
	p.Step("a.md")
	p.Step("b.md")
	p.Done()

	assert.Equal(t, "[embed 1/2] a.md\n[embed 2/2] b.md\n", buf.String())
}

func TestTerminalTruncatesToWidth(t *testing.T) {
	var buf bytes.Buffer
	p := NewTerminal(&buf)

	p.Start("calc", 1)
	p.Step(strings.Repeat("x", 200))

	line := strings.TrimSuffix(buf.String(), "\n")
	assert.Len(t, line, DefaultWidth-1)
	assert.True(t, strings.HasSuffix(line, "..."))
}

func TestTerminalPreview(t *testing.T) {
	var buf bytes.Buffer
	p := NewTerminal(&buf)

	p.Preview("post.md", "---\ntitle: x\n---\nbody")
	assert.Equal(t, "+++ post.md +++\n---\ntitle: x\n---\nbody\n", buf.String())
}

func TestFit(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"much too long", 8, "much ..."},
		{"héllo wörld", 8, "héllo..."},
		{"tiny", 2, "tiny"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fit(tt.in, tt.width), tt.in)
	}
}

func TestNopSatisfiesReporter(t *testing.T) {
	var r Reporter = Nop{}
	r.Start("x", 1)
	r.Step("y")
	r.Preview("a", "b")
	r.Done()
}
