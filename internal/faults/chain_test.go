package faults

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChain(t *testing.T) {
	root := errors.New("root")
	io := IO("read", "/x", root)
	wrapped := Wrap(NewContext("outer"), io)

	chain := Chain(wrapped)
	require.Len(t, chain, 3)
	assert.Same(t, wrapped, chain[0])
	assert.Same(t, io, chain[1])
	assert.Equal(t, root, chain[2])

	assert.Empty(t, Chain(nil))
}

type loopError struct{}

func (e *loopError) Error() string { return "loop" }
func (e *loopError) Unwrap() error { return e }

func TestChain_Terminates(t *testing.T) {
	chain := Chain(&loopError{})
	assert.Len(t, chain, maxChainDepth)
}

func TestSubject(t *testing.T) {
	inner := NotFound("file", "x")
	err := Wrap(NewContext("a"), Wrap(NewContext("b"), inner))
	assert.Same(t, inner, Subject(err))
	assert.Same(t, inner, Subject(inner))

	empty := &ContextError{}
	assert.Same(t, empty, Subject(empty))
}

func TestContextOf(t *testing.T) {
	outer := NewContext("outer")
	inner := NewContext("inner")
	err := Wrap(outer, Wrap(inner, Style("s")))
	assert.Same(t, outer, ContextOf(err))
	assert.Nil(t, ContextOf(Style("s")))
}

func TestDiagnosticOf(t *testing.T) {
	diag := &DiagnosticResult{
		PrimaryLocation: &ErrorLocation{File: "src/main.rs", Line: 3},
		DiagnosticCode:  "E0382",
	}
	err := Wrap(NewContext("no diag"), Wrap(NewContext("with diag", WithDiagnostic(diag)), Style("s")))

	got := DiagnosticOf(err)
	require.NotNil(t, got)
	assert.Equal(t, "E0382", got.DiagnosticCode)
	assert.Equal(t, 3, got.PrimaryLocation.Line)

	got.PrimaryLocation.Line = 99
	assert.Equal(t, 3, DiagnosticOf(err).PrimaryLocation.Line, "diagnostic must not be mutable through copies")
	assert.Nil(t, DiagnosticOf(Style("s")))
}
