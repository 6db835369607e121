package explain

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShellEnvAndPassingType(t *testing.T) {
	s := New()
	var out bytes.Buffer

	s.handleCommand(":env T:+", &out)
	out.Reset()

	s.explainType("T", &out)
	assert.Contains(t, out.String(), "PASS")
}

func TestShellEnvAndFailingType(t *testing.T) {
	s := New()
	var out bytes.Buffer

	s.handleCommand(":env T:-", &out)
	out.Reset()

	// a typedef body is checked under a covariant seed, so a contravariant
	// T used there directly mismatches.
	s.explainType("T", &out)
	assert.Contains(t, out.String(), "FAIL")
	assert.Contains(t, out.String(), "VAR002")
}

func TestShellOracleDeclaration(t *testing.T) {
	s := New()
	var out bytes.Buffer

	s.handleCommand(":oracle Box:-", &out)
	assert.Empty(t, out.String())
	assert.Len(t, s.oracle["Box"], 1)
}

func TestShellUnknownCommand(t *testing.T) {
	s := New()
	var out bytes.Buffer
	s.handleCommand(":bogus", &out)
	assert.Contains(t, out.String(), "unknown command")
}

func TestShellResetClearsEnv(t *testing.T) {
	s := New()
	var out bytes.Buffer
	s.handleCommand(":env T:+", &out)
	s.handleCommand(":reset", &out)
	assert.Empty(t, s.env)
}

func TestShellClassFinalExemptsContravariantThis(t *testing.T) {
	s := New()
	var out bytes.Buffer

	s.handleCommand(":env T:+", &out)
	out.Reset()
	s.handleCommand(":class Widget final", &out)

	s.explainType("function(this): void", &out)
	assert.Contains(t, out.String(), "PASS")
}

func TestShellClassNonFinalCatchesContravariantThis(t *testing.T) {
	s := New()
	var out bytes.Buffer

	s.handleCommand(":env T:+", &out)
	out.Reset()
	s.handleCommand(":class Widget", &out)

	s.explainType("function(this): void", &out)
	assert.Contains(t, out.String(), "VAR003")
}
