package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoWritesKeyValues(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", &buf)
	defer Init("test")

	Info("ranked cafes", "count", 3, "trace_id", "abc")

	out := buf.String()
	assert.Contains(t, out, `"message":"ranked cafes"`)
	assert.Contains(t, out, `"count":3`)
	assert.Contains(t, out, `"trace_id":"abc"`)
}

func TestErrorAcceptsBareError(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", &buf)
	defer Init("test")

	Error("Failed to load cafes", errors.New("boom"))

	assert.Contains(t, buf.String(), `"error":"boom"`)
}

func TestDebugSuppressedInProduction(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", &buf)
	defer Init("test")

	Debug("noisy", "k", "v")

	assert.Empty(t, buf.String())
}
