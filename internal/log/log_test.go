package log

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestHelpers_WriteFields(t *testing.T) {
	l := L()

	var buf bytes.Buffer
	prevOut, prevLevel := l.Out, l.GetLevel()
	l.SetOutput(&buf)
	l.SetLevel(logrus.DebugLevel)
	t.Cleanup(func() {
		l.SetOutput(prevOut)
		l.SetLevel(prevLevel)
	})

	Info(Fields{"mode": "squat"}, "mode switched")
	Debug(nil, "tick")

	out := buf.String()
	assert.Contains(t, out, "mode switched")
	assert.Contains(t, out, "squat")
	assert.Contains(t, out, "tick")
}

func TestInit_IsIdempotent(t *testing.T) {
	first := L()
	second := Init(Options{Level: "debug"})
	assert.Same(t, first, second)
}
