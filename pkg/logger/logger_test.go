package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_JSONConServicioYComponente(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(&buf, Config{Env: "production", Level: "info", Service: "kajamart-admin"})

	cl := l.Component("returns")
	cl.Info().Str("kind", "low").Msg("registro confirmado")
	l.Debug().Msg("no se escribe")

	out := buf.String()
	assert.Contains(t, out, `"service":"kajamart-admin"`)
	assert.Contains(t, out, `"component":"returns"`)
	assert.Contains(t, out, `"message":"registro confirmado"`)
	assert.NotContains(t, out, "no se escribe")
}
