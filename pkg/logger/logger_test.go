package logger

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestFieldsRenderTypedValues(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	ev := zl.Info()

	for _, f := range []Field{
		String("area", "mayfair"),
		Int("count", 3),
		Int64("rows", 42),
		Float64("velocity_score", 64.99),
		Duration("elapsed", 1500*time.Millisecond),
		Strings("areas", []string{"mayfair", "belgravia"}),
	} {
		f.AddTo(ev)
	}
	ev.Msg("done")

	out := buf.String()
	assert.Contains(t, out, `"area":"mayfair"`)
	assert.Contains(t, out, `"count":3`)
	assert.Contains(t, out, `"rows":42`)
	assert.Contains(t, out, `"velocity_score":64.99`)
	assert.Contains(t, out, `"elapsed":1500`, "durations log as whole milliseconds")
	assert.Contains(t, out, `"areas":"mayfair, belgravia"`)
}
