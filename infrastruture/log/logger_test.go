package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	t.Run("Tags levels", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New("APP", "", &buf)
		require.NoError(t, err)

		l.Info("hosting")
		l.Warning("slow peer")
		l.Error("boom")

		out := buf.String()
		assert.Contains(t, out, "[APP]")
		assert.Contains(t, out, "[INFO]")
		assert.Contains(t, out, "hosting")
		assert.Contains(t, out, "[WARNING]")
		assert.Contains(t, out, "[ERROR]")
		assert.Equal(t, 3, bytes.Count(buf.Bytes(), []byte("\n")))
	})

	t.Run("Requires a writer", func(t *testing.T) {
		_, err := New("APP", "", nil)
		assert.Error(t, err)
	})

	t.Run("Discard", func(t *testing.T) {
		Discard().Error("nobody hears this")
	})
}
