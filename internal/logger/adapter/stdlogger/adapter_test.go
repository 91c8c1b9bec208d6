package stdlogger_test

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-cms/folio/internal/logger"
	"github.com/folio-cms/folio/internal/logger/adapter/stdlogger"
)

func TestAdapter(t *testing.T) {
	testCases := []struct {
		name     string
		level    string
		contains []string
		missing  []string
	}{
		{
			name:     "info level hides debug",
			level:    "info",
			contains: []string{"test info", "test warning", "test error", "printf sql"},
			missing:  []string{"test debug"},
		},
		{
			name:     "debug level shows everything",
			level:    "debug",
			contains: []string{"test debug", "test info", "printf sql", "\"component\":\"gorm\""},
		},
		{
			name:     "error level",
			level:    "error",
			contains: []string{"test error"},
			missing:  []string{"test info", "test warning", "printf sql"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := captureOutput(t, logger.Log{
				LogLevel:    tc.level,
				ServiceName: "test",
				AppName:     "test",
				Console:     logger.Console{Enabled: true},
			})

			for _, s := range tc.contains {
				assert.Contains(t, out, s)
			}

			for _, s := range tc.missing {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func captureOutput(t *testing.T, cfg logger.Log) string {
	t.Helper()

	stdout := os.Stdout
	stderr := os.Stderr

	r, w, _ := os.Pipe()
	os.Stdout = w
	os.Stderr = w

	require.NoError(t, logger.Init(cfg))

	l := stdlogger.New()
	l.Debugf("stdlogger %s", "test debug")
	l.Infof("stdlogger %s", "test info")
	l.Warningf("stdlogger %s", "test warning")
	l.Errorf("stdlogger %s", "test error")

	stdlogger.NewWithLevel("gorm", zerolog.WarnLevel).Printf("printf %s", "sql")
	stdlogger.NewWithLevel("gorm", zerolog.DebugLevel).Printf("printf %s", "sql debug")

	outC := make(chan string)

	go func() {
		var buf bytes.Buffer

		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	_ = w.Close()
	os.Stdout = stdout
	os.Stderr = stderr

	return <-outC
}
