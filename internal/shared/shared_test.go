package shared

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func TestLogger(t *testing.T) {
	t.Run("SetLogLevel", func(t *testing.T) {
		tc := []struct {
			level string
			want  log.Level
		}{
			{level: "debug", want: log.DebugLevel},
			{level: "warn", want: log.WarnLevel},
			{level: " error ", want: log.ErrorLevel},
			{level: "", want: log.InfoLevel},
			{level: "verbose", want: log.InfoLevel},
		}

		for _, tt := range tc {
			t.Run(tt.level, func(t *testing.T) {
				l := NewLogger(&bytes.Buffer{})
				SetLogLevel(l, tt.level)
				if got := l.GetLevel(); got != tt.want {
					t.Errorf("SetLogLevel(%q) = %v, want %v", tt.level, got, tt.want)
				}
			})
		}
	})

	t.Run("WithLogger", func(t *testing.T) {
		var buf bytes.Buffer
		l := WithLogger(NewLogger(&buf), "run", "abc123")
		l.Info("synchronized")

		if !strings.Contains(buf.String(), "run=abc123") {
			t.Errorf("expected child logger fields in output, got %q", buf.String())
		}
	})
}

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("GenerateID() = %q, not a uuid: %v", id, err)
	}
	if id == GenerateID() {
		t.Error("GenerateID() returned the same id twice")
	}
}

func TestMarshalJSON(t *testing.T) {
	v := map[string]int{"affected": 2}

	compact, err := MarshalJSON(v, false)
	if err != nil || string(compact) != `{"affected":2}` {
		t.Errorf("MarshalJSON(compact) = %s, %v", compact, err)
	}

	pretty, err := MarshalJSON(v, true)
	if err != nil || string(pretty) != "{\n  \"affected\": 2\n}" {
		t.Errorf("MarshalJSON(pretty) = %s, %v", pretty, err)
	}
}
