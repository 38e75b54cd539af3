package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/btcsuite/btclog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    btclog.Level
		wantErr bool
	}{
		{"", btclog.LevelInfo, false},
		{"debug", btclog.LevelDebug, false},
		{"WARN", btclog.LevelWarn, false},
		{"off", btclog.LevelOff, false},
		{"loud", btclog.LevelOff, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseLevel(%q) error = %v", tt.in, err)
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestManagerLogger(t *testing.T) {
	var buf bytes.Buffer
	m := New(&buf, btclog.LevelInfo)

	game := m.Logger(SubsystemGame)
	game.Infof("challenge on %d", 1)
	game.Debugf("hidden")

	out := buf.String()
	if !strings.Contains(out, "GAME: challenge on 1") {
		t.Errorf("missing info line in %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line logged at info level: %q", out)
	}

	if m.Logger(SubsystemGame) != game {
		t.Error("Logger returned a different instance for the same tag")
	}

	m.SetLevel(btclog.LevelDebug)
	game.Debugf("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Error("debug line missing after SetLevel")
	}

	m.Logger(SubsystemStore)
	if got := m.Tags(); len(got) != 2 || got[0] != SubsystemGame || got[1] != SubsystemStore {
		t.Errorf("Tags() = %v", got)
	}
}
