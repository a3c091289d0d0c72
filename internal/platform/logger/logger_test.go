package logger

import "testing"

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"development", "production", "prod", ""} {
		log, err := New(mode)
		if err != nil {
			t.Fatalf("New(%q): %v", mode, err)
		}
		log.With("mode", mode).Debug("logger ready")
	}
	NewNop().Info("discarded", "k", "v")
}
