package logger

import "testing"

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "debug text", cfg: Config{Level: "debug", Format: "text"}},
		{name: "info json", cfg: Config{Level: "info", Format: "json"}},
		{name: "warn", cfg: Config{Level: "warn"}},
		{name: "error", cfg: Config{Level: "error"}},
		{name: "unknown level falls back", cfg: Config{Level: "chatty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.cfg)
			if l == nil || l.Logger == nil {
				t.Fatal("New returned a nil logger")
			}
		})
	}
}

func TestContextHelpers(t *testing.T) {
	l := Default()

	if l.WithComponent("ingest") == nil {
		t.Error("WithComponent returned nil")
	}
	if l.WithRefresh("job-1") == nil {
		t.Error("WithRefresh returned nil")
	}
	if l.WithPublication("123", "A Title") == nil {
		t.Error("WithPublication returned nil")
	}
}
