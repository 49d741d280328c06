package logger

import (
	"testing"

	"github.com/johamwon/mealOrd/backend/config"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LogConfig
		wantErr bool
	}{
		{"json", config.LogConfig{Level: "info", Format: "json"}, false},
		{"console", config.LogConfig{Level: "debug", Format: "console"}, false},
		{"默认格式", config.LogConfig{Level: "warn"}, false},
		{"非法级别", config.LogConfig{Level: "verbose", Format: "json"}, true},
		{"非法格式", config.LogConfig{Level: "info", Format: "xml"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLogger(&tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("期望 wantErr=%v，实际 err=%v", tt.wantErr, err)
			}
			if l != nil {
				_ = l.Sync()
			}
		})
	}
}
