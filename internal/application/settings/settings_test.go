package settings

import (
	"testing"
	"time"
)

func TestSettings_RefreshInterval(t *testing.T) {
	tests := []struct {
		name    string
		minutes int
		want    time.Duration
	}{
		{name: "configured", minutes: 30, want: 30 * time.Minute},
		{name: "zero falls back to default", minutes: 0, want: 15 * time.Minute},
		{name: "negative falls back to default", minutes: -5, want: 15 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Settings{RefreshIntervalMinutes: tt.minutes}
			if got := s.RefreshInterval(); got != tt.want {
				t.Errorf("RefreshInterval() = %v, want %v", got, tt.want)
			}
		})
	}
}
