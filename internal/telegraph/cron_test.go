package telegraph

import (
	"testing"
	"time"
)

func TestNextCronDuration(t *testing.T) {
	now := time.Date(2025, 6, 16, 7, 30, 0, 0, time.Local) // Monday
	tests := []struct {
		name string
		expr string
		want time.Duration
	}{
		{"weekday morning", "0 8 * * 1-5", 30 * time.Minute},
		{"already passed today", "0 7 * * *", 23*time.Hour + 30*time.Minute},
		{"every minute", "* * * * *", time.Minute},
		{"weekend only", "0 8 * * 6", 5*24*time.Hour + 30*time.Minute},
		{"invalid", "not a cron expr", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextCronDuration(tt.expr, now); got != tt.want {
				t.Errorf("nextCronDuration(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}
