package profileutil

import (
	"regexp"
	"testing"
	"time"
)

func TestRandomColor(t *testing.T) {
	re := regexp.MustCompile(`^#[0-9A-F]{6}$`)
	for i := 0; i < 50; i++ {
		c := RandomColor()
		if !re.MatchString(c) {
			t.Fatalf("RandomColor() = %q, not a #RRGGBB color", c)
		}
	}
}

func TestAge(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		dob  time.Time
		want int
	}{
		{"ten years ago", now.AddDate(-10, 0, 0), 10},
		{"birthday tomorrow", now.AddDate(-10, 0, 1), 9},
		{"born today", now, 0},
		{"future date clamps to zero", now.AddDate(1, 0, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Age(tt.dob); got != tt.want {
				t.Errorf("Age(%s) = %d, want %d", tt.dob.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}
