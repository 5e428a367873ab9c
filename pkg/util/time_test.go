package util

import "testing"

func TestParseFeedTime(t *testing.T) {
	testCases := []struct {
		value   string
		seconds int
		wantErr bool
	}{
		{"07:00:00", 25200, false},
		{"7:05:30", 25530, false},
		{"26:05:00", 93900, false},
		{"00:00:00", 0, false},
		{"12:00", 0, true},
		{"garbage", 0, true},
		{"", 0, true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.value, func(t *testing.T) {
			seconds, err := ParseFeedTime(testCase.value)

			if testCase.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", testCase.value)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if seconds != testCase.seconds {
				t.Errorf("got %d, want %d", seconds, testCase.seconds)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	seconds, err := ParseClock("08:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seconds != 30600 {
		t.Errorf("got %d, want 30600", seconds)
	}

	if _, err := ParseClock("25:00"); err == nil {
		t.Error("expected error for out-of-range clock value")
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(25200); got != "07:00" {
		t.Errorf("got %q, want 07:00", got)
	}

	// Past-midnight times wrap for display
	if got := FormatClock(93900); got != "02:05" {
		t.Errorf("got %q, want 02:05", got)
	}
}

func TestHaversineDistance(t *testing.T) {
	// Paris Gare de Lyon to Paris Gare du Nord is roughly 4km
	distance := HaversineDistance(48.8443, 2.3743, 48.8809, 2.3553)

	if distance < 3500 || distance > 4800 {
		t.Errorf("got %f, want roughly 4km", distance)
	}

	if HaversineDistance(48.8443, 2.3743, 48.8443, 2.3743) != 0 {
		t.Error("distance to self should be zero")
	}
}
