package match

import "testing"

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: StatusScheduled},
		{in: "  ", want: StatusScheduled},
		{in: "scheduled", want: StatusScheduled},
		{in: "live", want: StatusLive},
		{in: "IN_PLAY", want: StatusLive},
		{in: "HT", want: StatusLive},
		{in: "2H", want: StatusLive},
		{in: " Finished ", want: StatusFinished},
		{in: "FT", want: StatusFinished},
		{in: "AET", want: StatusFinished},
		{in: "pen", want: StatusFinished},
	}

	for _, tt := range tests {
		if got := NormalizeStatus(tt.in); got != tt.want {
			t.Fatalf("NormalizeStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsLiveStatus(t *testing.T) {
	for _, status := range []string{"LIVE", "live", "IN_PLAY", "HT", "1H", "2H", "ET"} {
		if !IsLiveStatus(status) {
			t.Fatalf("expected %q to be live", status)
		}
	}
	for _, status := range []string{"", "SCHEDULED", "FINISHED", "FT"} {
		if IsLiveStatus(status) {
			t.Fatalf("expected %q not to be live", status)
		}
	}
}

func TestIsFinishedStatus(t *testing.T) {
	for _, status := range []string{"FINISHED", "ft", "AET", "PEN"} {
		if !IsFinishedStatus(status) {
			t.Fatalf("expected %q to be finished", status)
		}
	}
	for _, status := range []string{"", "LIVE", "SCHEDULED"} {
		if IsFinishedStatus(status) {
			t.Fatalf("expected %q not to be finished", status)
		}
	}
}
