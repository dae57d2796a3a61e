package idle

import "testing"

func TestParseHIDIdleTime(t *testing.T) {
	out := `+-o IOHIDSystem  <class IOHIDSystem, id 0x100000456, registered, matched, active>
    | {
    |   "HIDParameters" = {"EjectDelay"=0}
    |   "HIDIdleTime" = 531319531
    | }
`
	nanos, err := parseHIDIdleTime(out)
	if err != nil {
		t.Fatalf("parseHIDIdleTime: %v", err)
	}
	if nanos != 531319531 {
		t.Errorf("nanos = %d, want 531319531", nanos)
	}
}

func TestParseHIDIdleTime_Missing(t *testing.T) {
	if _, err := parseHIDIdleTime("+-o IORegistryEntry\n"); err == nil {
		t.Error("expected error for output without HIDIdleTime")
	}
}

func TestParseHIDIdleTime_Garbage(t *testing.T) {
	if _, err := parseHIDIdleTime(`"HIDIdleTime" = notanumber`); err == nil {
		t.Error("expected error for non-numeric value")
	}
}

func TestParseMilliseconds(t *testing.T) {
	millis, err := parseMilliseconds("480500\n")
	if err != nil {
		t.Fatalf("parseMilliseconds: %v", err)
	}
	if millis != 480500 {
		t.Errorf("millis = %d, want 480500", millis)
	}

	if _, err := parseMilliseconds("abc"); err == nil {
		t.Error("expected error for non-numeric output")
	}
}

func TestSecondsNeverNegative(t *testing.T) {
	if s := Seconds(); s < 0 {
		t.Errorf("Seconds() = %d, want >= 0", s)
	}
}
