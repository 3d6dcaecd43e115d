package api

import "testing"

func TestLimiterSubject(t *testing.T) {
	cases := []struct {
		remoteAddr string
		want       string
	}{
		{"10.0.0.5:52000", "10.0.0.5"},
		{"[::1]:52000", "::1"},
		{"[2001:db8::1]:8080", "2001:db8::1"},
		{"no-port-here", "no-port-here"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := limiterSubject(tc.remoteAddr); got != tc.want {
			t.Errorf("limiterSubject(%q) = %q, want %q", tc.remoteAddr, got, tc.want)
		}
	}
}
