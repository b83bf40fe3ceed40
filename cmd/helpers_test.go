package cmd

import "testing"

func TestCanonicalKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"A@Uni.EDU", "a"},
		{"jdoe42@uni.edu", "jdoe42"},
		{"already-local", "already-local"},
		{"  Trimmed@uni.edu ", "trimmed"},
		{"two@at@signs", "two"},
	}
	for _, tt := range tests {
		if got := canonicalKey(tt.in); got != tt.want {
			t.Errorf("canonicalKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestChannelName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"team-Rocket", "team-rocket"},
		{"team-Blue Team", "team-blue-team"},
		{" team-Aqua ", "team-aqua"},
	}
	for _, tt := range tests {
		if got := channelName(tt.in); got != tt.want {
			t.Errorf("channelName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
