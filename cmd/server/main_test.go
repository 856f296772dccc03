package main

import "testing"

func TestFetchTimeoutSeconds(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want int
	}{
		{"unset", "", 300},
		{"valid", "120", 120},
		{"zero", "0", 300},
		{"negative", "-5", 300},
		{"garbage", "soon", 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FETCH_TIMEOUT", tt.env)
			if got := fetchTimeoutSeconds(); got != tt.want {
				t.Errorf("fetchTimeoutSeconds() = %d, want %d", got, tt.want)
			}
		})
	}
}
