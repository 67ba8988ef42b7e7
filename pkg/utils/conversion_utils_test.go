package utils

import "testing"

func TestInt64ToStr(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{42, "42"},
		{-7, "-7"},
		{9223372036854775807, "9223372036854775807"},
	}
	for _, tt := range tests {
		if got := Int64ToStr(tt.in); got != tt.want {
			t.Errorf("Int64ToStr(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStrToInt64(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"0", 0, false},
		{"123", 123, false},
		{"-45", -45, false},
		{"", 0, true},
		{"12abc", 0, true},
		{"1.5", 0, true},
	}
	for _, tt := range tests {
		got, err := StrToInt64(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("StrToInt64(%q) expected error, got %d", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("StrToInt64(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("StrToInt64(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"\t\n", true},
		{"x", false},
		{"  x  ", false},
	}
	for _, tt := range tests {
		if got := IsEmpty(tt.in); got != tt.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
