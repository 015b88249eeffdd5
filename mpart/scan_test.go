package mpart

import "testing"

func TestFindPattern(t *testing.T) {
	cases := []struct {
		name    string
		window  string
		pattern string
		from    int
		want    int
	}{
		{"found at start", "--Bxyz", "--B", 0, 0},
		{"found mid window", "data\r\n--B", "\r\n--B", 0, 4},
		{"not present", "plain content", "--B", 0, -1},
		{"partial at end", "data\r\n--", "\r\n--B", 0, -1},
		{"offset skips earlier match", "--B..--B", "--B", 1, 5},
		{"offset past end", "--B", "--B", 1, -1},
		{"pattern equals window", "--B", "--B", 0, 0},
		{"empty pattern", "data", "", 0, -1},
		{"empty window", "", "--B", 0, -1},
		{"repeated first byte", "aaab", "aab", 0, 1},
		{"negative from", "x--B", "--B", -3, 1},
	}
	for _, tc := range cases {
		got := findPattern([]byte(tc.window), []byte(tc.pattern), tc.from)
		if got != tc.want {
			t.Fatalf("%s: findPattern(%q, %q, %d) = %d, want %d",
				tc.name, tc.window, tc.pattern, tc.from, got, tc.want)
		}
	}
}
