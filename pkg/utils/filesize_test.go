package utils

import "testing"

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{-5, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * MB, "5.0 MB"},
		{int64(2.5 * GB), "2.5 GB"},
		{3 * TB, "3.0 TB"},
	}

	for _, tt := range tests {
		if got := FormatBytes(tt.bytes); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"100B", 100, false},
		{"1KB", 1024, false},
		{"1.5KB", 1536, false},
		{"2MB", 2 * MB, false},
		{"1gb", GB, false},
		{"1T", TB, false},
		{"abc", 0, true},
		{"10XB", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseSize(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSize(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseSize(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestSumSizes(t *testing.T) {
	if got := SumSizes(nil); got != 0 {
		t.Errorf("SumSizes(nil) = %d", got)
	}
	if got := SumSizes([]int64{1, 2, 3}); got != 6 {
		t.Errorf("SumSizes = %d, want 6", got)
	}
}

func TestParseSizeRoundTrip(t *testing.T) {
	for _, size := range []int64{512, 2048, 5 * MB} {
		formatted := FormatBytes(size)
		// FormatBytes puts a space between value and unit; ParseSize
		// accepts the compact form.
		parsed, err := ParseSize(stripSpace(formatted))
		if err != nil {
			t.Errorf("ParseSize(%q) failed: %v", formatted, err)
			continue
		}
		if parsed != size {
			t.Errorf("round trip %d -> %q -> %d", size, formatted, parsed)
		}
	}
}

func stripSpace(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
