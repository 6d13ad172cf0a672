package charset

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDetector_Detect(t *testing.T) {
	d := NewDetector("utf-8", 4096, 0, nil)

	t.Run("all zero bytes fall back to default", func(t *testing.T) {
		t.Parallel()
		if got := d.Detect(make([]byte, 512)); got != "utf-8" {
			t.Errorf("Detect(zeros) = %q, want utf-8", got)
		}
	})

	t.Run("empty sample falls back to default", func(t *testing.T) {
		t.Parallel()
		if got := d.Detect(nil); got != "utf-8" {
			t.Errorf("Detect(nil) = %q, want utf-8", got)
		}
	})

	t.Run("control bytes only fall back to default", func(t *testing.T) {
		t.Parallel()
		if got := d.Detect([]byte{0x01, 0x02, 0x00, 0x1b, 0x7f}); got != "utf-8" {
			t.Errorf("Detect(control) = %q, want utf-8", got)
		}
	})

	t.Run("multibyte utf-8 is recognized", func(t *testing.T) {
		t.Parallel()
		sample := []byte(strings.Repeat("Привет, это текст в UTF-8! ", 8))
		if got := d.Detect(sample); got != "utf-8" {
			t.Errorf("Detect(cyrillic utf-8) = %q, want utf-8", got)
		}
	})

	t.Run("result always decodes", func(t *testing.T) {
		t.Parallel()
		samples := [][]byte{
			[]byte("Hello, this is ASCII text!"),
			{'B', 'o', 'n', 'j', 'o', 'u', 'r', ' ', 0xE9, 't', 0xE9, '!'},
			bytes.Repeat([]byte{0xff, 0xfe, 0x00}, 40),
		}
		for _, s := range samples {
			name := d.Detect(s)
			if _, ok := Canonical(name); !ok {
				t.Errorf("Detect(%q) = %q, which has no decoder", s, name)
			}
		}
	})
}

func TestDetector_ConfidenceThreshold(t *testing.T) {
	t.Parallel()
	// No detector result can exceed 100, so every sample falls back.
	d := NewDetector("iso-8859-1", 0, 101, nil)
	if got := d.Detect([]byte(strings.Repeat("Привет ", 20))); got != "iso-8859-1" {
		t.Errorf("Detect() = %q, want configured default iso-8859-1", got)
	}
	if d.SampleSize() != DefaultSampleSize {
		t.Errorf("SampleSize() = %d, want %d", d.SampleSize(), DefaultSampleSize)
	}
}

func TestNewDetector_UnknownFallback(t *testing.T) {
	t.Parallel()
	d := NewDetector("no-such-charset", 16, 0, nil)
	if d.Default() != DefaultEncoding {
		t.Errorf("Default() = %q, want %q", d.Default(), DefaultEncoding)
	}
}

func TestDetector_DetectFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "zeros.bin")
	if err := os.WriteFile(path, make([]byte, 10000), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	d := NewDetector("", 0, 0, nil)
	got, err := d.DetectFile(path)
	if err != nil {
		t.Fatalf("DetectFile() error = %v", err)
	}
	if got != DefaultEncoding {
		t.Errorf("DetectFile() = %q, want %q", got, DefaultEncoding)
	}

	if _, err := d.DetectFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("DetectFile(missing) expected error")
	}
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"UTF-8", "utf-8", true},
		{"latin1", "iso-8859-1", true},
		{"ISO-8859-1", "iso-8859-1", true},
		{"x-no-such-charset", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, ok := Canonical(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Canonical(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	t.Run("latin-1 bytes", func(t *testing.T) {
		t.Parallel()
		got, err := Decode([]byte{'B', 0xE9}, "iso-8859-1")
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if got != "Bé" {
			t.Errorf("Decode() = %q, want %q", got, "Bé")
		}
	})

	t.Run("invalid utf-8 is replaced", func(t *testing.T) {
		t.Parallel()
		got, err := Decode([]byte{'a', 0xff, 'b'}, "utf-8")
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if got != "a�b" {
			t.Errorf("Decode() = %q, want %q", got, "a�b")
		}
	})

	t.Run("unknown encoding errors", func(t *testing.T) {
		t.Parallel()
		if _, err := Decode([]byte("x"), "x-no-such-charset"); err == nil {
			t.Error("Decode() expected error for unknown encoding")
		}
	})
}
