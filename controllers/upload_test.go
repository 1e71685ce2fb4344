package controllers

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtAllowed(t *testing.T) {
	tests := []struct {
		ext  string
		want bool
	}{
		{".jpg", true},
		{".webp", true},
		{".exe", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := extAllowed(tt.ext, imageExts); got != tt.want {
			t.Errorf("extAllowed(%q) = %v, want %v", tt.ext, got, tt.want)
		}
	}
}

func TestWriteLimitedWithinLimit(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "ok.bin")
	if err := writeLimited(dst, strings.NewReader("meow"), 16); err != nil {
		t.Fatalf("writeLimited: %v", err)
	}
	b, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(b) != "meow" {
		t.Errorf("written content = %q, want %q", b, "meow")
	}
}

// A body that runs past the limit must be reported as too large, not as a
// generic write failure, and leave no partial file behind. Bodies without a
// size hint hit this path instead of the header check.
func TestWriteLimitedOverLimit(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "big.bin")
	err := writeLimited(dst, strings.NewReader(strings.Repeat("x", 32)), 16)
	if !errors.Is(err, errFileTooLarge) {
		t.Fatalf("writeLimited = %v, want errFileTooLarge", err)
	}
	if _, statErr := os.Stat(dst); !os.IsNotExist(statErr) {
		t.Errorf("partial file left behind: %v", statErr)
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name     string
		page     string
		size     string
		wantPage int
		wantSize int
	}{
		{"defaults", "", "", 1, 20},
		{"explicit", "3", "50", 3, 50},
		{"zero page", "0", "10", 1, 10},
		{"oversize clamped", "2", "500", 2, 20},
		{"garbage", "x", "y", 1, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, size := parsePagination(tt.page, tt.size)
			if page != tt.wantPage || size != tt.wantSize {
				t.Errorf("parsePagination(%q, %q) = (%d, %d), want (%d, %d)",
					tt.page, tt.size, page, size, tt.wantPage, tt.wantSize)
			}
		})
	}
}
