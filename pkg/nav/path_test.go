package nav

import (
	"errors"
	"testing"
)

func TestCanonicalizePath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "/"},
		{"/", "/"},
		{"contact", "/contact"},
		{"/contact/", "/contact"},
		{"//a///b//", "/a/b"},
	}
	for _, tt := range tests {
		got, err := CanonicalizePath(tt.in)
		if err != nil {
			t.Fatalf("CanonicalizePath(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("CanonicalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"/a\\b", "/a\x00"} {
		if _, err := CanonicalizePath(bad); err == nil {
			t.Errorf("CanonicalizePath(%q) accepted", bad)
		}
	}
}

func TestNormalizeBase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/", ""},
		{"app", "/app"},
		{"/app/", "/app"},
		{"/nested/app", "/nested/app"},
	}
	for _, tt := range tests {
		got, err := NormalizeBase(tt.in)
		if err != nil {
			t.Fatalf("NormalizeBase(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("NormalizeBase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"/app?x", "/a/../b", "/a#b"} {
		if _, err := NormalizeBase(bad); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NormalizeBase(%q) error = %v, want ErrInvalidBasePath", bad, err)
		}
	}
}

func TestStripAndJoinBase(t *testing.T) {
	tests := []struct {
		base, path, want string
		ok               bool
	}{
		{"", "/contact", "/contact", true},
		{"/app", "/app", "/", true},
		{"/app", "/app/", "/", true},
		{"/app", "/app/contact", "/contact", true},
		{"/app", "/application", "", false},
		{"/app", "/other", "", false},
	}
	for _, tt := range tests {
		got, ok := StripBase(tt.base, tt.path)
		if ok != tt.ok || got != tt.want {
			t.Errorf("StripBase(%q, %q) = %q, %v; want %q, %v", tt.base, tt.path, got, ok, tt.want, tt.ok)
		}
	}

	if got := JoinBase("/app", "/"); got != "/app/" {
		t.Errorf("JoinBase root = %q", got)
	}
	if got := JoinBase("/app", "/contact"); got != "/app/contact" {
		t.Errorf("JoinBase = %q", got)
	}
	if got := JoinBase("", "/contact"); got != "/contact" {
		t.Errorf("JoinBase without base = %q", got)
	}
}
