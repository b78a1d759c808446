package safeurl

import (
	"net/url"
	"testing"
)

func TestChecker(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		allow []string
		want  bool
	}{
		{"public ip", "https://93.184.216.34/video", nil, true},
		{"loopback ip", "http://127.0.0.1/admin", nil, false},
		{"private ip 10", "http://10.0.0.5/", nil, false},
		{"private ip 192.168", "http://192.168.1.1/", nil, false},
		{"private ip 172.16", "http://172.16.0.1/", nil, false},
		{"link local", "http://169.254.169.254/latest/meta-data", nil, false},
		{"ipv6 loopback", "http://[::1]/", nil, false},
		{"unspecified", "http://0.0.0.0/", nil, false},
		{"file scheme", "file:///etc/passwd", nil, false},
		{"ftp scheme", "ftp://93.184.216.34/", nil, false},
		{"empty host", "https:///path", nil, false},
		{"allow-listed loopback", "http://127.0.0.1/health", []string{"127.0.0.1"}, true},
		{"allow-list is case insensitive", "http://LocalHost/x", []string{"localhost"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.url)
			if err != nil {
				t.Fatalf("parse %q: %v", tt.url, err)
			}
			check := New(tt.allow)
			if got := check(u); got != tt.want {
				t.Errorf("Checker(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestCheckerNilURL(t *testing.T) {
	check := New(nil)
	if check(nil) {
		t.Error("Checker(nil) should be false")
	}
}

func TestCheckerResolvesHostnames(t *testing.T) {
	u, _ := url.Parse("http://localhost/metrics")
	check := New(nil)
	if check(u) {
		t.Error("localhost should be rejected")
	}
}
