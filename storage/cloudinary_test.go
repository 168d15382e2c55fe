package storage

import "testing"

func TestPublicID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://res.cloudinary.com/dyfqon1v6/image/upload/v1712997552/zmxorcxexpdbh8r0bkjb.png", "zmxorcxexpdbh8r0bkjb"},
		{"https://res.cloudinary.com/demo/image/upload/sample.jpg", "sample"},
		{"https://example.com/a/b/c/no-extension", "no-extension"},
		{"plain.png", "plain"},
	}

	for _, tt := range tests {
		if got := PublicID(tt.url); got != tt.want {
			t.Errorf("PublicID(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
