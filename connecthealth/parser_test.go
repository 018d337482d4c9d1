package connecthealth

import "testing"

func TestParseBaseURL_Valid(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://connect:8083", "http://connect:8083"},
		{"http://connect:8083/", "http://connect:8083"},
		{"https://connect.example.com", "https://connect.example.com"},
		{"HTTPS://connect:8443//", "https://connect:8443"},
		{"http://gateway/kafka-connect/", "http://gateway/kafka-connect"},
		{"  http://127.0.0.1:8083  ", "http://127.0.0.1:8083"},
		{"http://[::1]:8083", "http://[::1]:8083"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBaseURL(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseBaseURL(%q) = %q, expected %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseBaseURL_Invalid(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"connect:8083",
		"://connect",
		"ftp://connect:8083",
		"http://",
		"http://connect:",
		"http://connect:8083?x=1",
		"http://connect:8083#frag",
		"http://conn ect:8083",
	}

	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			if got, err := ParseBaseURL(in); err == nil {
				t.Errorf("ParseBaseURL(%q) = %q, expected error", in, got)
			}
		})
	}
}
