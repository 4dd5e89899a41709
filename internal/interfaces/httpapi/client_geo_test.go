package httpapi

import (
	"net/http/httptest"
	"testing"
)

func TestResolveClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "fly header wins", headers: map[string]string{"Fly-Client-IP": "203.0.113.7", "X-Real-IP": "198.51.100.1"}, remote: "10.0.0.1:1234", want: "203.0.113.7"},
		{name: "first forwarded hop", headers: map[string]string{"X-Forwarded-For": "198.51.100.2, 10.0.0.2"}, remote: "10.0.0.1:1234", want: "198.51.100.2"},
		{name: "remote addr fallback", remote: "192.0.2.10:5555", want: "192.0.2.10"},
		{name: "garbage ignored", headers: map[string]string{"X-Real-IP": "not-an-ip"}, remote: "192.0.2.11:80", want: "192.0.2.11"},
	}

	for _, tc := range tests {
		req := httptest.NewRequest("GET", "/healthz", nil)
		req.RemoteAddr = tc.remote
		for k, v := range tc.headers {
			req.Header.Set(k, v)
		}
		if got := resolveClientIP(req); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestResolveCountryCode(t *testing.T) {
	req := httptest.NewRequest("GET", "/healthz", nil)
	req.Header.Set("CF-IPCountry", "in")
	if got := resolveCountryCode(req); got != "IN" {
		t.Fatalf("expected IN, got %q", got)
	}

	req = httptest.NewRequest("GET", "/healthz", nil)
	req.Header.Set("CF-IPCountry", "I1")
	if got := resolveCountryCode(req); got != "ZZ" {
		t.Fatalf("expected ZZ fallback, got %q", got)
	}
}
