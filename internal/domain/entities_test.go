package domain

import "testing"

func TestIsYouTubeURL(t *testing.T) {
	tests := []struct {
		url      string
		expected bool
	}{
		{"https://www.youtube.com/watch?v=abc", true},
		{"https://youtu.be/abc", true},
		{"http://youtube.com/shorts/xyz", true},
		{"https://vimeo.com/12345", false},
		{"https://example.com/youtube-history", false},
		{"", false},
	}

	for _, test := range tests {
		if got := IsYouTubeURL(test.url); got != test.expected {
			t.Errorf("IsYouTubeURL(%q) = %v, expected %v", test.url, got, test.expected)
		}
	}
}

func TestEpisode_Enriched(t *testing.T) {
	tests := []struct {
		name     string
		ep       Episode
		expected bool
	}{
		{"both set", Episode{StreamURL: "s", ThumbnailURL: "t"}, true},
		{"stream only", Episode{StreamURL: "s"}, false},
		{"thumbnail only", Episode{ThumbnailURL: "t"}, false},
		{"neither", Episode{}, false},
	}

	for _, test := range tests {
		if got := test.ep.Enriched(); got != test.expected {
			t.Errorf("%s: Enriched() = %v, expected %v", test.name, got, test.expected)
		}
	}
}

func TestSession_Authenticated(t *testing.T) {
	var nilSession *Session
	if nilSession.Authenticated() {
		t.Error("nil session reports authenticated")
	}
	if (&Session{}).Authenticated() {
		t.Error("empty session reports authenticated")
	}
	if !(&Session{AccessToken: "jwt"}).Authenticated() {
		t.Error("session with token reports unauthenticated")
	}
}

func TestNewServerError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"message key", 400, `{"message":"bad input"}`, "bad input"},
		{"error key", 400, `{"error":"invalid_grant"}`, "invalid_grant"},
		{"error_description key", 400, `{"error_description":"Invalid login credentials"}`, "Invalid login credentials"},
		{"message wins over error", 400, `{"error":"x","message":"y"}`, "y"},
		{"non-json body", 502, "gateway timeout", ""},
		{"empty body", 500, "", ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			e := NewServerError(test.status, []byte(test.body))
			if e.Status != test.status {
				t.Errorf("Status = %d", e.Status)
			}
			if e.Message != test.message {
				t.Errorf("Message = %q, expected %q", e.Message, test.message)
			}
		})
	}
}
