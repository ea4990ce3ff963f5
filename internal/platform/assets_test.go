package platform

import "testing"

func TestImageURL(t *testing.T) {
	cases := []struct {
		base, path, want string
	}{
		{"http://api.local", "", ""},
		{"http://api.local", "https://cdn.example.com/p.jpg", "https://cdn.example.com/p.jpg"},
		{"http://api.local", `uploads\kyc\license.jpg`, "http://api.local/uploads/kyc/license.jpg"},
		{"http://api.local/", "/uploads/p.jpg", "http://api.local/uploads/p.jpg"},
	}
	for _, c := range cases {
		if got := ImageURL(c.base, c.path); got != c.want {
			t.Errorf("ImageURL(%q, %q) = %q, want %q", c.base, c.path, got, c.want)
		}
	}
}

func TestPlaceholderAvatar(t *testing.T) {
	if got := PlaceholderAvatar("Ram Shrestha"); got != "https://ui-avatars.com/api/?name=Ram+Shrestha&background=8B4513&color=fff" {
		t.Errorf("avatar url wrong: %q", got)
	}
	if got := PlaceholderAvatar(""); got != "https://ui-avatars.com/api/?name=User&background=8B4513&color=fff" {
		t.Errorf("empty name fallback wrong: %q", got)
	}
}
