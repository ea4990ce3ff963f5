package platform

import (
	"net/url"
	"strings"
)

// ImageURL resolves a profile or KYC asset reference to an absolute URL.
// The backend stores relative upload paths with Windows-style separators.
func ImageURL(baseURL, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	path = strings.ReplaceAll(path, `\`, "/")
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(path, "/")
}

// PlaceholderAvatar returns a generated avatar for accounts without a
// usable profile image. Broken image loads degrade to this too.
func PlaceholderAvatar(name string) string {
	if name == "" {
		name = "User"
	}
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=8B4513&color=fff"
}
