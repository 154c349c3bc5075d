package utils

import (
	"net/url"
	"strings"
)

// IsValidURL reports whether str is an absolute http(s) url
func IsValidURL(str string) bool {
	u, err := url.Parse(str)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// Origin returns scheme and host of an absolute http(s) url, or "" if str is none
func Origin(str string) string {
	if !IsValidURL(str) {
		return ""
	}
	u, _ := url.Parse(str)
	return u.Scheme + "://" + u.Host
}

// JoinURL appends path to base without doubling slashes
func JoinURL(base, path string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/")
}
