package util

import (
	"math/rand"
	"strings"
)

const randCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateRandStringWithUpperLowerNum returns a random alphanumeric string.
func GenerateRandStringWithUpperLowerNum(n int) string {
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		sb.WriteByte(randCharset[rand.Intn(len(randCharset))])
	}
	return sb.String()
}

// SanitizePathName strips characters that break ffmpeg or URL handling.
func SanitizePathName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', '=', ' ':
			return '_'
		}
		return r
	}, name)
}
