package test

import "math/rand"

const loginAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789_"

// RandomASCIIString returns a random login-safe string of minLen to maxLen bytes.
func RandomASCIIString(minLen, maxLen int) string {
	minLen = max(minLen, 1)
	maxLen = max(maxLen, minLen)

	buf := make([]byte, minLen+rand.Intn(maxLen-minLen+1))
	for i := range buf {
		buf[i] = loginAlphabet[rand.Intn(len(loginAlphabet))]
	}
	return string(buf)
}
