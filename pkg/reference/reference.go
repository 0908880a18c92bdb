// Package reference generates the external references that correlate a local
// payment record with provider charges, polls and webhooks.
package reference

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

const randomLen = 6

const charset = "abcdefghijklmnopqrstuvwxyz0123456789"

// New builds a reference of the form <PREFIX><unix_ms>_<6-char-random>,
// uppercased. The random suffix keeps references generated within the same
// millisecond distinct, so every checkout attempt gets a unique reference.
func New(prefix string) string {
	return strings.ToUpper(fmt.Sprintf("%s%d_%s", prefix, time.Now().UnixMilli(), randomSuffix()))
}

func randomSuffix() string {
	buf := make([]byte, randomLen)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken;
		// fall back to the clock rather than aborting a checkout.
		return fmt.Sprintf("%06d", time.Now().UnixNano()%1000000)
	}
	for i, b := range buf {
		buf[i] = charset[int(b)%len(charset)]
	}
	return string(buf)
}
