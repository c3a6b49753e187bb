package booking

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewReferenceCode(t *testing.T) {
	pattern := regexp.MustCompile(`^CB-[0-9A-F]{8}$`)

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		code := NewReferenceCode()
		assert.Regexp(t, pattern, code)
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 90)
}
