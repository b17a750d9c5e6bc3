package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqualTitles(t *testing.T) {
	cases := []struct {
		a, b  string
		equal bool
	}{
		{"Shopping", "Shopping", true},
		{"Shopping", "SHOPPING", true},
		{"Shopping", "shopping", true},
		{"résumé", "resume", true},
		{"café", "CAFE", true},
		{"Shopping", "Shoppin", false},
		{"Shopping", "Chores", false},
		{"", "", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.equal, EqualTitles(tc.a, tc.b), "%q vs %q", tc.a, tc.b)
	}
}
