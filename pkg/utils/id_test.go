package utils

import (
	"strings"
	"testing"

	"github.com/tj/assert"
)

func TestGenerateID(t *testing.T) {
	a := GenerateID("conn")
	b := GenerateID("conn")

	assert.True(t, strings.HasPrefix(a, "conn_"))
	assert.NotEqual(t, a, b)
	assert.Len(t, GenerateID(""), 36)
}
