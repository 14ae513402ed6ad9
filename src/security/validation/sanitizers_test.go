package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripUnprintable(t *testing.T) {
	assert.Equal(t, "hello world", StripUnprintable("hello\x00 world"))
	assert.Equal(t, "line1\nline2", StripUnprintable("line1\nline2"))
}

func TestSanitizeFreeText(t *testing.T) {
	assert.Equal(t, "Axis Bluechip", SanitizeFreeText("  Axis Bluechip \x07 "))
	assert.Equal(t, "", SanitizeFreeText(" \x00 "))
}
