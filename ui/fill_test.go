package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFillHeight(t *testing.T) {
	assert.Equal(t, 5, strings.Count(FillHeight("a\nb", 6), "\n")+0)
	assert.Equal(t, "a\nb", FillHeight("a\nb", 1))
	assert.Equal(t, "a", FillHeight("a", 0))
}
