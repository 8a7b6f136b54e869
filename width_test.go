package wisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGraphemesSegmentsCombiningMarks(t *testing.T) {
	combiningAcute := string(rune(0x0301))
	input := "e" + combiningAcute
	clusters := graphemes(input)
	assert.Equal(t, []string{input}, clusters)
}

func TestGraphemesSegmentsZWJEmoji(t *testing.T) {
	// family emoji: man + ZWJ + woman + ZWJ + girl, one grapheme cluster.
	zwj := string(rune(0x200D))
	family := string(rune(0x1F468)) + zwj + string(rune(0x1F469)) + zwj + string(rune(0x1F467))
	clusters := graphemes(family)
	assert.Len(t, clusters, 1)
}

func TestClusterWidthCJKIsTwo(t *testing.T) {
	assert.Equal(t, 2, clusterWidth(string(rune(0x4E16)))) // 世
}

func TestClusterWidthASCIIIsOne(t *testing.T) {
	assert.Equal(t, 1, clusterWidth("a"))
}

func TestClusterWidthCombiningMarkIsZero(t *testing.T) {
	assert.Equal(t, 0, clusterWidth(string(rune(0x0301))))
}
