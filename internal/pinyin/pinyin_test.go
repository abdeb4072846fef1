package pinyin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadings(t *testing.T) {
	a := NewAnnotator()

	assert.Contains(t, a.Readings('好'), "hǎo")
	assert.Contains(t, a.Readings('中'), "zhōng")
	assert.Contains(t, a.Reading('善'), "shàn")
}

func TestReadingUnknown(t *testing.T) {
	a := NewAnnotator()

	assert.Nil(t, a.Readings('A'))
	assert.Equal(t, "", a.Reading('。'))
}

func TestReadingJoinsHeteronyms(t *testing.T) {
	a := NewAnnotator()

	readings := a.Readings('好')
	if assert.NotEmpty(t, readings) && len(readings) > 1 {
		assert.Contains(t, a.Reading('好'), "/")
	}
}
