package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenderFilter(t *testing.T) {
	for _, in := range []string{"", "any", "MIXED"} {
		f, err := ParseGenderFilter(in)
		assert.NoError(t, err)
		assert.True(t, f.Allows(GenderMale))
		assert.True(t, f.Allows(GenderFemale))
	}

	f, err := ParseGenderFilter("female")
	assert.NoError(t, err)
	assert.True(t, f.Allows(GenderFemale))
	assert.False(t, f.Allows(GenderMale))

	_, err = ParseGenderFilter("other")
	assert.ErrorIs(t, err, ErrUnknownGender)
}

func TestPowerModel(t *testing.T) {
	pm := DefaultPowerModel()

	assert.Equal(t, 90, pm.Power(LevelAdvanced))
	assert.Equal(t, 80, pm.Power(LevelIntermediate))
	assert.Equal(t, 60, pm.Power(LevelBeginner))
	assert.Equal(t, 50, pm.Power(""))
	assert.Equal(t, 50, pm.Power("PRO"))

	custom := PowerModel{LevelAdvanced: 100}
	assert.Equal(t, 50, custom.Power(LevelCasual))
}
