package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeetsMinGrade(t *testing.T) {
	assert.True(t, MeetsMinGrade("A", "B-"))
	assert.True(t, MeetsMinGrade("C-", "C-"))
	assert.False(t, MeetsMinGrade("D", "C"))
	assert.False(t, MeetsMinGrade("F", "D-"))
	assert.False(t, MeetsMinGrade("P", "D-"), "unknown grades never satisfy")
}

func TestNewTranscriptDropsNullGrades(t *testing.T) {
	grade := "B+"
	transcript := NewTranscript(map[string]*string{
		"COM SCI|31": &grade,
		"COM SCI|32": nil,
	})

	assert.True(t, transcript.Passed("COM SCI|31"))
	assert.False(t, transcript.Passed("COM SCI|32"))
	assert.False(t, transcript.Passed("MATH|31A"))
}

func TestPassedAtDefaultsToPassingGrade(t *testing.T) {
	transcript := Transcript{"COM SCI|31": "D-", "COM SCI|32": "F"}

	assert.True(t, transcript.PassedAt("COM SCI|31", ""))
	assert.False(t, transcript.PassedAt("COM SCI|31", "C-"))
	assert.False(t, transcript.PassedAt("COM SCI|32", ""))
}
