package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTermSequence(t *testing.T) {
	seq, err := TermSequence(
		Term{Season: SeasonFall, Year: 2024},
		Term{Season: SeasonSpring, Year: 2025},
	)
	require.NoError(t, err)

	labels := make([]string, len(seq))
	for i, term := range seq {
		labels[i] = term.Label()
	}
	assert.Equal(t, []string{"Fall 2024", "Winter 2025", "Spring 2025"}, labels)
}

func TestTermSequenceSingleTerm(t *testing.T) {
	seq, err := TermSequence(
		Term{Season: SeasonFall, Year: 2024},
		Term{Season: SeasonFall, Year: 2024},
	)
	require.NoError(t, err)
	require.Len(t, seq, 1)
}

func TestTermSequenceEmptyHorizon(t *testing.T) {
	_, err := TermSequence(
		Term{Season: SeasonSpring, Year: 2025},
		Term{Season: SeasonFall, Year: 2024},
	)
	assert.Error(t, err)
}

func TestTermOrdering(t *testing.T) {
	winter := Term{Season: SeasonWinter, Year: 2025}
	spring := Term{Season: SeasonSpring, Year: 2025}
	fall := Term{Season: SeasonFall, Year: 2024}

	assert.True(t, fall.Before(winter), "Fall 2024 precedes Winter 2025")
	assert.True(t, winter.Before(spring))
	assert.False(t, spring.Before(fall))
}

func TestParseTermLabel(t *testing.T) {
	term, err := ParseTermLabel("Winter 2025")
	require.NoError(t, err)
	assert.Equal(t, Term{Season: SeasonWinter, Year: 2025}, term)

	_, err = ParseTermLabel("Summer 2025")
	assert.Error(t, err)

	_, err = ParseTermLabel("Fall")
	assert.Error(t, err)
}
