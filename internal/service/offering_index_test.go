package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bruintracks/bruintracks-go/internal/models"
)

func TestOfferingIndexProbesEveryTerm(t *testing.T) {
	catalog := selectorFixture()
	catalog.addTerm("Winter 2025", 2)
	catalog.addCourse(10, "COM SCI|31", "")
	catalog.addSection(10, 1, lecture(100, "1-LEC", "MW", 10*60, 11*60))
	// Nothing scheduled in Winter.

	courses := map[string]*models.Course{"COM SCI|31": catalog.courses["COM SCI|31"]}
	idx, err := BuildOfferingIndex(context.Background(), catalog, courses,
		[]string{"Fall 2024", "Winter 2025"}, nil)
	require.NoError(t, err)

	assert.True(t, idx.Offered("COM SCI|31", "Fall 2024"))
	assert.False(t, idx.Offered("COM SCI|31", "Winter 2025"))
	assert.False(t, idx.Offered("COM SCI|99", "Fall 2024"), "unknown course offers nowhere")
}

func TestOfferingIndexPlaceholdersAlwaysOffered(t *testing.T) {
	idx, err := BuildOfferingIndex(context.Background(), selectorFixture(), nil, []string{"Fall 2024"}, nil)
	require.NoError(t, err)
	assert.True(t, idx.Offered(models.Filler, "Fall 2024"))
	assert.True(t, idx.Offered(models.Filler, "Summer 2031"))
}

func TestOfferingIndexSkipsUnknownTerms(t *testing.T) {
	catalog := selectorFixture()
	catalog.addCourse(10, "COM SCI|31", "")
	catalog.addSection(10, 1, lecture(100, "1-LEC", "MW", 10*60, 11*60))

	courses := map[string]*models.Course{"COM SCI|31": catalog.courses["COM SCI|31"]}
	idx, err := BuildOfferingIndex(context.Background(), catalog, courses,
		[]string{"Fall 2024", "Fall 1999"}, nil)
	require.NoError(t, err)

	assert.False(t, idx.Offered("COM SCI|31", "Fall 1999"))
	_, ok := idx.TermID("Fall 1999")
	assert.False(t, ok)

	id, ok := idx.TermID("Fall 2024")
	assert.True(t, ok)
	assert.Equal(t, int64(1), id)
}
