package generic_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/yield-engine/generic"
	"github.com/warp/yield-engine/generic/store"
)

func TestSeries(t *testing.T) {
	// GIVEN: Three business days from Friday 2025-01-03 at 0.04%
	// WHEN: Deriving chart series
	// THEN: Gross is the pre-credit balance, Net the post-credit one,
	//       Variation the daily change, all in cents

	result, err := newEngine(store.NewMemory()).Project(context.Background(),
		input("1000.00", generic.NewDate(2025, time.January, 3), 3), dec("0.0004"))
	require.NoError(t, err)

	s := result.Series()

	assert.Equal(t, []string{"06/01/2025", "07/01/2025", "08/01/2025"}, s.Labels)

	wantGross := []string{"1000", "1000.31", "1000.62"}
	wantNet := []string{"1000.31", "1000.62", "1000.93"}
	require.Len(t, s.Gross, 3)
	require.Len(t, s.Net, 3)
	require.Len(t, s.Variation, 3)
	for i := range wantGross {
		assert.True(t, s.Gross[i].Equal(dec(wantGross[i])), "gross[%d] = %s", i, s.Gross[i])
		assert.True(t, s.Net[i].Equal(dec(wantNet[i])), "net[%d] = %s", i, s.Net[i])
		assert.True(t, s.Variation[i].Equal(dec("0.31")), "variation[%d] = %s", i, s.Variation[i])
	}
}

func TestSeries_Empty(t *testing.T) {
	s := (&generic.ProjectionResult{}).Series()
	assert.Empty(t, s.Labels)
	assert.NotNil(t, s.Gross)
}
