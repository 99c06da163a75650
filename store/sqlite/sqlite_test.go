package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/yield-engine/generic"
	"github.com/warp/yield-engine/generic/store"
	"github.com/warp/yield-engine/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func date(s string) generic.Date {
	d, err := generic.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCachedHolidays_FetchesOncePerYear(t *testing.T) {
	// GIVEN: An upstream with a single 2025 holiday
	// WHEN: The same year is requested twice through the cache
	// THEN: Upstream is called once and both reads return the same list

	ctx := context.Background()
	s := newStore(t)
	upstream := store.NewMemory().
		AddHoliday(generic.Holiday{Date: date("2025-12-25"), Name: "Natal"})

	p := s.CachedHolidays("test", upstream)

	first, err := p.Holidays(ctx, 2025)
	require.NoError(t, err)
	second, err := p.Holidays(ctx, 2025)
	require.NoError(t, err)

	assert.Equal(t, 1, upstream.Calls(2025))
	assert.Equal(t, first, second)
	require.Len(t, second, 1)
	assert.Equal(t, "Natal", second[0].Name)

	years, err := s.CachedYears(ctx, "test")
	require.NoError(t, err)
	assert.Equal(t, []int{2025}, years)
}

func TestCachedHolidays_EmptyYearIsCached(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	upstream := store.NewMemory()
	p := s.CachedHolidays("test", upstream)

	for i := 0; i < 3; i++ {
		hs, err := p.Holidays(ctx, 2031)
		require.NoError(t, err)
		assert.Empty(t, hs)
	}
	assert.Equal(t, 1, upstream.Calls(2031))
}

func TestCachedHolidays_FailureNotCached(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	boom := generic.Unavailable("test", 2025, 503, errors.New("down"))
	upstream := store.NewMemory().FailYear(2025, boom)
	p := s.CachedHolidays("test", upstream)

	_, err := p.Holidays(ctx, 2025)
	assert.ErrorIs(t, err, generic.ErrProviderUnavailable)

	_, err = p.Holidays(ctx, 2025)
	assert.ErrorIs(t, err, generic.ErrProviderUnavailable)
	assert.Equal(t, 2, upstream.Calls(2025))

	years, err := s.CachedYears(ctx, "test")
	require.NoError(t, err)
	assert.Empty(t, years)
}

func TestCachedHolidays_SourcesAreSeparate(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	a := store.NewMemory().AddHoliday(generic.Holiday{Date: date("2025-01-01"), Name: "A"})
	b := store.NewMemory().AddHoliday(generic.Holiday{Date: date("2025-01-02"), Name: "B"})

	ha, err := s.CachedHolidays("a", a).Holidays(ctx, 2025)
	require.NoError(t, err)
	hb, err := s.CachedHolidays("b", b).Holidays(ctx, 2025)
	require.NoError(t, err)

	require.Len(t, ha, 1)
	require.Len(t, hb, 1)
	assert.Equal(t, "A", ha[0].Name)
	assert.Equal(t, "B", hb[0].Name)
}

func TestCustomHolidays_MergedIntoEveryYear(t *testing.T) {
	// GIVEN: A provider holiday, a one-off custom holiday and a recurring one
	// WHEN: Reading 2025 and 2026
	// THEN: The one-off appears only in its year, the recurring one in both

	ctx := context.Background()
	s := newStore(t)
	upstream := store.NewMemory().
		AddHoliday(generic.Holiday{Date: date("2025-12-25"), Name: "Natal"}).
		AddHoliday(generic.Holiday{Date: date("2026-12-25"), Name: "Natal"})

	_, err := s.SaveHoliday(ctx, sqlite.CustomHoliday{Date: date("2025-01-25"), Name: "Aniversário de SP"})
	require.NoError(t, err)
	_, err = s.SaveHoliday(ctx, sqlite.CustomHoliday{Date: date("2020-07-09"), Name: "Revolução", Recurring: true})
	require.NoError(t, err)

	p := s.CachedHolidays("test", upstream)

	h25, err := p.Holidays(ctx, 2025)
	require.NoError(t, err)
	require.Len(t, h25, 3)
	assert.Equal(t, "2025-01-25", h25[0].Date.String())
	assert.Equal(t, "2025-07-09", h25[1].Date.String())
	assert.Equal(t, "2025-12-25", h25[2].Date.String())

	h26, err := p.Holidays(ctx, 2026)
	require.NoError(t, err)
	require.Len(t, h26, 2)
	assert.Equal(t, "2026-07-09", h26[0].Date.String())
}

func TestSaveHoliday_SameDateAndNameKeepsID(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	id1, err := s.SaveHoliday(ctx, sqlite.CustomHoliday{Date: date("2025-01-25"), Name: "X"})
	require.NoError(t, err)
	require.NotEmpty(t, id1)

	id2, err := s.SaveHoliday(ctx, sqlite.CustomHoliday{Date: date("2025-01-25"), Name: "X", Recurring: true})
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	list, err := s.ListCustomHolidays(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Recurring)
	assert.False(t, list[0].CreatedAt.IsZero())
}

func TestDeleteHoliday(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	id, err := s.SaveHoliday(ctx, sqlite.CustomHoliday{Date: date("2025-01-25"), Name: "X"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteHoliday(ctx, id))
	assert.ErrorIs(t, s.DeleteHoliday(ctx, id), sqlite.ErrNotFound)

	list, err := s.ListCustomHolidays(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCachedRates(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	upstream := store.NewMemory().SetRate(2025, decimal.RequireFromString("0.00055131"))

	p := s.CachedRates("test", upstream, time.Hour)

	r1, err := p.DailyRate(ctx, 2025)
	require.NoError(t, err)
	r2, err := p.DailyRate(ctx, 2025)
	require.NoError(t, err)

	assert.True(t, r1.Equal(r2))
	assert.Equal(t, "0.00055131", r2.String())
	assert.Equal(t, 1, upstream.RateCalls(2025))
}

func TestCachedRates_ZeroTTLCachesForever(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	upstream := store.NewMemory().SetRate(2024, decimal.RequireFromString("0.0004"))
	p := s.CachedRates("test", upstream, 0)

	for i := 0; i < 3; i++ {
		_, err := p.DailyRate(ctx, 2024)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, upstream.RateCalls(2024))
}

func TestCachedRates_NoDataNotCached(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	upstream := store.NewMemory()
	p := s.CachedRates("test", upstream, time.Hour)

	_, err := p.DailyRate(ctx, 2030)
	assert.ErrorIs(t, err, generic.ErrNoRateData)
	_, err = p.DailyRate(ctx, 2030)
	assert.ErrorIs(t, err, generic.ErrNoRateData)
	assert.Equal(t, 2, upstream.RateCalls(2030))
}

func TestReset_KeepsCustomHolidays(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	upstream := store.NewMemory()
	p := s.CachedHolidays("test", upstream)

	_, err := s.SaveHoliday(ctx, sqlite.CustomHoliday{Date: date("2025-01-25"), Name: "X"})
	require.NoError(t, err)
	_, err = p.Holidays(ctx, 2025)
	require.NoError(t, err)

	require.NoError(t, s.Reset(ctx))

	_, err = p.Holidays(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, 2, upstream.Calls(2025))

	list, err := s.ListCustomHolidays(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
