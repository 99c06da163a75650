package generic

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
)

// =============================================================================
// HOLIDAYS - Non-business dates, loaded one year at a time
// =============================================================================

// Holiday is a named non-business date. Immutable once fetched.
type Holiday struct {
	Date Date   `json:"date"`
	Name string `json:"name"`
}

// HolidaySet is the set of non-business dates, keyed by ISO date.
// The zero value is an empty set.
type HolidaySet map[string]struct{}

// NewHolidaySet builds a set from a holiday list. Duplicates collapse.
func NewHolidaySet(holidays []Holiday) HolidaySet {
	set := make(HolidaySet, len(holidays))
	for _, h := range holidays {
		set[h.Date.String()] = struct{}{}
	}
	return set
}

func (s HolidaySet) Contains(d Date) bool {
	_, ok := s[d.String()]
	return ok
}

func (s HolidaySet) Len() int { return len(s) }

// SortHolidays orders holidays by date, then name.
func SortHolidays(holidays []Holiday) {
	sort.SliceStable(holidays, func(i, j int) bool {
		if holidays[i].Date.Equal(holidays[j].Date) {
			return holidays[i].Name < holidays[j].Name
		}
		return holidays[i].Date.Before(holidays[j].Date)
	})
}

// =============================================================================
// HOLIDAY CACHE - Lazy per-year loader
// =============================================================================

// HolidayCache loads each year's holidays from a provider at most once.
//
// A year is fetched the first time it is requested and never refetched or
// evicted afterwards. A failed fetch is not cached, so the next request for
// that year goes back to the provider.
//
// The mutex is held across the provider call: two year loads never run at
// the same time, even when a host shares one cache between requests.
type HolidayCache struct {
	provider HolidayProvider
	logger   *slog.Logger

	mu       sync.Mutex
	sets     map[int]HolidaySet
	holidays map[int][]Holiday
	fetches  map[int]int
}

func NewHolidayCache(provider HolidayProvider) *HolidayCache {
	return &HolidayCache{
		provider: provider,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		sets:     make(map[int]HolidaySet),
		holidays: make(map[int][]Holiday),
		fetches:  make(map[int]int),
	}
}

// WithLogger sets the logger used for year loads.
func (c *HolidayCache) WithLogger(l *slog.Logger) *HolidayCache {
	if l != nil {
		c.logger = l
	}
	return c
}

// Year returns the holiday set for year, fetching it on first use.
func (c *HolidayCache) Year(ctx context.Context, year int) (HolidaySet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if set, ok := c.sets[year]; ok {
		return set, nil
	}

	c.fetches[year]++
	c.logger.Debug("holidays.load", "year", year)

	holidays, err := c.provider.Holidays(ctx, year)
	if err != nil {
		return nil, err
	}

	loaded := make([]Holiday, len(holidays))
	copy(loaded, holidays)
	SortHolidays(loaded)

	c.holidays[year] = loaded
	c.sets[year] = NewHolidaySet(loaded)
	return c.sets[year], nil
}

// Loaded reports whether year is already cached.
func (c *HolidayCache) Loaded(year int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.sets[year]
	return ok
}

// Fetches returns how many provider calls were made for year.
func (c *HolidayCache) Fetches(year int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetches[year]
}

// Years returns the cached years in ascending order.
func (c *HolidayCache) Years() []int {
	c.mu.Lock()
	defer c.mu.Unlock()

	years := make([]int, 0, len(c.sets))
	for y := range c.sets {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// InPeriod returns the cached holidays falling inside p, sorted by date.
func (c *HolidayCache) InPeriod(p Period) []Holiday {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Holiday
	for year := p.Start.Year(); year <= p.End.Year(); year++ {
		for _, h := range c.holidays[year] {
			if p.Contains(h.Date) {
				out = append(out, h)
			}
		}
	}
	return out
}

// Reset drops every cached year. The next request for any year goes back to
// the provider; fetch counts are kept.
func (c *HolidayCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sets = make(map[int]HolidaySet)
	c.holidays = make(map[int][]Holiday)
}
