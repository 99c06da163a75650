// Package holidayfile reads extra holidays from a YAML file.
//
// Format:
//
//	holidays:
//	  - date: "2025-01-25"
//	    name: Aniversário de São Paulo
//	  - date: "2000-07-09"
//	    name: Revolução Constitucionalista
//	    recurring: true        # same month/day every year
//
// Recurring entries keep only month and day; the year in the file is
// ignored. A February 29th recurring entry is skipped in common years.
package holidayfile

import (
	"context"
	"fmt"
	"os"

	"github.com/warp/yield-engine/generic"
	"gopkg.in/yaml.v3"
)

type entry struct {
	Date      string `yaml:"date"`
	Name      string `yaml:"name"`
	Recurring bool   `yaml:"recurring"`
}

type document struct {
	Holidays []entry `yaml:"holidays"`
}

// File is a HolidayProvider over a parsed holiday file.
type File struct {
	fixed     map[int][]generic.Holiday
	recurring []generic.Holiday
}

// Load reads and parses path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading holiday file: %w", err)
	}
	return Parse(data)
}

// Parse parses a YAML holiday document.
func Parse(data []byte) (*File, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing holiday file: %w", err)
	}

	f := &File{fixed: make(map[int][]generic.Holiday)}
	for i, e := range doc.Holidays {
		if e.Name == "" {
			return nil, fmt.Errorf("holiday %d: name is required", i)
		}
		d, err := generic.ParseDate(e.Date)
		if err != nil {
			return nil, fmt.Errorf("holiday %d (%s): %w", i, e.Name, err)
		}
		h := generic.Holiday{Date: d, Name: e.Name}
		if e.Recurring {
			f.recurring = append(f.recurring, h)
			continue
		}
		f.fixed[d.Year()] = append(f.fixed[d.Year()], h)
	}
	return f, nil
}

// Holidays implements generic.HolidayProvider.
func (f *File) Holidays(_ context.Context, year int) ([]generic.Holiday, error) {
	out := make([]generic.Holiday, 0, len(f.fixed[year])+len(f.recurring))
	out = append(out, f.fixed[year]...)
	for _, r := range f.recurring {
		d := generic.NewDate(year, r.Date.Month(), r.Date.Day())
		if !d.IsValid() {
			continue
		}
		out = append(out, generic.Holiday{Date: d, Name: r.Name})
	}
	generic.SortHolidays(out)
	return out, nil
}

// Len is the number of entries read from the file.
func (f *File) Len() int {
	n := len(f.recurring)
	for _, hs := range f.fixed {
		n += len(hs)
	}
	return n
}

var _ generic.HolidayProvider = (*File)(nil)

