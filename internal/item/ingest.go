package item

import (
	"errors"
	"fmt"
	"strings"

	"chronoline/internal/chrono"

	"github.com/google/uuid"
)

// ErrInvertedRange is returned for items whose start year is after their end year.
var ErrInvertedRange = errors.New("start year is after end year")

// RangeError describes one item rejected because of an inverted range.
type RangeError struct {
	ID    string
	Name  string
	Start int
	End   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("item %q (%s): start %d is after end %d", e.ID, e.Name, e.Start, e.End)
}

func (e *RangeError) Unwrap() error {
	return ErrInvertedRange
}

// ErrDuplicateID is returned when two items in one snapshot share an ID.
var ErrDuplicateID = errors.New("duplicate item id")

// DuplicateError describes an item whose ID was already taken. The item is kept under
// Renamed so that it still gets its own row and hit region.
type DuplicateError struct {
	ID      string
	Name    string
	Renamed string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("item %q (%s): id already used, renamed to %q", e.ID, e.Name, e.Renamed)
}

func (e *DuplicateError) Unwrap() error {
	return ErrDuplicateID
}

// idNamespace scopes derived item IDs.
var idNamespace = uuid.MustParse("6f1c7f8e-3d0a-5b8e-9a53-2c1f0e7d4b91")

// Record is an item as it appears in a dataset, before year parsing.
type Record struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	StartDate   string   `yaml:"startDate" json:"startDate"`
	EndDate     string   `yaml:"endDate" json:"endDate"`
	Above       *bool    `yaml:"above" json:"above"`
	Color       string   `yaml:"color" json:"color"`
	Shape       string   `yaml:"shape" json:"shape"`
	Category    string   `yaml:"category" json:"category"`
	Connections []string `yaml:"connections" json:"connections"`
	PeriodID    string   `yaml:"periodId" json:"periodId"`
	Description string   `yaml:"description" json:"description"`
}

// Skip records an item that was kept out of the chart because a date did not parse.
type Skip struct {
	ID     string
	Name   string
	Reason string
}

// Diagnostics summarises what ingestion dropped or flagged.
type Diagnostics struct {
	Skipped    []Skip
	Rejected   []*RangeError
	Duplicates []*DuplicateError
}

// Err joins every rejection and duplicate into one error, or returns nil.
func (d Diagnostics) Err() error {
	if len(d.Rejected) == 0 && len(d.Duplicates) == 0 {
		return nil
	}
	errs := make([]error, 0, len(d.Rejected)+len(d.Duplicates))
	for _, r := range d.Rejected {
		errs = append(errs, r)
	}
	for _, dup := range d.Duplicates {
		errs = append(errs, dup)
	}
	return errors.Join(errs...)
}

// DeriveID returns a stable ID for a record that has none, so the same record keeps its
// identity across loads.
func DeriveID(k Kind, name, startDate, endDate string) string {
	key := k.String() + "\x00" + strings.TrimSpace(name) +
		"\x00" + strings.TrimSpace(startDate) + "\x00" + strings.TrimSpace(endDate)
	return uuid.NewSHA1(idNamespace, []byte(key)).String()
}

// FromRecord converts a record into an item of kind k. Unparseable dates mark the item
// Undated. An inverted range is returned as a *RangeError.
func FromRecord(k Kind, r Record) (Item, error) {
	it := Item{
		ID:          strings.TrimSpace(r.ID),
		Name:        strings.TrimSpace(r.Name),
		Kind:        k,
		Above:       true,
		Color:       strings.TrimSpace(r.Color),
		Category:    strings.TrimSpace(r.Category),
		StartDate:   strings.TrimSpace(r.StartDate),
		EndDate:     strings.TrimSpace(r.EndDate),
		Description: r.Description,
	}
	if it.ID == "" {
		it.ID = DeriveID(k, it.Name, it.StartDate, it.EndDate)
	}
	if r.Above != nil {
		it.Above = *r.Above
	}

	switch k {
	case KindPerson:
		it.Person = &Person{
			Connections: append([]string(nil), r.Connections...),
			PeriodID:    strings.TrimSpace(r.PeriodID),
			Description: r.Description,
		}
	case KindPoint:
		it.Shape = Shape(strings.ToLower(strings.TrimSpace(r.Shape)))
		if it.Shape == "" {
			it.Shape = ShapeCircle
		}
	case KindPeriod:
	default:
		return Item{}, fmt.Errorf("item %q: unhandled kind %v", it.ID, k)
	}

	start, ok := chrono.ParseYear(it.StartDate)
	if !ok {
		it.Undated = true
		return it, nil
	}
	end := start
	if it.EndDate != "" {
		if end, ok = chrono.ParseYear(it.EndDate); !ok {
			it.Undated = true
			return it, nil
		}
	}
	it.Start, it.End = start, end
	if start > end {
		return it, &RangeError{ID: it.ID, Name: it.Name, Start: start, End: end}
	}
	return it, nil
}

// Dataset is the raw, kind-partitioned record set loaded from a file.
type Dataset struct {
	People  []Record `yaml:"people" json:"people"`
	Points  []Record `yaml:"points" json:"points"`
	Periods []Record `yaml:"periods" json:"periods"`
}

// Ingest converts a dataset into a snapshot. Undated items stay in the snapshot, flagged,
// and are listed in Diagnostics.Skipped. Items with inverted ranges are left out and
// listed in Diagnostics.Rejected. IDs are unique across the snapshot: a repeated ID gets
// a "~N" suffix and is listed in Diagnostics.Duplicates. Callers decide whether either is
// fatal via d.Err().
func Ingest(ds Dataset) (Snapshot, Diagnostics) {
	var (
		snap Snapshot
		diag Diagnostics
		seen = make(map[string]int)
	)
	unique := func(it *Item) {
		id := it.ID
		if seen[id] == 0 {
			seen[id] = 1
			return
		}
		renamed := id
		for seen[renamed] > 0 {
			seen[id]++
			renamed = fmt.Sprintf("%s~%d", id, seen[id])
		}
		seen[renamed] = 1
		diag.Duplicates = append(diag.Duplicates, &DuplicateError{ID: id, Name: it.Name, Renamed: renamed})
		it.ID = renamed
	}
	convert := func(k Kind, recs []Record) []Item {
		out := make([]Item, 0, len(recs))
		for _, r := range recs {
			it, err := FromRecord(k, r)
			if err != nil {
				var re *RangeError
				if errors.As(err, &re) {
					diag.Rejected = append(diag.Rejected, re)
				}
				continue
			}
			unique(&it)
			if it.Undated {
				diag.Skipped = append(diag.Skipped, Skip{
					ID:     it.ID,
					Name:   it.Name,
					Reason: fmt.Sprintf("unparseable date %q..%q", it.StartDate, it.EndDate),
				})
			}
			out = append(out, it)
		}
		return out
	}
	snap.People = convert(KindPerson, ds.People)
	snap.Points = convert(KindPoint, ds.Points)
	snap.Periods = convert(KindPeriod, ds.Periods)
	return snap, diag
}
