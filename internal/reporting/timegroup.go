package reporting

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mloptapang/primero/internal/model"
)

// Granularity is the calendar period of a time-grouped aggregate.
type Granularity string

const (
	GroupByYear    Granularity = "year"
	GroupByMonth   Granularity = "month"
	GroupByQuarter Granularity = "quarter"
)

// maxBuckets bounds the enumeration: 100 years of months.
const maxBuckets = 1200

// GroupedByField is the filter key carrying the granularity.
const GroupedByField = "grouped_by"

// ParseGranularity never defaults: an unknown value is a configuration error.
func ParseGranularity(value string) (Granularity, error) {
	switch g := Granularity(value); g {
	case GroupByYear, GroupByMonth, GroupByQuarter:
		return g, nil
	default:
		return "", &ConfigurationError{Field: GroupedByField, Value: value, Message: "must be one of year, month, quarter"}
	}
}

// Bucket is one calendar period, clipped to the requested range. From and To
// are inclusive dates.
type Bucket struct {
	ID   any
	From time.Time
	To   time.Time
}

// Buckets enumerates every period touching [from, to], in chronological order,
// including partial periods at both ends.
func Buckets(from, to time.Time, granularity Granularity) ([]Bucket, error) {
	if from.IsZero() || to.IsZero() {
		return nil, &ConfigurationError{Field: "date_range", Message: "from and to are required for grouping"}
	}
	if from.After(to) {
		return nil, &ConfigurationError{
			Field:   "date_range",
			Value:   fmt.Sprintf("%s..%s", from.Format(time.DateOnly), to.Format(time.DateOnly)),
			Message: "from must not be after to",
		}
	}
	if _, err := ParseGranularity(string(granularity)); err != nil {
		return nil, err
	}

	from = truncateDay(from)
	to = truncateDay(to)

	var buckets []Bucket
	for start := periodStart(from, granularity); !start.After(to); start = nextPeriod(start, granularity) {
		if len(buckets) >= maxBuckets {
			return nil, &ConfigurationError{Field: "date_range", Message: fmt.Sprintf("range spans more than %d buckets", maxBuckets)}
		}
		end := nextPeriod(start, granularity).AddDate(0, 0, -1)
		bucket := Bucket{ID: BucketLabel(start, granularity), From: start, To: end}
		if bucket.From.Before(from) {
			bucket.From = from
		}
		if bucket.To.After(to) {
			bucket.To = to
		}
		buckets = append(buckets, bucket)
	}
	return buckets, nil
}

// BucketLabel formats the group id: 2020, "2020-08" or "2020-Q3".
func BucketLabel(t time.Time, granularity Granularity) any {
	switch granularity {
	case GroupByYear:
		return t.Year()
	case GroupByQuarter:
		return fmt.Sprintf("%04d-Q%d", t.Year(), quarter(t.Month()))
	default:
		return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
	}
}

// BucketFunc computes the payload of one bucket.
type BucketFunc func(ctx context.Context, bucket Bucket) ([]model.IDTotal, error)

// GroupByTime runs fn for every bucket, at most concurrency at a time (no
// limit when <= 0). The result keeps bucket order whatever the completion
// order. The first failure fails the whole result.
func GroupByTime(ctx context.Context, buckets []Bucket, concurrency int, fn BucketFunc) ([]model.Group, error) {
	groups := make([]model.Group, len(buckets))

	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	for i, bucket := range buckets {
		g.Go(func() error {
			data, err := fn(ctx, bucket)
			if err != nil {
				return err
			}
			if data == nil {
				data = []model.IDTotal{}
			}
			groups[i] = model.Group{GroupID: bucket.ID, Data: data}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return groups, nil
}

func quarter(m time.Month) int {
	return (int(m) + 2) / 3
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func periodStart(t time.Time, granularity Granularity) time.Time {
	switch granularity {
	case GroupByYear:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	case GroupByQuarter:
		firstMonth := time.Month((quarter(t.Month())-1)*3 + 1)
		return time.Date(t.Year(), firstMonth, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
}

func nextPeriod(start time.Time, granularity Granularity) time.Time {
	switch granularity {
	case GroupByYear:
		return start.AddDate(1, 0, 0)
	case GroupByQuarter:
		return start.AddDate(0, 3, 0)
	default:
		return start.AddDate(0, 1, 0)
	}
}
