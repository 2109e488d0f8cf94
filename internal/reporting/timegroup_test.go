package reporting

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mloptapang/primero/internal/model"
)

type TimeGroupTestSuite struct {
	suite.Suite
}

func TestTimeGroupSuite(t *testing.T) {
	suite.Run(t, new(TimeGroupTestSuite))
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ids(buckets []Bucket) []any {
	out := make([]any, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, b.ID)
	}
	return out
}

func (s *TimeGroupTestSuite) TestBuckets_Year() {
	buckets, err := Buckets(date(2020, 8, 1), date(2022, 10, 10), GroupByYear)

	s.Require().NoError(err)
	s.Equal([]any{2020, 2021, 2022}, ids(buckets))
	s.Equal(date(2020, 8, 1), buckets[0].From, "first bucket is clipped to from")
	s.Equal(date(2020, 12, 31), buckets[0].To)
	s.Equal(date(2021, 1, 1), buckets[1].From)
	s.Equal(date(2022, 10, 10), buckets[2].To, "last bucket is clipped to to")
}

func (s *TimeGroupTestSuite) TestBuckets_Month() {
	buckets, err := Buckets(date(2020, 8, 1), date(2021, 10, 10), GroupByMonth)

	s.Require().NoError(err)
	s.Equal([]any{
		"2020-08", "2020-09", "2020-10", "2020-11", "2020-12",
		"2021-01", "2021-02", "2021-03", "2021-04", "2021-05",
		"2021-06", "2021-07", "2021-08", "2021-09", "2021-10",
	}, ids(buckets))
	s.Equal(date(2021, 2, 28), buckets[6].To)
}

func (s *TimeGroupTestSuite) TestBuckets_Quarter() {
	buckets, err := Buckets(date(2020, 8, 1), date(2021, 9, 30), GroupByQuarter)

	s.Require().NoError(err)
	s.Equal([]any{"2020-Q3", "2020-Q4", "2021-Q1", "2021-Q2", "2021-Q3"}, ids(buckets))
	s.Equal(date(2020, 9, 30), buckets[0].To)
}

func (s *TimeGroupTestSuite) TestBuckets_SingleDay() {
	buckets, err := Buckets(date(2021, 3, 15), date(2021, 3, 15), GroupByQuarter)

	s.Require().NoError(err)
	s.Equal([]any{"2021-Q1"}, ids(buckets))
	s.Equal(buckets[0].From, buckets[0].To)
}

func (s *TimeGroupTestSuite) TestBuckets_Invalid() {
	_, err := Buckets(date(2022, 1, 1), date(2021, 1, 1), GroupByYear)
	var cfgErr *ConfigurationError
	s.ErrorAs(err, &cfgErr)

	_, err = Buckets(time.Time{}, date(2021, 1, 1), GroupByYear)
	s.ErrorAs(err, &cfgErr)

	_, err = Buckets(date(2020, 1, 1), date(2021, 1, 1), "week")
	s.ErrorAs(err, &cfgErr)
	s.Equal(GroupedByField, cfgErr.Field)
}

func (s *TimeGroupTestSuite) TestBucketLabel() {
	s.Equal(2020, BucketLabel(date(2020, 8, 3), GroupByYear))
	s.Equal("2020-08", BucketLabel(date(2020, 8, 3), GroupByMonth))
	s.Equal("2020-Q3", BucketLabel(date(2020, 8, 3), GroupByQuarter))
	s.Equal("2020-Q4", BucketLabel(date(2020, 12, 31), GroupByQuarter))
	s.Equal("2021-Q1", BucketLabel(date(2021, 1, 1), GroupByQuarter))
}

func (s *TimeGroupTestSuite) TestParseGranularity() {
	g, err := ParseGranularity("month")
	s.NoError(err)
	s.Equal(GroupByMonth, g)

	_, err = ParseGranularity("")
	s.Error(err)
}

func (s *TimeGroupTestSuite) TestGroupByTime_KeepsChronologicalOrder() {
	buckets, err := Buckets(date(2020, 1, 1), date(2020, 12, 31), GroupByQuarter)
	s.Require().NoError(err)

	groups, err := GroupByTime(context.Background(), buckets, 4, func(ctx context.Context, b Bucket) ([]model.IDTotal, error) {
		// later buckets finish first
		time.Sleep(time.Duration(10-b.From.Month()) * time.Millisecond)
		if b.ID == "2020-Q2" {
			return nil, nil
		}
		return []model.IDTotal{{ID: b.ID.(string), Total: 1}}, nil
	})

	s.Require().NoError(err)
	s.Equal([]model.Group{
		{GroupID: "2020-Q1", Data: []model.IDTotal{{ID: "2020-Q1", Total: 1}}},
		{GroupID: "2020-Q2", Data: []model.IDTotal{}},
		{GroupID: "2020-Q3", Data: []model.IDTotal{{ID: "2020-Q3", Total: 1}}},
		{GroupID: "2020-Q4", Data: []model.IDTotal{{ID: "2020-Q4", Total: 1}}},
	}, groups)
}

func (s *TimeGroupTestSuite) TestGroupByTime_OneFailureFailsAll() {
	buckets, err := Buckets(date(2020, 1, 1), date(2022, 12, 31), GroupByYear)
	s.Require().NoError(err)

	expected := errors.New("backend down")
	var calls atomic.Int32
	groups, err := GroupByTime(context.Background(), buckets, 1, func(ctx context.Context, b Bucket) ([]model.IDTotal, error) {
		calls.Add(1)
		if b.ID == 2021 {
			return nil, expected
		}
		return []model.IDTotal{}, nil
	})

	s.ErrorIs(err, expected)
	s.Nil(groups)
	s.LessOrEqual(calls.Load(), int32(3))
}
