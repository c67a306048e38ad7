package query_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launch-catalog/internal/model"
	"launch-catalog/internal/query"
)

func boolp(b bool) *bool { return &b }

func twoMissions() []model.Mission {
	return []model.Mission{
		{ID: "1", Name: "FalconSat", DateUTC: "2006-03-24T22:30:00.000Z", Success: boolp(false)},
		{ID: "2", Name: "DemoSat", DateUTC: "2007-03-21T01:10:00.000Z", Success: boolp(true)},
	}
}

func ids(ms []model.Mission) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ID)
	}
	return out
}

func defaults() query.Params {
	return query.Params{Year: query.All, Outcome: query.All, Sort: query.SortNewest, Page: 1, PageSize: 15}
}

func TestRun_TwoMissionsNewest(t *testing.T) {
	res := query.Run(twoMissions(), defaults())

	assert.Equal(t, []string{"2", "1"}, ids(res.Page))
	assert.Equal(t, 2, res.TotalCount)
	assert.Equal(t, 2, res.FilteredCount)
	assert.Equal(t, []string{"All years", "2007", "2006"}, res.Years)
	assert.False(t, res.HasMore)
}

func TestRun_OutcomeSuccess(t *testing.T) {
	p := defaults()
	p.Outcome = query.OutcomeSuccess
	res := query.Run(twoMissions(), p)

	assert.Equal(t, []string{"2"}, ids(res.Page))
	assert.Equal(t, 1, res.FilteredCount)
	assert.Equal(t, 2, res.TotalCount)
}

func TestRun_PendingExcludedFromOutcomeBuckets(t *testing.T) {
	data := append(twoMissions(), model.Mission{ID: "3", Name: "Starlink", DateUTC: "2030-01-01T00:00:00Z"})
	for _, tc := range []struct {
		outcome string
		want    []string
	}{
		{query.OutcomeSuccess, []string{"2"}},
		{query.OutcomeFailed, []string{"1"}},
		{query.All, []string{"3", "2", "1"}},
	} {
		t.Run(tc.outcome, func(t *testing.T) {
			p := defaults()
			p.Outcome = tc.outcome
			assert.Equal(t, tc.want, ids(query.Run(data, p).Page))
		})
	}
}

func catalog() []model.Mission {
	names := []string{"FalconSat", "DemoSat", "Trailblazer", "RatSat", "RazakSAT", "Falcon 9 Test", "COTS 1", "COTS 2", "CRS-1", "CRS-2"}
	var out []model.Mission
	for i, n := range names {
		var s *bool
		switch i % 3 {
		case 0:
			s = boolp(true)
		case 1:
			s = boolp(false)
		}
		out = append(out, model.Mission{
			ID:      fmt.Sprint(i + 1),
			Name:    n,
			DateUTC: fmt.Sprintf("%d-0%d-1%dT12:00:00.000Z", 2006+i/3, 1+i%9, i%10),
			Success: s,
		})
	}
	return out
}

func TestRun_SearchIsCaseInsensitiveSubstring(t *testing.T) {
	data := catalog()
	p := defaults()
	p.Search = "sAt"
	res := query.Run(data, p)

	in := map[string]bool{}
	for _, m := range res.Page {
		in[m.ID] = true
		assert.Contains(t, strings.ToLower(m.Name), "sat")
	}
	for _, m := range data {
		if !in[m.ID] {
			assert.NotContains(t, strings.ToLower(m.Name), "sat")
		}
	}
	assert.Equal(t, 4, res.FilteredCount)
}

func TestRun_YearFilterUsesUTC(t *testing.T) {
	data := []model.Mission{
		// 本地时间仍是 2019 年，但 UTC 已是 2020 年
		{ID: "a", Name: "a", DateUTC: "2019-12-31T23:30:00-05:00"},
		{ID: "b", Name: "b", DateUTC: "2020-06-01T00:00:00.000Z"},
		{ID: "c", Name: "c", DateUTC: "2019-05-01T00:00:00.000Z"},
		{ID: "d", Name: "d", DateUTC: "garbage"},
	}
	p := defaults()
	p.Year = "2020"
	res := query.Run(data, p)
	assert.ElementsMatch(t, []string{"a", "b"}, ids(res.Page))
	assert.Contains(t, res.Years, "2020")
}

func TestRun_YearsFromUnfilteredInput(t *testing.T) {
	data := catalog()
	p := defaults()
	p.Search = "CRS"
	p.Year = "2009"
	res := query.Run(data, p)

	assert.Equal(t, query.Years(data), res.Years)
	assert.Equal(t, []string{"All years", "2009", "2008", "2007", "2006"}, res.Years)
}

func TestYears_OnlyFourDigitPrefixes(t *testing.T) {
	data := []model.Mission{
		{DateUTC: "2006-03-24T22:30:00.000Z"},
		{DateUTC: "20x6-03-24"},
		{DateUTC: ""},
		{DateUTC: "199"},
		{DateUTC: "2006-01-01"},
		{DateUTC: "1999"},
	}
	assert.Equal(t, []string{"All years", "2006", "1999"}, query.Years(data))
}

func TestSort_StableAndTotal(t *testing.T) {
	data := []model.Mission{
		{ID: "x1", DateUTC: "2010-01-01T00:00:00Z"},
		{ID: "bad1", DateUTC: "not a date"},
		{ID: "x2", DateUTC: "2012-01-01T00:00:00Z"},
		{ID: "tie1", DateUTC: "2011-01-01T00:00:00Z"},
		{ID: "bad2", DateUTC: ""},
		{ID: "tie2", DateUTC: "2011-01-01T00:00:00Z"},
	}

	newest := query.Run(data, defaults())
	assert.Equal(t, []string{"x2", "tie1", "tie2", "x1", "bad1", "bad2"}, ids(newest.Page))
	for i := 0; i+1 < len(newest.Page); i++ {
		a, okA := query.ParseUTC(newest.Page[i].DateUTC)
		b, okB := query.ParseUTC(newest.Page[i+1].DateUTC)
		if okA && okB {
			assert.False(t, a.Before(b), "index %d", i)
		}
	}

	p := defaults()
	p.Sort = query.SortOldest
	oldest := query.Run(data, p)
	assert.Equal(t, []string{"x1", "tie1", "tie2", "x2", "bad1", "bad2"}, ids(oldest.Page))
}

func TestRun_DoesNotMutateInput(t *testing.T) {
	data := twoMissions()
	_ = query.Run(data, defaults())
	assert.Equal(t, []string{"1", "2"}, ids(data))
}

func TestRun_PaginationIsMonotonicPrefix(t *testing.T) {
	data := catalog()
	p := defaults()
	p.PageSize = 3

	prev := []string{}
	for page := 1; page <= 5; page++ {
		p.Page = page
		res := query.Run(data, p)
		got := ids(res.Page)
		require.LessOrEqual(t, len(got), page*p.PageSize)
		require.GreaterOrEqual(t, len(got), len(prev))
		assert.Equal(t, prev, got[:len(prev)], "page %d must extend page %d", page, page-1)
		assert.Equal(t, page*p.PageSize < res.FilteredCount, res.HasMore)
		prev = got
	}
	assert.Len(t, prev, len(data))
}

func TestParams_Normalize(t *testing.T) {
	p := query.Params{Outcome: "bogus", Sort: "sideways", Page: -3}.Normalize()
	assert.Equal(t, query.Params{Year: query.All, Outcome: query.All, Sort: query.SortNewest, Page: 1, PageSize: query.DefaultPageSize}, p)
}

func TestRun_YearsSentinelMeansAll(t *testing.T) {
	res := query.Run(twoMissions(), defaults())
	p := defaults()
	p.Year = res.Years[0]

	again := query.Run(twoMissions(), p)
	assert.Equal(t, []string{"2", "1"}, ids(again.Page))
	assert.Equal(t, 2, again.FilteredCount)
	assert.Equal(t, query.All, p.Normalize().Year)
	assert.Equal(t, query.All, query.Params{Year: query.AllYearsOption}.Normalize().Year)
	assert.Equal(t, "2007", query.Params{Year: "2007"}.Normalize().Year)
}
