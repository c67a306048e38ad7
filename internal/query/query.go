// 包 query 是列表页的查询引擎：在内存中的全量任务集合上依次执行
// 搜索 → 年份 → 结果 → 排序 → 分页，并给出总数/过滤后数量/年份选项。
// 纯函数，不做 I/O，不修改输入。
package query

import (
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"launch-catalog/internal/model"
)

// 过滤哨兵值与取值。
const (
	All = "all"

	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"

	SortNewest = "newest"
	SortOldest = "oldest"

	// AllYearsLabel 为年份选项列表的首项。
	AllYearsLabel = "All years"

	DefaultPageSize = 15
)

// Params 为一次查询的参数快照。
type Params struct {
	Search   string
	Year     string // "all" 或四位年份
	Outcome  string // all|success|failed
	Sort     string // newest|oldest
	Page     int    // 从 1 开始
	PageSize int
}

// Result 为查询结果。Page 为累计前缀（"加载更多" 语义），不是独立分页窗口。
type Result struct {
	Page          []model.Mission
	TotalCount    int
	FilteredCount int
	Years         []string
	HasMore       bool
}

// Normalize 填充默认值：空值/未知值回退为 all/newest（年份也接受 "All years" 标签），
// 页码与页大小至少为 1。
func (p Params) Normalize() Params {
	p.Year = ParseYearLabel(p.Year)
	switch p.Outcome {
	case OutcomeSuccess, OutcomeFailed:
	default:
		p.Outcome = All
	}
	if p.Sort != SortOldest {
		p.Sort = SortNewest
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	return p
}

// Run 执行完整查询流程。
func Run(all []model.Mission, p Params) Result {
	p = p.Normalize()
	filtered := Filter(all, p)
	SortMissions(filtered, p.Sort)

	end := p.Page * p.PageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return Result{
		Page:          filtered[:end:end],
		TotalCount:    len(all),
		FilteredCount: len(filtered),
		Years:         Years(all),
		HasMore:       p.Page*p.PageSize < len(filtered),
	}
}

// Filter 按搜索词/年份/结果依次过滤，返回新切片。
func Filter(all []model.Mission, p Params) []model.Mission {
	p = p.Normalize()
	search := strings.ToLower(p.Search)
	out := make([]model.Mission, 0, len(all))
	for _, m := range all {
		if search != "" && !strings.Contains(strings.ToLower(m.Name), search) {
			continue
		}
		if p.Year != All {
			t, ok := ParseUTC(m.DateUTC)
			if !ok || yearString(t) != p.Year {
				continue
			}
		}
		if !matchOutcome(m.Success, p.Outcome) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// matchOutcome：待定（nil）不属于 success 也不属于 failed。
func matchOutcome(success *bool, outcome string) bool {
	switch outcome {
	case OutcomeSuccess:
		return success != nil && *success
	case OutcomeFailed:
		return success != nil && !*success
	default:
		return true
	}
}

// SortMissions 按 UTC 时间稳定排序；无法解析的时间无论升降序都排在最后。
func SortMissions(ms []model.Mission, order string) {
	type keyed struct {
		t  time.Time
		ok bool
	}
	keys := make(map[string]keyed, len(ms))
	key := func(m model.Mission) keyed {
		if k, ok := keys[m.DateUTC]; ok {
			return k
		}
		t, ok := ParseUTC(m.DateUTC)
		k := keyed{t: t, ok: ok}
		keys[m.DateUTC] = k
		return k
	}
	slices.SortStableFunc(ms, func(a, b model.Mission) int {
		ka, kb := key(a), key(b)
		switch {
		case !ka.ok && !kb.ok:
			return 0
		case !ka.ok:
			return 1
		case !kb.ok:
			return -1
		}
		c := ka.t.Compare(kb.t)
		if order == SortNewest {
			return -c
		}
		return c
	})
}

// Years 从未过滤的全量集合中提取四位数字年份前缀，去重后倒序，并在首位加入 "All years"。
func Years(all []model.Mission) []string {
	seen := map[string]struct{}{}
	for _, m := range all {
		if y, ok := yearPrefix(m.DateUTC); ok {
			seen[y] = struct{}{}
		}
	}
	years := make([]string, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	// 四位数字字符串的字典序与数值序一致
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	return append([]string{AllYearsLabel}, years...)
}

func yearPrefix(s string) (string, bool) {
	if len(s) < 4 {
		return "", false
	}
	for i := 0; i < 4; i++ {
		if s[i] < '0' || s[i] > '9' {
			return "", false
		}
	}
	return s[:4], true
}

// ParseUTC 解析 ISO-8601 时间戳并转换为 UTC。
func ParseUTC(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func yearString(t time.Time) string {
	return strconv.Itoa(t.Year())
}
