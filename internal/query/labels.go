package query

import (
	"fmt"
	"strings"

	"launch-catalog/internal/model"
)

// 下拉框默认显示值。
const (
	AllYearsOption    = "All Years"
	AllLaunchesOption = "All Launches"
	NewestFirstOption = "Newest → Oldest"
	OldestFirstOption = "Oldest → Newest"
)

// ParseSortLabel 将排序下拉框文本映射为 newest/oldest。
func ParseSortLabel(label string) string {
	l := strings.ToLower(strings.TrimSpace(label))
	if strings.Contains(l, SortOldest) && !strings.HasPrefix(l, SortNewest) {
		return SortOldest
	}
	return SortNewest
}

// ParseOutcomeLabel："Success" → success，"Failed" → failed，其余为 all。
func ParseOutcomeLabel(label string) string {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case OutcomeSuccess:
		return OutcomeSuccess
	case OutcomeFailed, "failure":
		return OutcomeFailed
	default:
		return All
	}
}

// ParseYearLabel 将 "All Years"/"All years"/空串映射为 all，其余原样返回。
func ParseYearLabel(label string) string {
	l := strings.TrimSpace(label)
	if l == "" || strings.EqualFold(l, AllYearsLabel) || strings.EqualFold(l, All) {
		return All
	}
	return l
}

// StatusLabel 返回任务结果的展示文本。
func StatusLabel(success *bool) string {
	switch {
	case success == nil:
		return "Pending"
	case *success:
		return "Success"
	default:
		return "Failure"
	}
}

// PreferredLink 选择卡片上的外链：优先直播，其次维基。
func PreferredLink(l model.Links) string {
	if l.Webcast != nil && *l.Webcast != "" {
		return *l.Webcast
	}
	if l.Wikipedia != nil && *l.Wikipedia != "" {
		return *l.Wikipedia
	}
	return ""
}

// CountInput 为计数提示所需的视图状态。
type CountInput struct {
	Loading         bool
	Err             error
	Search          string
	FavoritesOnly   bool
	Shown           int
	FilteredCount   int
	TotalCount      int
	YearFiltered    bool
	OutcomeFiltered bool
}

// CountMessage 生成列表上方的计数提示文本。
func CountMessage(in CountInput) string {
	switch {
	case in.Loading:
		return "Loading launches..."
	case in.Err != nil:
		return in.Err.Error()
	case in.Search != "" || in.FavoritesOnly:
		return fmt.Sprintf("Showing %d of %d launches", in.Shown, in.FilteredCount)
	case in.YearFiltered || in.OutcomeFiltered:
		return fmt.Sprintf("Showing %d of %d launches", in.FilteredCount, in.TotalCount)
	default:
		return fmt.Sprintf("Showing %d launches", in.TotalCount)
	}
}
