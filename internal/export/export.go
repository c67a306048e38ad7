// 包 export 负责导出：将列表视图或单个聚合详情写为带缩进的 JSON 文件。
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"launch-catalog/internal/model"
	"launch-catalog/internal/session"
)

// ListToJSON 写出当前列表视图（实际展示的任务）与收藏列表。
func ListToJSON(path string, v session.ListView, favorites []string) error {
	shown := v.Shown
	if shown == nil {
		shown = []model.Mission{}
	}
	if favorites == nil {
		favorites = []string{}
	}
	out := model.ListExport{
		Stats: model.Stats{
			Total:       v.TotalCount,
			Filtered:    v.FilteredCount,
			Shown:       len(shown),
			Favorites:   len(favorites),
			GeneratedAt: time.Now().UTC(),
		},
		Query: model.Query{
			Search:        v.Params.Search,
			Year:          v.Params.Year,
			Outcome:       v.Params.Outcome,
			Sort:          v.Params.Sort,
			Page:          v.Params.Page,
			PageSize:      v.Params.PageSize,
			FavoritesOnly: v.FavoritesOnly,
		},
		Missions:  shown,
		Favorites: favorites,
	}
	return writeJSON(path, out)
}

// DetailToJSON 写出单个任务的聚合详情。
func DetailToJSON(path string, d *model.MissionDetails) error {
	if d == nil {
		return fmt.Errorf("export detail to %s: nil details", path)
	}
	out := model.DetailExport{
		Stats:   model.Stats{Total: 1, Filtered: 1, Shown: 1, GeneratedAt: time.Now().UTC()},
		Mission: d,
	}
	return writeJSON(path, out)
}

func writeJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json to %s: %w", path, err)
	}
	return nil
}
