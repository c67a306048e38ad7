// 命令行入口：
// - 解析 flags 与 settings.yaml/rules.yaml
// - 初始化日志、HTTP 客户端、收藏存储与指标
// - 支持列表查询、详情聚合、收藏管理、外链预览与 JSON 导出
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"launch-catalog/internal/config"
	"launch-catalog/internal/detail"
	"launch-catalog/internal/export"
	"launch-catalog/internal/favorites"
	"launch-catalog/internal/fetch"
	"launch-catalog/internal/logx"
	"launch-catalog/internal/model"
	"launch-catalog/internal/preview"
	"launch-catalog/internal/query"
	"launch-catalog/internal/rules"
	"launch-catalog/internal/session"
	"launch-catalog/internal/store"
)

func main() {
	var (
		configPath     = flag.String("config", "settings.yaml", "path to settings.yaml (defaults are used when missing)")
		rulesPath      = flag.String("rules", "rules.yaml", "path to rules.yaml for link preview (optional)")
		search         = flag.String("search", "", "case-insensitive mission name filter")
		year           = flag.String("year", query.All, "launch year (UTC) or \"all\"")
		outcome        = flag.String("outcome", query.All, "all|success|failed")
		sortOrder      = flag.String("sort", query.SortNewest, "newest|oldest")
		page           = flag.Int("page", 1, "number of pages to show (pages accumulate)")
		favoritesOnly  = flag.Bool("favorites-only", false, "only show favorites within the shown pages")
		detailID       = flag.String("detail", "", "print aggregated details of a mission id")
		toggleID       = flag.String("toggle", "", "toggle favorite state of a mission id")
		listFavorites  = flag.Bool("list-favorites", false, "print favorite mission ids")
		clearFavorites = flag.Bool("clear-favorites", false, "remove all favorites")
		previewID      = flag.String("preview", "", "print link preview of a mission id")
		exportPath     = flag.String("export", "", "write the list view (or -detail result) as json")
	)
	flag.Parse()

	// 1) 加载配置与规则
	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	rl, err := rules.LoadOrBuiltin(*rulesPath)
	if err != nil {
		log.Printf("load rules failed, using builtin: %v", err)
		rl = rules.Builtin()
	}
	// 2) 初始化日志：级别/格式/语言/颜色
	logx.Init(cfg.LogLevel, cfg.LogFormat, cfg.LogLocale, cfg.LogColor)

	// 3) 初始化指标与 HTTP 客户端（含代理，不重试）
	reg := prometheus.NewRegistry()
	metrics, err := fetch.NewMetrics(reg)
	if err != nil {
		log.Fatalf("metrics: %v", err)
	}
	cl, err := fetch.New(fetch.Options{
		BaseURL:    cfg.API.BaseURL,
		ProxyHTTP:  cfg.Proxy.HTTP,
		ProxyHTTPS: cfg.Proxy.HTTPS,
		Timeout:    cfg.API.Timeout,
		UserAgent:  cfg.API.UserAgent,
		Metrics:    metrics,
	})
	if err != nil {
		log.Fatalf("http client: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	// 4) 收藏存储：默认为 SQLite 文件，DSN 为 ":memory:" 时仅保存在内存
	kv, err := store.Open(cfg.Favorites.DSN)
	if err != nil {
		log.Fatalf("open favorites store %s: %v", cfg.Favorites.DSN, err)
	}
	fav := favorites.Open(ctx, kv, cfg.Favorites.Key)

	code := run(ctx, app{
		cl:    cl,
		fav:   fav,
		rules: rl,
		cfg:   cfg,
	}, options{
		filters: session.Filters{
			Search:        *search,
			Year:          query.ParseYearLabel(*year),
			Outcome:       query.ParseOutcomeLabel(*outcome),
			Sort:          query.ParseSortLabel(*sortOrder),
			FavoritesOnly: *favoritesOnly,
		},
		pages:          *page,
		detailID:       *detailID,
		toggleID:       *toggleID,
		listFavorites:  *listFavorites,
		clearFavorites: *clearFavorites,
		previewID:      *previewID,
		exportPath:     *exportPath,
	})
	logRequests(reg)
	stop()
	_ = kv.Close()
	os.Exit(code)
}

type app struct {
	cl    *fetch.Client
	fav   *favorites.Store
	rules *rules.Rules
	cfg   *config.Config
}

type options struct {
	filters        session.Filters
	pages          int
	detailID       string
	toggleID       string
	listFavorites  bool
	clearFavorites bool
	previewID      string
	exportPath     string
}

func run(ctx context.Context, a app, o options) int {
	// 收藏操作先于查询执行，便于 -toggle 与 -favorites-only 组合使用
	if o.clearFavorites {
		if err := a.fav.Clear(ctx); err != nil {
			logx.Errorf("清空收藏失败：%v", err)
			return 1
		}
		logx.Infof("已清空收藏")
	}
	if o.toggleID != "" {
		on, err := a.fav.Toggle(ctx, o.toggleID)
		if err != nil {
			logx.Errorf("收藏状态未能保存：%v", err)
		}
		fmt.Printf("%s favorite=%v\n", o.toggleID, on)
	}
	if o.listFavorites {
		for _, id := range a.fav.List() {
			fmt.Println(id)
		}
		return 0
	}

	switch {
	case o.detailID != "":
		return runDetail(ctx, a, o)
	case o.previewID != "":
		return runPreview(ctx, a, o.previewID)
	case o.toggleID != "" || o.clearFavorites:
		return 0
	}
	return runList(ctx, a, o)
}

func runList(ctx context.Context, a app, o options) int {
	ls := session.NewList(a.cl, a.fav, a.cfg.PageSize)
	defer ls.Close()
	v, err := ls.SetFilters(ctx, o.filters)
	for i := 1; err == nil && i < o.pages && v.HasMore; i++ {
		v, err = ls.LoadMore(ctx)
	}
	if err != nil {
		if errors.Is(err, fetch.ErrCanceled) {
			return 130
		}
		logx.Errorf("获取任务列表失败：%v", err)
		return 1
	}

	fmt.Println(v.Message)
	fmt.Printf("years: %s\n", strings.Join(v.Years, ", "))
	for _, m := range v.Shown {
		printMission(m, a.fav.IsFavorite(m.ID))
	}
	if v.HasMore && !v.FavoritesOnly {
		fmt.Printf("... more available (-page %d)\n", v.Params.Page+1)
	}
	if o.exportPath != "" {
		if err := export.ListToJSON(o.exportPath, v, a.fav.List()); err != nil {
			logx.Errorf("导出失败：%v", err)
			return 1
		}
		logx.Infof("已导出 %s", o.exportPath)
	}
	return 0
}

func runDetail(ctx context.Context, a app, o options) int {
	ds := session.NewDetail(detail.New(a.cl, detail.Options{MaxConcurrency: a.cfg.Detail.MaxConcurrency}))
	defer ds.Close()
	v, err := ds.Open(ctx, o.detailID)
	if err != nil {
		if errors.Is(err, fetch.ErrCanceled) {
			return 130
		}
		logx.Errorf("获取任务详情失败：%v", err)
		return 1
	}
	d := v.Details
	printMission(d.Mission, a.fav.IsFavorite(d.ID))
	fmt.Printf("  rocket:    %s (%s) height=%.1fm mass=%.0fkg\n",
		d.RocketDetails.Name, d.RocketDetails.Type, d.RocketDetails.Height.Meters, d.RocketDetails.Mass.Kg)
	fmt.Printf("  launchpad: %s [%s] %s\n", d.LaunchpadDetails.Name, d.LaunchpadDetails.Status, d.LaunchpadDetails.Locality)
	for _, p := range d.PayloadDetails {
		mass := "n/a"
		if p.MassKg != nil {
			mass = fmt.Sprintf("%.0fkg", *p.MassKg)
		}
		fmt.Printf("  payload:   %s orbit=%s mass=%s customers=%s\n", p.Name, p.Orbit, mass, strings.Join(p.Customers, ", "))
	}
	if o.exportPath != "" {
		if err := export.DetailToJSON(o.exportPath, d); err != nil {
			logx.Errorf("导出失败：%v", err)
			return 1
		}
		logx.Infof("已导出 %s", o.exportPath)
	}
	return 0
}

func runPreview(ctx context.Context, a app, id string) int {
	m, err := a.cl.Mission(ctx, id)
	if err != nil {
		logx.Errorf("获取任务失败：%v", err)
		return 1
	}
	pageURL, err := preview.PageLink(m.Links)
	if err != nil {
		logx.Warnf("任务 %s 没有可预览的外链", id)
		return 1
	}
	preset, ok := a.rules.ForURL(pageURL)
	if !ok {
		logx.Warnf("没有可用的预览规则：%s", pageURL)
		return 1
	}
	c, err := preview.Fetch(ctx, a.cl, pageURL, preset)
	if err != nil {
		logx.Errorf("预览失败：%v", err)
		return 1
	}
	fmt.Printf("%s\n%s\n%s\n%s\n", c.Title, c.URL, c.Description, c.Image)
	return 0
}

func printMission(m model.Mission, favorite bool) {
	star := " "
	if favorite {
		star = "*"
	}
	date := m.DateUTC
	if t, ok := query.ParseUTC(m.DateUTC); ok {
		date = t.Format("2006-01-02 15:04")
	}
	fmt.Printf("%s %-24s %-16s %-8s %s %s\n", star, m.ID, date, query.StatusLabel(m.Success), m.Name, query.PreferredLink(m.Links))
}

// loadConfig 在配置文件缺失时使用默认值。
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return config.Load(path)
}

// logRequests 输出本次运行的请求统计。
func logRequests(reg *prometheus.Registry) {
	mfs, err := reg.Gather()
	if err != nil {
		return
	}
	for _, mf := range mfs {
		if mf.GetName() != "launch_catalog_fetch_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			logx.Debugf("请求统计：%s 次数=%.0f", strings.Join(labels, " "), m.GetCounter().GetValue())
		}
	}
}
