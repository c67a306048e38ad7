// 包 preview 提供任务外链页的预览抽取：
// - 依据 rules.yaml 预设的 CSS 选择器获取 title/description/image
// - 支持 "选择器@属性" 以及 "||" 多方案回退与相对 URL 绝对化
package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"launch-catalog/internal/fetch"
	"launch-catalog/internal/model"
	"launch-catalog/internal/rules"
)

const (
	maxPageBytes = 4 << 20
	// maxDescRunes 限制描述长度（按字符计）
	maxDescRunes = 280
)

// ErrNoLink 表示任务没有可预览的外链。
var ErrNoLink = errors.New("mission has no article or wikipedia link")

// Card 为一次预览的结果。
type Card struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// PageLink 选择用于预览的页面：优先文章，其次维基。
func PageLink(l model.Links) (string, error) {
	if l.Article != nil && *l.Article != "" {
		return *l.Article, nil
	}
	if l.Wikipedia != nil && *l.Wikipedia != "" {
		return *l.Wikipedia, nil
	}
	return "", ErrNoLink
}

// Fetch 下载页面并按预设抽取预览信息。
// 规则语法：
// - 文本：".title" 或 "."（取整页文本）
// - 属性："meta[property='og:image']@content" / "img@src"
// - 回退：使用 "||" 连接多个候选，按先后尝试
func Fetch(ctx context.Context, cl *fetch.Client, pageURL string, preset rules.Preset) (*Card, error) {
	if preset.Preview == nil {
		return nil, fmt.Errorf("preset for %s has no preview rules", pageURL)
	}
	resp, err := cl.Get(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("GET preview page %s: %w", pageURL, err)
	}
	defer resp.Body.Close()
	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("parse preview html: %w", err)
	}
	// 跟随重定向后以最终地址为基准解析相对链接
	base := pageURL
	if resp.Request != nil && resp.Request.URL != nil {
		base = resp.Request.URL.String()
	}
	pv := preset.Preview
	root := doc.Selection
	return &Card{
		URL:         base,
		Title:       collapse(getVal(root, pv.Title)),
		Description: truncate(collapse(getVal(root, pv.Description)), maxDescRunes),
		Image:       abs(base, getVal(root, pv.Image)),
	}, nil
}

// getVal 解析表达式并支持使用 "||" 作为回退分隔。
func getVal(scope *goquery.Selection, expr string) string {
	for _, p := range strings.Split(expr, "||") {
		if v := getValSingle(scope, strings.TrimSpace(p)); v != "" {
			return v
		}
	}
	return ""
}

// getValSingle 解析单个表达式：文本或属性读取。
func getValSingle(scope *goquery.Selection, expr string) string {
	if expr == "" {
		return ""
	}
	if expr == "." {
		return strings.TrimSpace(scope.Text())
	}
	if at := strings.LastIndex(expr, "@"); at != -1 {
		sel := strings.TrimSpace(expr[:at])
		attr := strings.TrimSpace(expr[at+1:])
		el := scope
		if sel != "" {
			el = scope.Find(sel).First()
		}
		val, _ := el.Attr(attr)
		return strings.TrimSpace(val)
	}
	return strings.TrimSpace(scope.Find(expr).First().Text())
}

// abs 将相对链接转换为绝对 URL。
func abs(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	bu, err := url.Parse(base)
	if err != nil {
		return ref
	}
	ru, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return bu.ResolveReference(ru).String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n])) + "…"
}
