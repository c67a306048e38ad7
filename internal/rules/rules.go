// 包 rules 负责加载并提供链接预览的解析规则（rules.yaml），
// 以站点主机名（如 en.wikipedia.org）组织 CSS 选择器，未命中时回退到 default。
package rules

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultName 为兜底预设名。
const DefaultName = "default"

// Rules 表示全部规则集合：键为主机名或预设名，值为具体规则。
type Rules struct {
	Presets map[string]Preset `yaml:",inline"`
}

// Preset 为单个站点的解析规则。
type Preset struct {
	Preview *Preview `yaml:"preview"`
}

// Preview 描述预览字段的选择器：
// - title/description/image：取文本或属性（支持 meta[property='og:image']@content）
// - 多个候选以 "||" 连接，按先后尝试
type Preview struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
}

// Builtin 为没有规则文件时使用的内置规则：优先 Open Graph，再退到通用标签。
func Builtin() *Rules {
	return &Rules{Presets: map[string]Preset{
		DefaultName: {Preview: &Preview{
			Title:       "meta[property='og:title']@content||title||h1",
			Description: "meta[property='og:description']@content||meta[name='description']@content||p",
			Image:       "meta[property='og:image']@content||img@src",
		}},
		"en.wikipedia.org": {Preview: &Preview{
			Title:       "#firstHeading||meta[property='og:title']@content||title",
			Description: "#mw-content-text .mw-parser-output > p:not(.mw-empty-elt)||meta[property='og:description']@content",
			Image:       "meta[property='og:image']@content||.infobox img@src",
		}},
	}}
}

func Load(path string) (*Rules, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rules %s: %w", path, err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}
	var r Rules
	if err := yaml.Unmarshal(b, &r.Presets); err != nil {
		return nil, fmt.Errorf("unmarshal rules %s: %w", path, err)
	}
	return &r, nil
}

// LoadOrBuiltin 在 path 为空或文件不存在时返回内置规则。
func LoadOrBuiltin(path string) (*Rules, error) {
	if path == "" {
		return Builtin(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Builtin(), nil
	}
	return Load(path)
}

// GetPreset 按名称获取预设（不区分大小写），若为空或不存在则回退到 "default"；
// 规则文件没有 default 时使用内置的 default。
func (r *Rules) GetPreset(name string) (Preset, bool) {
	if r == nil || len(r.Presets) == 0 {
		return Preset{}, false
	}
	if name == "" {
		name = DefaultName
	}
	if p, ok := r.Presets[name]; ok {
		return p, true
	}
	lower := strings.ToLower(name)
	for k, v := range r.Presets {
		if strings.ToLower(k) == lower {
			return v, true
		}
	}
	for k, v := range r.Presets {
		if strings.EqualFold(k, DefaultName) {
			return v, true
		}
	}
	return Builtin().Presets[DefaultName], true
}

// ForURL 以页面地址的主机名查找预设，"www." 前缀忽略。
func (r *Rules) ForURL(pageURL string) (Preset, bool) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return r.GetPreset("")
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	return r.GetPreset(host)
}
