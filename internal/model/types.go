// 包 model 定义发射目录的数据模型（任务/火箭/发射场/载荷/聚合详情/导出）。
// 字段与上游 REST API 的 JSON 命名保持一致，便于直接解码与导出。
package model

import "time"

// Mission 表示一次发射任务。
type Mission struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	DateUTC   string   `json:"date_utc"`
	DateLocal string   `json:"date_local"`
	DateUnix  int64    `json:"date_unix"`
	Rocket    string   `json:"rocket"`    // 火箭 id（外键）
	Launchpad string   `json:"launchpad"` // 发射场 id（外键）
	Payloads  []string `json:"payloads"`  // 载荷 id，有序
	// Success 三态：true 成功 / false 失败 / nil 待定
	Success  *bool  `json:"success"`
	Upcoming bool   `json:"upcoming"`
	Details  string `json:"details,omitempty"`
	Links    Links  `json:"links"`
}

// Links 为任务的外部链接，每项均可为空。
type Links struct {
	Patch     Patch   `json:"patch"`
	Webcast   *string `json:"webcast"`
	Article   *string `json:"article"`
	Wikipedia *string `json:"wikipedia"`
}

type Patch struct {
	Small *string `json:"small"`
	Large *string `json:"large"`
}

// Vehicle 为火箭基础记录（不含 height/mass）。
type Vehicle struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	Active         bool    `json:"active"`
	Stages         int     `json:"stages"`
	Boosters       int     `json:"boosters"`
	CostPerLaunch  int64   `json:"cost_per_launch"`
	SuccessRatePct float64 `json:"success_rate_pct"`
	FirstFlight    string  `json:"first_flight"`
	Country        string  `json:"country"`
	Company        string  `json:"company"`
	Wikipedia      string  `json:"wikipedia"`
	Description    string  `json:"description"`
}

type Height struct {
	Meters float64 `json:"meters"`
	Feet   float64 `json:"feet"`
}

type Mass struct {
	Kg float64 `json:"kg"`
}

// VehicleDetails 为详情聚合后的火箭记录，Height/Mass 总是有值（缺失时为 0）。
type VehicleDetails struct {
	Vehicle
	Height Height `json:"height"`
	Mass   Mass   `json:"mass"`
}

// Site 为发射场基础记录。
type Site struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	FullName        string   `json:"full_name"`
	Locality        string   `json:"locality"`
	Region          string   `json:"region"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	LaunchAttempts  int      `json:"launch_attempts"`
	LaunchSuccesses int      `json:"launch_successes"`
	Rockets         []string `json:"rockets"`
	Details         string   `json:"details"`
}

// SiteDetails 为详情聚合后的发射场记录，Status 缺失时为 "unknown"。
type SiteDetails struct {
	Site
	Status string `json:"status"`
}

// Payload 为载荷记录。Customers 归一化后不为 nil。
type Payload struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Customers []string `json:"customers"`
	MassKg    *float64 `json:"mass_kg"`
	Orbit     string   `json:"orbit"`
	Launch    string   `json:"launch"`
}

// MissionDetails 为任务与其火箭/发射场/载荷合并后的聚合记录。
type MissionDetails struct {
	Mission
	RocketDetails    VehicleDetails `json:"rocket_details"`
	LaunchpadDetails SiteDetails    `json:"launchpad_details"`
	PayloadDetails   []Payload      `json:"payload_details"`
}

// Stats 为导出文件头部的统计信息。
type Stats struct {
	Total       int       `json:"total"`
	Filtered    int       `json:"filtered"`
	Shown       int       `json:"shown"`
	Favorites   int       `json:"favorites"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ListExport 为列表视图的导出结构。
type ListExport struct {
	Stats     Stats     `json:"stats"`
	Query     Query     `json:"query"`
	Missions  []Mission `json:"missions"`
	Favorites []string  `json:"favorites"`
}

// Query 记录导出时使用的列表参数。
type Query struct {
	Search        string `json:"search,omitempty"`
	Year          string `json:"year"`
	Outcome       string `json:"outcome"`
	Sort          string `json:"sort"`
	Page          int    `json:"page"`
	PageSize      int    `json:"page_size"`
	FavoritesOnly bool   `json:"favorites_only,omitempty"`
}

// DetailExport 为单个聚合详情的导出结构。
type DetailExport struct {
	Stats   Stats           `json:"stats"`
	Mission *MissionDetails `json:"mission"`
}
