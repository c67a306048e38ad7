package fetch

import (
	"context"
	"net/url"

	"launch-catalog/internal/model"
)

// 上游集合资源名。
const (
	ResourceLaunches   = "launches"
	ResourceRockets    = "rockets"
	ResourceLaunchpads = "launchpads"
	ResourcePayloads   = "payloads"
)

// ItemPath 返回集合内单条记录的路径。
func ItemPath(resource, id string) string {
	return resource + "/" + url.PathEscape(id)
}

// Missions 获取全量任务集合（过滤/分页在客户端完成）。
func (c *Client) Missions(ctx context.Context) ([]model.Mission, error) {
	var out []model.Mission
	if err := c.GetJSON(ctx, ResourceLaunches, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Mission 按 id 获取单个任务。
func (c *Client) Mission(ctx context.Context, id string) (*model.Mission, error) {
	var m model.Mission
	if err := c.GetJSON(ctx, ItemPath(ResourceLaunches, id), &m); err != nil {
		return nil, err
	}
	return &m, nil
}
