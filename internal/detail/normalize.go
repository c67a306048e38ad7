package detail

import "launch-catalog/internal/model"

// SiteStatusUnknown 为上游缺少 status 时的默认值。
const SiteStatusUnknown = "unknown"

// rawVehicle 在基础字段之外接收可能缺失的 height/mass。
type rawVehicle struct {
	model.Vehicle
	Height *struct {
		Meters *float64 `json:"meters"`
		Feet   *float64 `json:"feet"`
	} `json:"height"`
	Mass *struct {
		Kg *float64 `json:"kg"`
	} `json:"mass"`
}

func (r rawVehicle) normalize() model.VehicleDetails {
	out := model.VehicleDetails{Vehicle: r.Vehicle}
	if r.Height != nil {
		out.Height.Meters = deref(r.Height.Meters)
		out.Height.Feet = deref(r.Height.Feet)
	}
	if r.Mass != nil {
		out.Mass.Kg = deref(r.Mass.Kg)
	}
	return out
}

type rawSite struct {
	model.Site
	Status *string `json:"status"`
}

func (r rawSite) normalize() model.SiteDetails {
	out := model.SiteDetails{Site: r.Site, Status: SiteStatusUnknown}
	if r.Status != nil && *r.Status != "" {
		out.Status = *r.Status
	}
	if out.Rockets == nil {
		out.Rockets = []string{}
	}
	return out
}

// NormalizePayload 保证 customers 不为 nil；mass_kg 缺失时保持 nil。
func NormalizePayload(p model.Payload) model.Payload {
	if p.Customers == nil {
		p.Customers = []string{}
	}
	return p
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
