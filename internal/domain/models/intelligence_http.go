package models

// Requests for intelligence HTTP endpoints. Defined in domain for
// consistency and reuse.

type ProfileRequest struct {
	Area    string `query:"area" json:"area" validate:"required"`
	AgentID string `query:"agent" json:"agent" validate:"required"`
	Days    int    `query:"days" json:"days" default:"60" validate:"gte=1,lte=365"`
}

type ForecastRequest struct {
	Area         string  `query:"area" json:"area" validate:"required"`
	AgentID      string  `query:"agent" json:"agent" validate:"required"`
	Magnitude    float64 `query:"magnitude" json:"magnitude" validate:"required,gte=-50,lte=50"`
	Days         int     `query:"days" json:"days" default:"60" validate:"gte=1,lte=365"`
	AgentsMoved  int     `query:"agents_moved" json:"agents_moved" validate:"gte=0,lte=50"`
	MarketStress bool    `query:"stress" json:"stress"`
}

type NetworkRequest struct {
	Area string `query:"area" json:"area" validate:"required"`
	Days int    `query:"days" json:"days" default:"90" validate:"gte=1,lte=365"`
}

type CascadeRequest struct {
	Area         string  `query:"area" json:"area" validate:"required"`
	Agent        string  `query:"agent" json:"agent" validate:"required"`
	Magnitude    float64 `query:"magnitude" json:"magnitude" validate:"required,gte=-50,lte=50"`
	Days         int     `query:"days" json:"days" default:"90" validate:"gte=1,lte=365"`
	MarketStress bool    `query:"stress" json:"stress"`
}

type VelocityRequest struct {
	Area      string `query:"area" json:"area" validate:"required"`
	Snapshots int    `query:"snapshots" json:"snapshots" default:"30" validate:"gte=2,lte=90"`
}

type WindowsRequest struct {
	Area      string `query:"area" json:"area" validate:"required"`
	Snapshots int    `query:"snapshots" json:"snapshots" default:"30" validate:"gte=10,lte=90"`
}

type ClustersRequest struct {
	Area string `query:"area" json:"area" validate:"required"`
	Days int    `query:"days" json:"days" default:"60" validate:"gte=1,lte=365"`
}

type OverviewRequest struct {
	Area      string `query:"area" json:"area" validate:"required"`
	Days      int    `query:"days" json:"days" default:"90" validate:"gte=1,lte=365"`
	Snapshots int    `query:"snapshots" json:"snapshots" default:"30" validate:"gte=10,lte=90"`
}

type AvailabilityRequest struct {
	Area string `query:"area" json:"area" validate:"required"`
}
