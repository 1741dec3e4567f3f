package models

import (
	"encoding/json"
	"strconv"

	"github.com/tidwall/gjson"
)

// Usage time ranges accepted by the time-series endpoint
const (
	UsageUnitDay   = "day"
	UsageUnitMonth = "month"
	UsageUnitYear  = "year"
)

// UsageSnapshot is the credit usage at the end of one relative time range
type UsageSnapshot struct {
	Unit  string  `json:"unit"`
	Total float64 `json:"total"`
}

// String formats the total without a trailing fraction for whole numbers
func (u UsageSnapshot) String() string {
	return strconv.FormatFloat(u.Total, 'f', -1, 64)
}

// UsageQuery is the request body for the usage time-series endpoint
type UsageQuery struct {
	CustomerName string         `json:"customerName"`
	TimeRange    UsageTimeRange `json:"timeRange"`
}

// UsageTimeRange is a relative time range
type UsageTimeRange struct {
	Type  string             `json:"type"`
	Value UsageRelativeValue `json:"value"`
}

// UsageRelativeValue is the amount and unit of a relative time range
type UsageRelativeValue struct {
	Amount int    `json:"amount"`
	Unit   string `json:"unit"`
}

// NewUsageQuery builds a query covering the last single unit of time
func NewUsageQuery(customerName, unit string) UsageQuery {
	return UsageQuery{
		CustomerName: customerName,
		TimeRange: UsageTimeRange{
			Type:  "relative",
			Value: UsageRelativeValue{Amount: 1, Unit: unit},
		},
	}
}

// SumLatestUsage adds up every count in the last data point's nested count
// map. ok is false when there are no data points or no counts.
func SumLatestUsage(payload json.RawMessage) (total float64, ok bool) {
	n := gjson.GetBytes(payload, "dataPoints.#").Int()
	if n == 0 {
		return 0, false
	}
	counts := gjson.GetBytes(payload, "dataPoints."+strconv.FormatInt(n-1, 10)+".counts")
	if !counts.IsObject() || len(counts.Map()) == 0 {
		return 0, false
	}
	counts.ForEach(func(_, group gjson.Result) bool {
		group.ForEach(func(_, v gjson.Result) bool {
			total += v.Float()
			return true
		})
		return true
	})
	return total, true
}
