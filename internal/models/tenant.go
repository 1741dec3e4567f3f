package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Tenant wraps one raw tenant ("customer") record as returned by the
// platform. Fields are read lazily so records pass through unchanged.
type Tenant struct {
	raw json.RawMessage
}

// NewTenant creates a tenant from a raw JSON object
func NewTenant(raw json.RawMessage) Tenant {
	return Tenant{raw: raw}
}

// ParseTenants splits a tenant-list payload into individual records
func ParseTenants(payload json.RawMessage) ([]Tenant, error) {
	result := gjson.ParseBytes(payload)
	if !result.IsArray() {
		return nil, fmt.Errorf("tenant list is not a JSON array")
	}

	var tenants []Tenant
	result.ForEach(func(_, value gjson.Result) bool {
		if value.IsObject() {
			tenants = append(tenants, NewTenant(json.RawMessage(value.Raw)))
		}
		return true
	})
	return tenants, nil
}

// Raw returns the record exactly as received
func (t Tenant) Raw() json.RawMessage {
	return t.raw
}

// MarshalJSON emits the raw record
func (t Tenant) MarshalJSON() ([]byte, error) {
	if len(t.raw) == 0 {
		return []byte("null"), nil
	}
	return t.raw, nil
}

func (t Tenant) get(path string) gjson.Result {
	return gjson.GetBytes(t.raw, path)
}

// CustomerName returns the tenant's display name
func (t Tenant) CustomerName() string {
	return t.get("customerName").String()
}

// PrismaID returns the platform-internal tenant ID as a string
func (t Tenant) PrismaID() string {
	return t.get("prismaId").String()
}

// CustomerID returns the customer ID
func (t Tenant) CustomerID() string {
	return t.get("customerId").String()
}

// HasMarketplaceData reports whether marketplace license data is present
func (t Tenant) HasMarketplaceData() bool {
	md := t.get("licenseDetails.marketplaceData")
	return md.Exists() && md.Type != gjson.Null
}

// SerialNumber returns the marketplace serial number, if any
func (t Tenant) SerialNumber() string {
	return t.get("licenseDetails.marketplaceData.serialNumber").String()
}

// MarketplaceTenantID returns the marketplace tenant ID, if any
func (t Tenant) MarketplaceTenantID() string {
	return t.get("licenseDetails.marketplaceData.tenantId").String()
}

// RenewalDate returns the license end date, or the zero time when absent
func (t Tenant) RenewalDate() time.Time {
	endTs := t.get("licenseDetails.endTs").Int()
	if endTs == 0 {
		return time.Time{}
	}
	return time.UnixMilli(endTs)
}

// Eval reports the evaluation flag. Older payloads nest it under licenseDetails.
func (t Tenant) Eval() string {
	return t.firstOf("eval", "licenseDetails.eval")
}

// Active reports the active flag
func (t Tenant) Active() string {
	return t.firstOf("active", "licenseDetails.active")
}

// Workloads returns the available credits
func (t Tenant) Workloads() string {
	return t.get("workloads").String()
}

func (t Tenant) firstOf(paths ...string) string {
	for _, p := range paths {
		if r := t.get(p); r.Exists() {
			return r.String()
		}
	}
	return ""
}

// MatchesQuery performs a case-insensitive substring match of query against
// the customer name, prisma ID, marketplace tenant ID and serial number.
func (t Tenant) MatchesQuery(query string) bool {
	q := strings.ToLower(query)
	if q == "" {
		return false
	}
	candidates := []string{t.CustomerName(), t.PrismaID()}
	if t.HasMarketplaceData() {
		candidates = append(candidates, t.MarketplaceTenantID(), t.SerialNumber())
	}
	for _, c := range candidates {
		if c != "" && strings.Contains(strings.ToLower(c), q) {
			return true
		}
	}
	return false
}

// MatchesID reports whether id equals the tenant's prisma ID exactly
func (t Tenant) MatchesID(id string) bool {
	return id != "" && t.PrismaID() == id
}
