package models

// TenantMatch is one tenant found on one stack, together with any follow-on
// data fetched for it
type TenantMatch struct {
	Stack  string          `json:"stack"`
	Tenant Tenant          `json:"tenant"`
	Usage  []UsageSnapshot `json:"usage,omitempty"`
	// Users is nil when users were not requested or could not be fetched
	Users []User `json:"users,omitempty"`
}

// QueryResult collects every match for one input value across all stacks
type QueryResult struct {
	Query   string        `json:"query"`
	Matches []TenantMatch `json:"matches"`
}

// Found returns the number of matching tenants
func (r QueryResult) Found() int {
	return len(r.Matches)
}

// StackTenants is the tenant list of one stack
type StackTenants struct {
	Stack     string   `json:"stack"`
	FromCache bool     `json:"from_cache"`
	Tenants   []Tenant `json:"tenants"`
}
