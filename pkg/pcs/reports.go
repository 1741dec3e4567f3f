package pcs

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/lsmithpanw/pcs-where-is/internal/logger"
	"github.com/lsmithpanw/pcs-where-is/internal/models"
	"github.com/lsmithpanw/pcs-where-is/internal/utils"
)

// Matcher decides whether a tenant answers a query
type Matcher func(query string, t models.Tenant) bool

// MatchSubstring matches name, prisma ID, tenant ID or serial number,
// case-insensitively
func MatchSubstring(query string, t models.Tenant) bool {
	return t.MatchesQuery(query)
}

// MatchPrismaID matches the prisma ID exactly
func MatchPrismaID(query string, t models.Tenant) bool {
	return t.MatchesID(query)
}

// SearchOptions control which tenants match and what is fetched for them
type SearchOptions struct {
	Match        Matcher
	UsageUnits   []string
	IncludeUsers bool
}

// ResultHandler receives each query's result as soon as all stacks have
// been searched for it
type ResultHandler func(result models.QueryResult) error

// Search looks up every query on every selected stack
func (m *Manager) Search(ctx context.Context, queries []string, opts SearchOptions, handle ResultHandler) error {
	if opts.Match == nil {
		opts.Match = MatchSubstring
	}

	for _, query := range queries {
		result := models.QueryResult{Query: query}

		err := m.ForEachStack(ctx, func(ctx context.Context, stack models.StackConfig, s *models.Session) error {
			fmt.Fprintf(m.out, "%s %s\n\n", utils.Info("Checking:"), stack.Name)

			st, err := m.TenantList(ctx, stack, s)
			if err != nil || st == nil {
				return err
			}

			for _, tenant := range st.Tenants {
				if !opts.Match(query, tenant) {
					continue
				}
				match, err := m.followOn(ctx, stack, s, tenant, opts)
				if err != nil {
					return err
				}
				result.Matches = append(result.Matches, match)
			}
			return nil
		})
		if err != nil {
			return err
		}

		logger.GetLogger().Debug("Query complete", zap.String("query", query), zap.Int("found", result.Found()))
		if err := handle(result); err != nil {
			return err
		}
	}

	return nil
}

// followOn fetches usage and users for one matched tenant
func (m *Manager) followOn(ctx context.Context, stack models.StackConfig, s *models.Session, tenant models.Tenant, opts SearchOptions) (models.TenantMatch, error) {
	match := models.TenantMatch{Stack: stack.Name, Tenant: tenant}
	name := tenant.CustomerName()

	for _, unit := range opts.UsageUnits {
		payload, err := m.api.Usage(ctx, s, name, unit)
		if err != nil {
			return match, err
		}
		if payload == nil {
			continue
		}
		if m.config.Debug {
			logger.GetLogger().Debug("usage", zap.String("customer", name), zap.String("unit", unit), zap.ByteString("payload", payload))
		}
		if total, ok := models.SumLatestUsage(payload); ok {
			match.Usage = append(match.Usage, models.UsageSnapshot{Unit: unit, Total: total})
		}
	}

	if opts.IncludeUsers {
		payload, err := m.api.Users(ctx, s, name)
		if err != nil {
			return match, err
		}
		if payload != nil {
			users, err := models.ParseUsers(payload)
			if err != nil {
				utils.WarningFprintf(m.out, "Unexpected user list for %s on %s: %v", name, stack.Name, err)
			} else {
				utils.SortUsers(users, m.config.Sort)
				match.Users = users
			}
		}
	}

	return match, nil
}

// ListCustomers returns the tenant list of every selected stack, keeping
// only tenants matching filter when it is not empty
func (m *Manager) ListCustomers(ctx context.Context, filter string) ([]models.StackTenants, error) {
	var result []models.StackTenants

	err := m.ForEachStack(ctx, func(ctx context.Context, stack models.StackConfig, s *models.Session) error {
		st, err := m.TenantList(ctx, stack, s)
		if err != nil || st == nil {
			return err
		}

		out := models.StackTenants{Stack: st.Stack, FromCache: st.FromCache}
		for _, t := range st.Tenants {
			if filter == "" || t.MatchesQuery(filter) {
				out.Tenants = append(out.Tenants, t)
			}
		}
		result = append(result, out)
		return nil
	})

	return result, err
}

// StackVersions returns the platform version of every selected stack, with
// the newest semantic version flagged
func (m *Manager) StackVersions(ctx context.Context) ([]models.StackVersion, error) {
	var versions []models.StackVersion

	err := m.ForEachStack(ctx, func(ctx context.Context, stack models.StackConfig, s *models.Session) error {
		payload, err := m.api.Version(ctx, s)
		if err != nil {
			return err
		}
		v := models.StackVersion{Stack: stack.Name, URL: stack.URL}
		if payload != nil {
			parsed := gjson.ParseBytes(payload)
			if parsed.Type == gjson.String {
				v.Version = parsed.String()
			} else {
				v.Version = parsed.Raw
			}
		}
		versions = append(versions, v)
		return nil
	})
	if err != nil {
		return versions, err
	}

	markNewest(versions)
	return versions, nil
}

// markNewest flags every stack running the highest parseable version
func markNewest(versions []models.StackVersion) {
	var newest *semver.Version
	parsed := make([]*semver.Version, len(versions))
	for i, v := range versions {
		sv, err := semver.NewVersion(v.Version)
		if err != nil {
			continue
		}
		parsed[i] = sv
		if newest == nil || sv.GreaterThan(newest) {
			newest = sv
		}
	}
	if newest == nil {
		return
	}
	for i := range versions {
		versions[i].Newest = parsed[i] != nil && parsed[i].Equal(newest)
	}
}
