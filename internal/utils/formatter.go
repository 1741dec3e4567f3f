package utils

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/lsmithpanw/pcs-where-is/internal/models"
)

// Formatter handles different output formats
type Formatter struct {
	format      string
	showDetails bool
	now         func() time.Time
}

// NewFormatter creates a new formatter instance
func NewFormatter(format string) *Formatter {
	return &Formatter{format: format, now: time.Now}
}

// NewFormatterWithOptions creates a new formatter instance with options.
// showDetails dumps the raw tenant record under each match.
func NewFormatterWithOptions(format string, showDetails bool) *Formatter {
	return &Formatter{
		format:      format,
		showDetails: showDetails,
		now:         time.Now,
	}
}

// WithClock replaces the clock used for relative times
func (f *Formatter) WithClock(now func() time.Time) *Formatter {
	f.now = now
	return f
}

// ResultLabels holds the wording of a query report
type ResultLabels struct {
	// Found is formatted with the query, stack name and customer name
	Found string
	NotFound func(query string) string
	Credits  string
	Usage    func(unit string) string
}

// WhereIsLabels are used by the customer search report
var WhereIsLabels = ResultLabels{
	Found:    "%s found on %s as %s",
	NotFound: func(query string) string {
		return fmt.Sprintf("%s not found on any configured stack", query)
	},
	Credits:  "Credits Available:",
	Usage: func(unit string) string {
		return fmt.Sprintf("Credit snapshot, end of period (%s):", unit)
	},
}

// UsersLabels are used by the tenant user report
var UsersLabels = ResultLabels{
	Found:    "Tenant ID %s found on %s as %s",
	NotFound: func(query string) string {
		return fmt.Sprintf("No customer tenant found with ID %s", query)
	},
	Credits:  "Credits:",
	Usage: func(string) string {
		return "Used Credits:"
	},
}

// FormatTenants formats tenant lists according to the specified format
func (f *Formatter) FormatTenants(stacks []models.StackTenants, w io.Writer) error {
	switch f.format {
	case "json":
		return f.formatJSON(stacks, w)
	case "csv":
		return f.formatTenantsCSV(stacks, w)
	case "table", "":
		return f.formatTenantsTable(stacks, w)
	default:
		return fmt.Errorf("unsupported format: %s", f.format)
	}
}

// formatTenantsTable formats tenants as a table
func (f *Formatter) formatTenantsTable(stacks []models.StackTenants, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	// ヘッダー
	if _, err := fmt.Fprintln(tw, "STACK\tCUSTOMER NAME\tPRISMA ID\tCUSTOMER ID\tSERIAL NUMBER\tACTIVE\tEVAL\tSOURCE"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(tw, "-----\t-------------\t---------\t-----------\t-------------\t------\t----\t------"); err != nil {
		return err
	}

	// データ行
	for _, st := range stacks {
		source := GetCacheStatusColorText(st.FromCache)
		for _, t := range st.Tenants {
			if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				st.Stack,
				t.CustomerName(),
				t.PrismaID(),
				t.CustomerID(),
				orNA(t.SerialNumber()),
				orNA(t.Active()),
				orNA(t.Eval()),
				source,
			); err != nil {
				return err
			}
		}
	}

	return tw.Flush()
}

// formatTenantsCSV formats tenants as CSV
func (f *Formatter) formatTenantsCSV(stacks []models.StackTenants, w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{
		"Stack", "CustomerName", "PrismaID", "CustomerID",
		"SerialNumber", "TenantID", "Active", "Eval", "RenewalDate",
	}); err != nil {
		return err
	}

	for _, st := range stacks {
		for _, t := range st.Tenants {
			record := []string{
				st.Stack,
				t.CustomerName(),
				t.PrismaID(),
				t.CustomerID(),
				t.SerialNumber(),
				t.MarketplaceTenantID(),
				t.Active(),
				t.Eval(),
				formatRenewal(t.RenewalDate()),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// formatJSON writes v as indented JSON
func (f *Formatter) formatJSON(v interface{}, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// UsersLabelsInStack returns UsersLabels with the not-found line naming the
// searched stack
func UsersLabelsInStack(stack string) ResultLabels {
	labels := UsersLabels
	labels.NotFound = func(query string) string {
		return fmt.Sprintf("No customer tenant found with ID %s in stack %s", query, stack)
	}
	return labels
}

// FormatQueryResults writes a batch of query results. The json format
// encodes the whole batch as one array.
func (f *Formatter) FormatQueryResults(results []models.QueryResult, labels ResultLabels, w io.Writer) error {
	if f.format == "json" {
		if results == nil {
			results = []models.QueryResult{}
		}
		return f.formatJSON(results, w)
	}

	for _, result := range results {
		if err := f.FormatQueryResult(result, labels, w); err != nil {
			return err
		}
	}
	return nil
}

// FormatQueryResult writes every match of one query, or the not-found line
// when there are none. The json format encodes the result as a whole.
func (f *Formatter) FormatQueryResult(result models.QueryResult, labels ResultLabels, w io.Writer) error {
	if f.format == "json" {
		return f.formatJSON(result, w)
	}

	for _, m := range result.Matches {
		if err := f.formatMatch(result.Query, m, labels, w); err != nil {
			return err
		}
	}
	if result.Found() == 0 {
		if _, err := fmt.Fprintln(w, labels.NotFound(result.Query)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

func (f *Formatter) formatMatch(query string, m models.TenantMatch, labels ResultLabels, w io.Writer) error {
	t := m.Tenant
	lines := []string{
		fmt.Sprintf(labels.Found, query, m.Stack, Highlight(t.CustomerName())),
	}
	if f.showDetails {
		lines = append(lines, indentJSON(t.Raw()))
	}
	lines = append(lines, fmt.Sprintf("\tCustomer ID:   %s", t.CustomerID()))
	if t.HasMarketplaceData() {
		if sn := t.SerialNumber(); sn != "" {
			lines = append(lines, fmt.Sprintf("\tSerial Number: %s", sn))
		}
		if tid := t.MarketplaceTenantID(); tid != "" {
			lines = append(lines, fmt.Sprintf("\tTenant ID:     %s", tid))
		}
		if renewal := t.RenewalDate(); !renewal.IsZero() {
			lines = append(lines, fmt.Sprintf("\tRenewal Date:  %s", formatRenewal(renewal)))
		}
	}
	lines = append(lines,
		fmt.Sprintf("\tPrisma ID:     %s", t.PrismaID()),
		fmt.Sprintf("\tEval:          %s", t.Eval()),
		fmt.Sprintf("\tActive:        %s", t.Active()),
		fmt.Sprintf("\t%-14s %s", labels.Credits, t.Workloads()),
	)
	for _, u := range m.Usage {
		lines = append(lines, fmt.Sprintf("\t%s  %s", labels.Usage(u.Unit), u.String()))
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	if len(m.Users) > 0 {
		return f.FormatUsers(m.Users, w)
	}
	return nil
}

// FormatUsers formats a user list as a table
func (f *Formatter) FormatUsers(users []models.User, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 4, ' ', 0)

	if _, err := fmt.Fprintln(tw, "Name\tEmail Address\tLast Login"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(tw, "----\t-------------\t----------"); err != nil {
		return err
	}
	for _, u := range users {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\n", u.DisplayName, u.Email, f.lastLogin(u)); err != nil {
			return err
		}
	}

	return tw.Flush()
}

// lastLogin renders a user's last login as "YYYY-MM-DD - <relative time>"
// in the user's own time zone
func (f *Formatter) lastLogin(u models.User) string {
	if !u.HasLoggedIn() {
		return "Never"
	}
	t := u.LastLogin()
	return fmt.Sprintf("%s - %s", t.Format("2006-01-02"), humanize.RelTime(t, f.now(), "ago", "from now"))
}

// FormatStackVersions formats stack versions, highlighting the newest
func (f *Formatter) FormatStackVersions(versions []models.StackVersion, w io.Writer) error {
	if f.format == "json" {
		return f.formatJSON(versions, w)
	}

	for _, v := range versions {
		version := v.Version
		if v.Newest {
			version = Success(version)
		}
		if _, err := fmt.Fprintf(w, "%s %s\n", v.URL, version); err != nil {
			return err
		}
	}
	return nil
}

// FormatCacheEntries formats the cache status as a table
func (f *Formatter) FormatCacheEntries(entries []models.CacheEntry, w io.Writer) error {
	if f.format == "json" {
		return f.formatJSON(entries, w)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "KEY\tCACHED\tSIZE\tSTATUS"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(tw, "---\t------\t----\t------"); err != nil {
		return err
	}

	now := f.now()
	for _, e := range entries {
		status := Success("valid")
		if e.IsExpired(now) {
			status = Warning("expired")
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			e.Key,
			humanize.RelTime(e.CachedAt, now, "ago", "from now"),
			humanize.Bytes(uint64(e.Size)),
			status,
		); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// formatRenewal formats a license end date in local time
func formatRenewal(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func indentJSON(raw json.RawMessage) string {
	out, err := json.MarshalIndent(raw, "", "    ")
	if err != nil {
		return string(raw)
	}
	return string(out)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// GetCacheStatusColorText returns colored cache status text
func GetCacheStatusColorText(fromCache bool) string {
	if fromCache {
		return Success("Cache")
	}
	return Warning("API")
}
