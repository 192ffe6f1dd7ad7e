package report

import (
	"strings"

	"github.com/tamnguyenvan/timegroup/pkg/models/api"
)

// confirmedAt returns the updated_at of the last status-history entry
// with the confirmed status (code 1). Orders without one are not
// report-eligible.
func confirmedAt(order api.Order) (string, bool) {
	confirmed := ""
	for _, entry := range order.StatusHistory {
		if entry.Status == 1 {
			confirmed = entry.UpdatedAt
		}
	}
	return confirmed, confirmed != ""
}

// confirmStaff returns the name on the last status-history entry with
// status 1 or 11.
func confirmStaff(order api.Order) string {
	name := ""
	for _, entry := range order.StatusHistory {
		if entry.Status == 1 || entry.Status == 11 {
			name = entry.Name
		}
	}
	return name
}

// productDisplayName composes "name / field: value / ..." for an item.
// Items without variation fields render blank, matching the sheet
// layout the reports have always had.
func productDisplayName(v api.VariationInfo) string {
	if len(v.Fields) == 0 {
		return ""
	}
	parts := make([]string, 0, len(v.Fields)+1)
	parts = append(parts, v.Name)
	for _, f := range v.Fields {
		parts = append(parts, f.Name+": "+f.Value)
	}
	return strings.Join(parts, " / ")
}

// productSummary composes the space-joined "name field value ..." form
// used in the carrier reports' combined product column.
func productSummary(v api.VariationInfo) string {
	if len(v.Fields) == 0 {
		return ""
	}
	parts := make([]string, 0, len(v.Fields)+1)
	parts = append(parts, v.Name)
	for _, f := range v.Fields {
		parts = append(parts, f.Name+" "+f.Value)
	}
	return strings.Join(parts, " ")
}

func firstPhoneNumber(c *api.Customer) string {
	if c == nil || len(c.PhoneNumbers) == 0 {
		return ""
	}
	return c.PhoneNumbers[0]
}

func blankRow(n int) []any {
	row := make([]any, n)
	for i := range row {
		row[i] = ""
	}
	return row
}
