package importer

import "strings"

const (
	colPayerID   = "payer_id"
	colPayerName = "payer_name"
	colState     = "state"
	colSource    = "source"
)

// columnAliases maps source headers onto detail fields. Headers not listed
// here are lower-cased and kept in the detail's raw payload.
var columnAliases = map[string]string{
	"Payer ID":                         colPayerID,
	"ID":                               colPayerID,
	"Payer_ID":                         colPayerID,
	"Payer Name":                       colPayerName,
	"Name":                             colPayerName,
	"Payer_Name":                       colPayerName,
	"Payer":                            colPayerName,
	"Payer Short Name":                 colPayerName,
	"Payer Identification Information": colPayerName,
	"State":                            colState,
	"ST":                               colState,
	"Source":                           colSource,
}

// DefaultIgnoredSheets are reference tabs that never hold payer rows.
var DefaultIgnoredSheets = []string{"Legend", "Legend (1)", "OpenDental"}

func normalizeHeader(h string) string {
	h = strings.TrimSpace(h)
	if field, ok := columnAliases[h]; ok {
		return field
	}
	return strings.ToLower(h)
}

func isDetailField(col string) bool {
	switch col {
	case colPayerID, colPayerName, colState, colSource:
		return true
	default:
		return false
	}
}
