package chsql

const (
	// FormatExplorer asks for the result to be decoded into an in-memory
	// table instead of being returned as raw bytes. On the wire it is
	// requested as Parquet; the decoding happens client side.
	FormatExplorer = "explorer"

	// parquetFormat is the wire format the explorer sentinel rides on.
	parquetFormat = "Parquet"

	formatHeader  = "X-ClickHouse-Format"
	formatDocsURL = "https://clickhouse.com/docs/en/interfaces/formats"
)

// Short aliases accepted in place of the canonical names.
var formatAliases = map[string]string{
	"tsv":  "TabSeparated",
	"csv":  "CSV",
	"json": "JSON",
}

// Output formats supported by ClickHouse, verbatim from its formats list.
// Only formats ClickHouse can produce are listed; input-only formats are
// useless as an output selector.
var canonicalFormats = map[string]struct{}{
	"TabSeparated":                               {},
	"TabSeparatedRaw":                            {},
	"TabSeparatedWithNames":                      {},
	"TabSeparatedWithNamesAndTypes":              {},
	"TabSeparatedRawWithNames":                   {},
	"TabSeparatedRawWithNamesAndTypes":           {},
	"Template":                                   {},
	"CSV":                                        {},
	"CSVWithNames":                               {},
	"CSVWithNamesAndTypes":                       {},
	"CustomSeparated":                            {},
	"CustomSeparatedWithNames":                   {},
	"CustomSeparatedWithNamesAndTypes":           {},
	"SQLInsert":                                  {},
	"Values":                                     {},
	"Vertical":                                   {},
	"JSON":                                       {},
	"JSONStrings":                                {},
	"JSONColumns":                                {},
	"JSONColumnsWithMetadata":                    {},
	"JSONCompact":                                {},
	"JSONCompactStrings":                         {},
	"JSONCompactColumns":                         {},
	"JSONEachRow":                                {},
	"PrettyJSONEachRow":                          {},
	"JSONEachRowWithProgress":                    {},
	"JSONStringsEachRow":                         {},
	"JSONStringsEachRowWithProgress":             {},
	"JSONCompactEachRow":                         {},
	"JSONCompactEachRowWithNames":                {},
	"JSONCompactEachRowWithNamesAndTypes":        {},
	"JSONCompactStringsEachRow":                  {},
	"JSONCompactStringsEachRowWithNames":         {},
	"JSONCompactStringsEachRowWithNamesAndTypes": {},
	"JSONObjectEachRow":                          {},
	"BSONEachRow":                                {},
	"TSKV":                                       {},
	"Pretty":                                     {},
	"PrettyNoEscapes":                            {},
	"PrettyMonoBlock":                            {},
	"PrettyNoEscapesMonoBlock":                   {},
	"PrettyCompact":                              {},
	"PrettyCompactNoEscapes":                     {},
	"PrettyCompactMonoBlock":                     {},
	"PrettyCompactNoEscapesMonoBlock":            {},
	"PrettySpace":                                {},
	"PrettySpaceNoEscapes":                       {},
	"PrettySpaceMonoBlock":                       {},
	"PrettySpaceNoEscapesMonoBlock":              {},
	"Prometheus":                                 {},
	"Protobuf":                                   {},
	"ProtobufSingle":                             {},
	"ProtobufList":                               {},
	"Avro":                                       {},
	"Parquet":                                    {},
	"ParquetMetadata":                            {},
	"Arrow":                                      {},
	"ArrowStream":                                {},
	"ORC":                                        {},
	"Npy":                                        {},
	"RowBinary":                                  {},
	"RowBinaryWithNames":                         {},
	"RowBinaryWithNamesAndTypes":                 {},
	"Native":                                     {},
	"Null":                                       {},
	"XML":                                        {},
	"CapnProto":                                  {},
	"LineAsString":                               {},
	"RawBLOB":                                    {},
	"MsgPack":                                    {},
	"Markdown":                                   {},
}

// ResolveFormat normalizes a user-supplied output format token. Canonical
// ClickHouse format names pass through unchanged, the tsv/csv/json aliases
// map to their canonical names, and the explorer sentinel resolves only when
// a table decoder is registered. Anything else is a validation error.
//
// Resolution is synchronous and happens before any network call.
func ResolveFormat(token string) (string, error) {
	if canonical, ok := formatAliases[token]; ok {
		return canonical, nil
	}
	if token == FormatExplorer || token == "dataframe" {
		if !TableDecoderAvailable() {
			return "", &MissingDependencyError{Format: token}
		}
		return FormatExplorer, nil
	}
	if _, ok := canonicalFormats[token]; ok {
		return token, nil
	}
	return "", validationErrorf(
		"unknown format %q: expected a ClickHouse format name (see %s), one of the aliases tsv, csv or json, or explorer",
		token, formatDocsURL)
}
