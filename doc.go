/*
Package chsql is an HTTP client for the ClickHouse analytical database.

# Usage

Build a client with functional options and run queries against it:

	import (
		chsql "github.com/livebook-dev/req-ch"
	)

	func main() {
		client, err := chsql.NewClient(
			chsql.WithBaseURL("http://localhost:8123"),
			chsql.WithDatabase("default"),
		)
		if err != nil {
			log.Fatal(err)
		}

		resp, err := client.Query("SELECT number FROM system.numbers LIMIT 3")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s", resp.Body)
	}

Supported client options include:

  - WithBaseURL(<url> string): Sets the ClickHouse HTTP endpoint. Default is http://localhost:8123
  - WithDatabase(<name> string): Selects the database queries run against. Optional
  - WithFormat(<format> string): Sets the default output format. Default is TabSeparated
  - WithMethod(<method> string): GET or POST. Default is POST
  - WithBasicAuth(<user>, <password> string): Passthrough credentials. Optional
  - WithHeader(<key>, <value> string): Adds a passthrough header to every request. Optional
  - WithHTTPClient(<client> *http.Client): Substitutes the underlying HTTP client. Optional
  - WithMaxRetries(<n> int): Enables transport-level retries. Default is 0

# Output formats

The format option accepts any ClickHouse output format name verbatim
(https://clickhouse.com/docs/en/interfaces/formats), the short aliases tsv,
csv and json, or the special explorer format which decodes the result into
an in-memory columnar table. The explorer format needs the decoder from the
explorer subpackage:

	import _ "github.com/livebook-dev/req-ch/explorer"

	resp := client.MustQuery("SELECT 1", chsql.WithQueryFormat("explorer"))
	fmt.Println(resp.Table.NumRows())

Note that a FORMAT clause inside the SQL text overrides the requested
format server side; the client detects this from the response headers and
returns the raw body untouched in that case.

# Query parameters

Named parameters bind to {name:Type} placeholders in the SQL text and are
sent out-of-band, never inlined:

	resp, err := client.Query(
		"SELECT {names:Array(String)}, {n:UInt64}",
		chsql.WithParameter("names", []string{"a", "b"}),
		chsql.WithParameter("n", 42),
	)

Strings, integers, floats, booleans, time.Time, chsql.Date, slices,
chsql.Tuple and maps are serialized into the ClickHouse parameter text
syntax, nesting included.

# Errors

Validation failures (unknown format, missing SQL, duplicate parameter
names) surface before any network I/O as *ValidationError. Requesting the
explorer format without its decoder surfaces *MissingDependencyError.
Transport failures are returned as-is. Non-2xx server responses are not
errors; inspect Response.StatusCode and Response.Body.
*/
package chsql
