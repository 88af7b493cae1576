package chsql

import (
	"net/http"
	"sync"

	"github.com/livebook-dev/req-ch/internal/pipeline"
)

// Response is the outcome of one query round trip. Non-2xx statuses are not
// errors: the response comes back with the body intact so the caller can
// inspect the server's message.
type Response struct {
	StatusCode int
	Header     http.Header

	// Body holds the raw response bytes. It is nil when the explorer format
	// was requested and honored, in which case Table holds the decoded
	// result instead.
	Body  []byte
	Table Table
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode <= 299
}

// Table is the in-memory columnar result produced by a table decoder.
// arrow.Table satisfies it.
type Table interface {
	NumRows() int64
	NumCols() int64
}

// TableDecoder parses the raw bytes of a Parquet response body into a Table,
// failing if the bytes are malformed.
type TableDecoder func(data []byte) (Table, error)

var (
	decoderMu    sync.RWMutex
	tableDecoder TableDecoder
)

// RegisterTableDecoder installs the decoder backing the explorer format.
// It is normally called from the init function of the explorer subpackage.
func RegisterTableDecoder(d TableDecoder) {
	decoderMu.Lock()
	defer decoderMu.Unlock()
	tableDecoder = d
}

// TableDecoderAvailable reports whether the explorer format can resolve.
func TableDecoderAvailable() bool {
	return lookupTableDecoder() != nil
}

func lookupTableDecoder() TableDecoder {
	decoderMu.RLock()
	defer decoderMu.RUnlock()
	return tableDecoder
}

// decodeTableStep is the response half of the explorer format: when the
// request asked for a decoded table and the server's echoed format header
// confirms it answered in Parquet, the body is decoded and the remaining
// response steps are skipped.
//
// The echoed header is checked rather than trusting the request, because an
// in-SQL FORMAT clause silently overrides the requested header; in that case
// the body is whatever that other format produced and must pass through
// untouched. Non-success statuses always pass through.
func decodeTableStep() pipeline.Step {
	return pipeline.Step{Name: "decode_table", Run: func(ex *pipeline.Exchange) error {
		decision, ok := ex.Request.Meta[metaFormatDecision].(formatDecision)
		if !ok || decision.Format != FormatExplorer {
			return nil
		}
		resp := ex.Response
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil
		}
		if resp.Header.Get(formatHeader) != parquetFormat {
			return nil
		}

		// resolved at build time, re-checked here in case of a concurrent
		// de-registration
		decode := lookupTableDecoder()
		if decode == nil {
			return &MissingDependencyError{Format: FormatExplorer}
		}
		table, err := decode(resp.Body)
		if err != nil {
			// a failed decode is an error, never a silent fall back to raw bytes
			return wrapErr(err, "decoding parquet response body")
		}
		resp.Decoded = table
		resp.Body = nil
		ex.Halt()
		return nil
	}}
}
