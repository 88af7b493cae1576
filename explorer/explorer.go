// Package explorer registers the Parquet table decoder that backs the
// explorer output format. Import it for its side effect:
//
//	import _ "github.com/livebook-dev/req-ch/explorer"
package explorer

import (
	"bytes"
	"context"

	"github.com/apache/arrow/go/v11/arrow/memory"
	"github.com/apache/arrow/go/v11/parquet"
	"github.com/apache/arrow/go/v11/parquet/pqarrow"
	"github.com/pkg/errors"

	chsql "github.com/livebook-dev/req-ch"
)

func init() {
	chsql.RegisterTableDecoder(Decode)
}

// Decode parses raw Parquet bytes into an arrow table.
func Decode(data []byte) (chsql.Table, error) {
	props := parquet.NewReaderProperties(memory.DefaultAllocator)
	table, err := pqarrow.ReadTable(
		context.Background(),
		bytes.NewReader(data),
		props,
		pqarrow.ArrowReadProperties{},
		memory.DefaultAllocator,
	)
	if err != nil {
		return nil, errors.Wrap(err, "reading parquet table")
	}
	return table, nil
}
