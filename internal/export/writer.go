package export

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSONLines drains src, writing one flattened record per line. It
// returns the number of records written and the first error from either the
// source or the writer.
func WriteJSONLines(w io.Writer, src Source) (int, error) {
	enc := json.NewEncoder(w)
	count := 0
	for src.Next() {
		rec := NewRecord(src.Issue())
		if err := enc.Encode(rec); err != nil {
			return count, fmt.Errorf("failed to write record %s: %w", rec.Key, err)
		}
		count++
	}
	if err := src.Err(); err != nil {
		return count, err
	}
	return count, nil
}
