package repositories

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// Records are stored as JSON documents so the Badger and Postgres
// backends share the same message encoding.
func encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal failed: %w", err)
	}
	return data, nil
}

func decodeItem(item *badger.Item, v any) error {
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

// IDs are zero padded to 19 digits so keys sort numerically.
func formatID(id int64) string {
	return fmt.Sprintf("%019d", id)
}

// lastSegmentID parses the trailing ":"-separated ID of a key.
func lastSegmentID(key []byte) (int64, error) {
	s := string(key)
	i := strings.LastIndexByte(s, ':')
	return strconv.ParseInt(s[i+1:], 10, 64)
}

// nextID draws from a lease-based Badger sequence. Sequences start at 0, IDs at 1.
func nextID(seq *badger.Sequence) (int64, error) {
	n, err := seq.Next()
	if err != nil {
		return 0, err
	}
	return int64(n) + 1, nil
}
