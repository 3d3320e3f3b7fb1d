// Package splitpipe implements the split pipeline: indexing an input
// archive under a sort policy, then streaming its entries through a
// bounded channel to N archive-writing consumer workers.
package splitpipe

import (
	"fmt"

	"github.com/zipserve/zipserve/internal/archidx"
	"github.com/zipserve/zipserve/internal/config"
)

// SortKey derives the string a [config.SortField] policy orders entries
// by, chosen so lexicographic order on the key matches the intended sort
// order with the entry name as tiebreaker.
func SortKey(field config.SortField, entry archidx.Entry) (string, error) {
	switch field {
	case config.SortByName:
		return entry.Name, nil
	case config.SortBySize:
		return fmt.Sprintf("%020d-%s", entry.Size, entry.Name), nil
	case config.SortByTime:
		return fmt.Sprintf("%020d-%s", entry.LastModified, entry.Name), nil
	default:
		return "", fmt.Errorf("%w: unknown sort field %q", config.ErrInvalidInput, field)
	}
}
