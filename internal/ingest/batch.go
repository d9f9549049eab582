package ingest

import (
	"time"

	"github.com/mohit83k/bngclients/internal/model"
)

// BuildUpserts stamps every record with now and collapses repeated MACs.
// The last occurrence of a MAC wins; surviving records keep first-seen order.
func BuildUpserts(records []model.ClientRecord, now time.Time) []model.ClientRecord {
	pos := make(map[string]int, len(records))
	out := make([]model.ClientRecord, 0, len(records))
	for _, rec := range records {
		rec.CreatedAt = now.UTC()
		if i, ok := pos[rec.MAC]; ok {
			out[i] = rec
			continue
		}
		pos[rec.MAC] = len(out)
		out = append(out, rec)
	}
	return out
}
