package gateway

import "sort"

type sequenced struct {
	row Row
	seq int
}

// applyQuery trie puis limite ; à horodatage égal, l'ordre d'insertion départage
func applyQuery(rows []sequenced, q Query) []Row {
	if q.OrderBy != "" {
		sort.SliceStable(rows, func(i, j int) bool {
			ti, tj := rows[i].row.Time(q.OrderBy), rows[j].row.Time(q.OrderBy)
			if ti.Equal(tj) {
				if q.Descending {
					return rows[i].seq > rows[j].seq
				}
				return rows[i].seq < rows[j].seq
			}
			if q.Descending {
				return ti.After(tj)
			}
			return ti.Before(tj)
		})
	}
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.row.project(q.Columns))
	}
	return out
}
