package tei

import "github.com/obvil-labs/teiscope/internal/core/domain"

// GroupByKeyword regroups a flat path-keyed map into the 3-level
// structure semantic type → originating parent path → attribute →
// values, so all facts about e.g. "author" elements are reachable
// under one entry point regardless of attribute suffixes.
func GroupByKeyword(fields domain.HeaderFields) domain.GroupedFields {
	grouped := make(domain.GroupedFields)
	for key, values := range fields {
		if len(values) == 0 {
			continue
		}
		parent, tag, attr := domain.SplitKey(key)

		byParent, ok := grouped[tag]
		if !ok {
			byParent = make(map[string]map[string][]domain.ValueAt)
			grouped[tag] = byParent
		}
		byAttr, ok := byParent[parent]
		if !ok {
			byAttr = make(map[string][]domain.ValueAt)
			byParent[parent] = byAttr
		}
		byAttr[attr] = append(byAttr[attr], values...)
	}
	return grouped
}

// RowsBySequence pivots one parent path's attribute lists into
// per-sequence rows: every attribute value tagged with the same
// sequence number is assembled into one row, recovering the facts of
// one physical XML element as one logical record.
func RowsBySequence(attrs map[string][]domain.ValueAt) map[int]domain.Row {
	rows := make(map[int]domain.Row)
	for attr, values := range attrs {
		for _, v := range values {
			row, ok := rows[v.Seq]
			if !ok {
				row = make(domain.Row)
				rows[v.Seq] = row
			}
			row[attr] = append(row[attr], v.Value)
		}
	}
	return rows
}
