package domain

import "strings"

// PathSeparator joins ancestor element names into a semantic path.
// A path always starts with the separator under the empty root
// sentinel, e.g. "#fileDesc#titleStmt#author".
const PathSeparator = "#"

// AttributeSeparator joins a tag name to one of its attribute names,
// e.g. "author:role".
const AttributeSeparator = ":"

// ValueAt is one extracted value tagged with the sequence number of
// the leaf element it came from. All values sharing a sequence number
// under the same parent path originated from the same XML element.
type ValueAt struct {
	Seq   int
	Value string
}

// HeaderFields maps a semantic path to the ordered values found at
// that path across the whole header, in document order.
type HeaderFields map[string][]ValueAt

// Add appends a value under a path key.
func (f HeaderFields) Add(key string, v ValueAt) {
	f[key] = append(f[key], v)
}

// Merge folds other into f, appending value lists key by key.
func (f HeaderFields) Merge(other HeaderFields) {
	for k, vs := range other {
		f[k] = append(f[k], vs...)
	}
}

// GroupedFields regroups a flat HeaderFields by semantic type:
// semantic type → originating parent path → attribute name → values.
// The semantic type is the tag name with any attribute suffix removed,
// so "author" and "author:role" facts from the same element group
// under "author".
type GroupedFields map[string]map[string]map[string][]ValueAt

// Row is one reshaped logical row: the attribute values that
// originated from a single source XML element. An attribute normally
// carries one value; repeated attributes at the same sequence number
// accumulate.
type Row map[string][]string

// First returns the first value for an attribute, or "".
func (r Row) First(attr string) string {
	if vs := r[attr]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// SplitKey decomposes a full path key into its originating parent
// path, tag name and attribute name. A key without an attribute
// suffix yields attribute == tag, mirroring how text content is
// stored under the tag's own name.
func SplitKey(key string) (parent, tag, attribute string) {
	parent, rest := rpartition(key, PathSeparator)
	if strings.Contains(rest, AttributeSeparator) {
		tag, attribute = rpartitionPair(rest, AttributeSeparator)
		return parent, tag, attribute
	}
	return parent, rest, rest
}

// TagOfKey returns the final segment of a path key (the tag name with
// any attribute suffix still attached).
func TagOfKey(key string) string {
	_, rest := rpartition(key, PathSeparator)
	return rest
}

func rpartition(s, sep string) (before, after string) {
	if i := strings.LastIndex(s, sep); i >= 0 {
		return s[:i], s[i+len(sep):]
	}
	return "", s
}

func rpartitionPair(s, sep string) (before, after string) {
	i := strings.LastIndex(s, sep)
	return s[:i], s[i+len(sep):]
}
