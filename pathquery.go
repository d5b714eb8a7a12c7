package topper

import "strings"

// DecomposePath splits a request or template path into its slash-delimited
// components. A leading '/' produces no empty leading segment; a trailing
// '/' is dropped rather than producing a trailing empty segment. Consecutive
// delimiters are NOT collapsed -- "//a" decomposes to ["", "a"], matching
// the source behaviour this framework was distilled from.
func DecomposePath(path string) []string {
	trimmed := strings.TrimPrefix(path, "/")
	trimmed = strings.TrimSuffix(trimmed, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// QueryPair is a single key/value entry from a decomposed query or form
// string, in the order it appeared.
type QueryPair struct {
	Key   string
	Value string
}

// DecomposeQuery splits a query (or x-www-form-urlencoded body) string into
// ordered key/value pairs. Pairs are separated by '&' or ';'; a pair lacking
// '=' has an empty value. No percent-decoding is performed. Consecutive
// separators are not collapsed, matching the source's QueryString iterator.
func DecomposeQuery(query string) []QueryPair {
	if query == "" {
		return nil
	}
	var pairs []QueryPair
	start := 0
	for i := 0; i <= len(query); i++ {
		if i == len(query) || query[i] == '&' || query[i] == ';' {
			pairs = append(pairs, splitKeyValue(query[start:i]))
			start = i + 1
		}
	}
	return pairs
}

func splitKeyValue(part string) QueryPair {
	if eq := strings.IndexByte(part, '='); eq >= 0 {
		return QueryPair{Key: part[:eq], Value: part[eq+1:]}
	}
	return QueryPair{Key: part, Value: ""}
}
