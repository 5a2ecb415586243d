package diag

import "github.com/tidwall/gjson"

// Field queries a single path out of a Dump result, e.g. Field(dump,
// "0.color") or Field(dump, "#.bufIndex") for every node's buffer index.
// It is a thin wrapper so callers never need to import gjson directly
// just to read one field of a structural dump.
func Field(dump, path string) gjson.Result {
	return gjson.Get(dump, path)
}

// Count returns how many nodes a Dump result describes.
func Count(dump string) int {
	return int(gjson.Parse(dump).Get("#").Int())
}
