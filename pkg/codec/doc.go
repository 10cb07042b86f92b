// Package codec provides PageCodec implementations. XML reads and writes
// the page document format used by site definitions on disk; JSON is the
// record format the storage backend writes to its JSONL files.
package codec
