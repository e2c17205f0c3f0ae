// Package logtail reads the tail of a log file.
//
// Read keeps a ring buffer of the last maxLines lines, so memory stays
// bounded by the tail size rather than the file size. ReadObjects builds on
// it for JSON-lines logs (the format zap writes) and returns one table item
// per object line, which lets the console show its own log through the same
// table engine as any API payload.
//
// A missing file is not an error: it simply has no lines yet.
package logtail
