// Package jsontable turns arbitrary JSON objects into a layout-ready grid.
//
// # Overview
//
// Callers hand the package a sequence of JSON objects and, optionally, an
// explicit column list. When no columns are given, a schema is inferred from
// the first object. Every object is then laid out against that schema, one
// cell per column, with equal column weights.
//
// # Pipeline
//
//	raw bytes ──> Decode / DecodeYAML ──> []*Object
//	                                        │
//	                   TableData{Items, Conf}
//	                                        │
//	             Conf == nil ? BuildSchema(Items[0]) : *Conf
//	                                        │
//	                                     Render
//	                                        │
//	                 RenderedTable{Header, Rows, Indicator}
//
// # Type Inference
//
// InferType checks a value in this order:
//
//	array           -> TypeArray
//	object          -> TypeObject
//	string          -> TypeString
//	true / false    -> TypeBoolean
//	float literal   -> TypeDouble   (not an int64 integer)
//	int64 literal   -> TypeLong
//	null            -> TypeUnknown
//	anything else   -> *InvalidValueError
//
// TypeUnknown is reserved for null. A primitive that is none of the above
// (NaN, infinities, garbage built through Number) fails the whole render pass
// instead of degrading silently.
//
// # Rendering Rules
//
//   - No items: a single "Empty" indicator cell, no inference at all.
//   - Every header and data cell weighs 1/max(1, columns).
//   - Missing keys and array/object values render as "".
//   - Keys outside the schema are ignored.
//   - Row order follows item order. Nothing is sorted or filtered here.
//
// The schema always comes from the first item. Keys that appear only in later
// items are never shown.
//
// # Concurrency
//
// Everything in this package is pure. Objects, configs and rendered tables are
// immutable once built and may be shared across goroutines.
package jsontable
