package jsontable

import (
	"errors"
	"math"
	"sort"
	"strconv"
)

// InferType derives the column type of one sample value. key only serves the
// error message.
//
// Arrays and objects map to their own types, strings to String. Other
// primitives are tried as boolean, then as a floating point literal, then as
// an integer. Null maps to Unknown; any other primitive is an
// InvalidValueError rather than Unknown.
func InferType(key string, v Value) (ColumnType, error) {
	switch v.Kind() {
	case KindArray:
		return TypeArray, nil
	case KindObject:
		return TypeObject, nil
	case KindNull:
		return TypeUnknown, nil
	case KindString:
		return TypeString, nil
	}

	text := v.Content()
	switch {
	case isBoolean(text):
		return TypeBoolean, nil
	case isDouble(text):
		return TypeDouble, nil
	case isLong(text):
		return TypeLong, nil
	}
	return TypeUnknown, &InvalidValueError{Key: key, Value: text}
}

func isBoolean(text string) bool {
	return text == "true" || text == "false"
}

// isDouble accepts floating point literals that are not plain int64
// integers; those belong to Long. A well-formed literal beyond float64 range
// (1e400) is still a Double. NaN and Inf words are not.
func isDouble(text string) bool {
	if isLong(text) {
		return false
	}
	f, err := strconv.ParseFloat(text, 64)
	if errors.Is(err, strconv.ErrRange) {
		return true
	}
	if err != nil {
		return false
	}
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func isLong(text string) bool {
	_, err := strconv.ParseInt(text, 10, 64)
	return err == nil
}

// BuildSchema infers a TableConfig from one representative object: one column
// per key, label = key, visible in creation forms, sorted by key in byte
// order so that key insertion order never changes the result.
func BuildSchema(sample *Object) (TableConfig, error) {
	columns := make([]ColumnConfig, 0, sample.Len())
	var inferErr error
	sample.Range(func(key string, v Value) bool {
		typ, err := InferType(key, v)
		if err != nil {
			inferErr = err
			return false
		}
		columns = append(columns, NewColumn(key).WithType(typ))
		return true
	})
	if inferErr != nil {
		return TableConfig{}, inferErr
	}
	sort.Slice(columns, func(i, j int) bool {
		return columns[i].Key < columns[j].Key
	})
	return TableConfig{columns: columns}, nil
}
