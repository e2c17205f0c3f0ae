package jsontable

import (
	"errors"
	"fmt"
)

// ErrEmptyColumnKey is returned when a column is declared without a key.
var ErrEmptyColumnKey = errors.New("column key is empty")

// InvalidValueError reports a JSON primitive that is neither a string, a
// boolean, nor a number. It aborts schema inference for the whole table.
type InvalidValueError struct {
	Key   string
	Value string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("unexpected value %s for %s", e.Value, e.Key)
}

// DuplicateColumnError reports a key declared twice in one TableConfig.
type DuplicateColumnError struct {
	Key string
}

func (e *DuplicateColumnError) Error() string {
	return fmt.Sprintf("duplicate column key %q", e.Key)
}
