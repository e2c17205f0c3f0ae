package jsontable

import "fmt"

// ColumnType is the inferred or declared type of a column.
type ColumnType int

const (
	TypeString ColumnType = iota
	TypeBoolean
	TypeDouble
	TypeLong
	TypeArray
	TypeObject
	// TypeUnknown is only produced for a null sample, whose real type cannot
	// be deduced from one value.
	TypeUnknown
)

var columnTypeNames = map[ColumnType]string{
	TypeString:  "string",
	TypeBoolean: "boolean",
	TypeDouble:  "double",
	TypeLong:    "long",
	TypeArray:   "array",
	TypeObject:  "object",
	TypeUnknown: "unknown",
}

func (t ColumnType) String() string {
	if name, ok := columnTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ColumnType(%d)", int(t))
}

// ParseColumnType maps a type name back to its ColumnType.
func ParseColumnType(name string) (ColumnType, bool) {
	for t, n := range columnTypeNames {
		if n == name {
			return t, true
		}
	}
	return TypeString, false
}

// ColumnConfig describes one column: the object key it reads, the header
// text, whether creation forms skip it, and its type.
type ColumnConfig struct {
	Key              string
	Label            string
	HiddenInCreation bool
	Type             ColumnType
}

// NewColumn returns a column for key with the default label (the key itself)
// and type String.
func NewColumn(key string) ColumnConfig {
	return ColumnConfig{Key: key, Label: key, Type: TypeString}
}

// WithLabel returns a copy of c with a different header text.
func (c ColumnConfig) WithLabel(label string) ColumnConfig {
	c.Label = label
	return c
}

// WithType returns a copy of c with a different type.
func (c ColumnConfig) WithType(t ColumnType) ColumnConfig {
	c.Type = t
	return c
}

// HiddenInCreationForm returns a copy of c that creation forms omit.
func (c ColumnConfig) HiddenInCreationForm() ColumnConfig {
	c.HiddenInCreation = true
	return c
}

// DisplayLabel returns Label, or Key when the label was left empty.
func (c ColumnConfig) DisplayLabel() string {
	if c.Label == "" {
		return c.Key
	}
	return c.Label
}

// TableConfig is an ordered list of columns with unique keys. Order is the
// left-to-right order of the rendered grid.
type TableConfig struct {
	columns []ColumnConfig
}

// NewTableConfig validates columns and freezes them into a TableConfig.
func NewTableConfig(columns ...ColumnConfig) (TableConfig, error) {
	seen := make(map[string]struct{}, len(columns))
	for i, c := range columns {
		if c.Key == "" {
			return TableConfig{}, fmt.Errorf("column %d: %w", i, ErrEmptyColumnKey)
		}
		if _, dup := seen[c.Key]; dup {
			return TableConfig{}, &DuplicateColumnError{Key: c.Key}
		}
		seen[c.Key] = struct{}{}
	}
	dup := make([]ColumnConfig, len(columns))
	copy(dup, columns)
	return TableConfig{columns: dup}, nil
}

// MustTableConfig is NewTableConfig for static configurations; it panics on
// an invalid column list.
func MustTableConfig(columns ...ColumnConfig) TableConfig {
	conf, err := NewTableConfig(columns...)
	if err != nil {
		panic(err)
	}
	return conf
}

// Columns returns a copy of the columns in order.
func (t TableConfig) Columns() []ColumnConfig {
	dup := make([]ColumnConfig, len(t.columns))
	copy(dup, t.columns)
	return dup
}

// Len returns the number of columns.
func (t TableConfig) Len() int { return len(t.columns) }

// Column returns the column at index i.
func (t TableConfig) Column(i int) ColumnConfig { return t.columns[i] }

// Keys returns the column keys in order.
func (t TableConfig) Keys() []string {
	keys := make([]string, len(t.columns))
	for i, c := range t.columns {
		keys[i] = c.Key
	}
	return keys
}

// CreationColumns returns the columns a creation form should ask for.
func (t TableConfig) CreationColumns() []ColumnConfig {
	out := make([]ColumnConfig, 0, len(t.columns))
	for _, c := range t.columns {
		if !c.HiddenInCreation {
			out = append(out, c)
		}
	}
	return out
}

// TableData is the renderer input: the items to display and an optional
// explicit schema. A nil Conf means the schema is inferred from Items[0].
type TableData struct {
	Items []*Object
	Conf  *TableConfig
}

// EmptyTableData is the canonical "no data" value.
func EmptyTableData() TableData {
	return TableData{}
}

// NewTableData builds a TableData with an explicit schema.
func NewTableData(items []*Object, conf TableConfig) TableData {
	return TableData{Items: items, Conf: &conf}
}
