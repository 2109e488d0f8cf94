package searchfilter

// ColumnKind tells a filter how an attribute is laid out in the record index.
type ColumnKind int

const (
	// KindField is a key of the fields/dates/subforms maps.
	KindField ColumnKind = iota
	// KindScalar is a String column.
	KindScalar
	// KindArray is an Array(String) column.
	KindArray
)

// Column is the resolved location of an attribute.
type Column struct {
	Name string
	Kind ColumnKind
}

// Schema maps attribute names to dedicated index columns. Anything not listed
// lives in the dynamic maps.
type Schema map[string]Column

// IndexSchema is the layout of the record_index table.
var IndexSchema = Schema{
	"record_type":              {Name: "record_type", Kind: KindScalar},
	"record_id":                {Name: "record_id", Kind: KindScalar},
	"module_id":                {Name: "module_id", Kind: KindScalar},
	"owned_by":                 {Name: "owned_by", Kind: KindScalar},
	"owned_by_agency_id":       {Name: "owned_by_agency_id", Kind: KindScalar},
	"owned_by_groups":          {Name: "owned_by_groups", Kind: KindArray},
	"associated_user_names":    {Name: "associated_user_names", Kind: KindArray},
	"associated_user_groups":   {Name: "associated_user_groups", Kind: KindArray},
	"associated_user_agencies": {Name: "associated_user_agencies", Kind: KindArray},
}

// Resolve returns the column backing the attribute.
func (s Schema) Resolve(attribute string) Column {
	if col, ok := s[attribute]; ok {
		return col
	}
	return Column{Name: attribute, Kind: KindField}
}
