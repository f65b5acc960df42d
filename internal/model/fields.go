package model

// FieldKind discriminates how a query value is coerced for an API field
type FieldKind int

const (
	KindGeneric FieldKind = iota
	KindBoolean
	KindInteger
	KindTags
)

// Field describes one attribute a listing endpoint exposes. Column names
// the backing database column; computed fields leave it empty and cannot
// be filtered or ordered on.
type Field struct {
	Name   string
	Kind   FieldKind
	Column string
}

// Stored reports whether the field maps to a database column
func (f Field) Stored() bool {
	return f.Column != ""
}

// PageAPIFields returns the attribute set the pages API exposes
func PageAPIFields() []Field {
	return []Field{
		{Name: "id", Kind: KindInteger, Column: "id"},
		{Name: "title", Kind: KindGeneric, Column: "title"},
		{Name: "slug", Kind: KindGeneric, Column: "slug"},
		{Name: "live", Kind: KindBoolean, Column: "live"},
		{Name: "show_in_menus", Kind: KindBoolean, Column: "show_in_menus"},
		{Name: "depth", Kind: KindInteger, Column: "depth"},
		{Name: "numchild", Kind: KindInteger, Column: "numchild"},
		{Name: "content_type", Kind: KindGeneric, Column: "content_type"},
		{Name: "search_description", Kind: KindGeneric, Column: "search_description"},
		{Name: "tags", Kind: KindTags, Column: "tags"},
		{Name: "detail_url", Kind: KindGeneric},
	}
}
