package types

// Standard table names for Store.GetTable.
const (
	TablePages            = "pages"
	TableTemplates        = "templates"
	TablePageTypes        = "page_types"
	TablePageAssociations = "page_associations"
)

// StandardTableNames lists all standard table names for enumeration.
var StandardTableNames = []string{
	TablePages,
	TableTemplates,
	TablePageTypes,
	TablePageAssociations,
}
