package sqlite

// Schema DDL for all tables.
const (
	createPages = `CREATE TABLE pages (
    page_id TEXT PRIMARY KEY,
    type_id TEXT NOT NULL,
    page_type_id TEXT NOT NULL,
    properties TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createPageTemplates = `CREATE TABLE page_templates (
    page_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    format_id TEXT NOT NULL,
    template_id TEXT NOT NULL,
    PRIMARY KEY (page_id, position),
    FOREIGN KEY (page_id) REFERENCES pages(page_id) ON DELETE CASCADE
);`

	createTemplates = `CREATE TABLE templates (
    template_id TEXT PRIMARY KEY,
    title TEXT,
    template_type TEXT,
    description TEXT,
    created_at TEXT NOT NULL
);`

	createPageTypes = `CREATE TABLE page_types (
    page_type_id TEXT PRIMARY KEY,
    title TEXT,
    description TEXT,
    created_at TEXT NOT NULL
);`

	createPageAssociations = `CREATE TABLE page_associations (
    association_id TEXT PRIMARY KEY,
    source_id TEXT NOT NULL,
    dest_id TEXT NOT NULL,
    association_type TEXT NOT NULL,
    sort_order INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);`
)

// Index DDL for common queries.
const (
	idxPagesPageType         = `CREATE INDEX idx_pages_page_type ON pages(page_type_id);`
	idxPageTemplatesTemplate = `CREATE INDEX idx_page_templates_template ON page_templates(template_id);`
	idxAssociationsUnique    = `CREATE UNIQUE INDEX idx_associations_unique ON page_associations(association_type, source_id, dest_id);`
	idxAssociationsSource    = `CREATE INDEX idx_associations_source ON page_associations(association_type, source_id);`
	idxAssociationsDest      = `CREATE INDEX idx_associations_dest ON page_associations(association_type, dest_id);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createPages,
	createPageTemplates,
	createTemplates,
	createPageTypes,
	createPageAssociations,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxPagesPageType,
	idxPageTemplatesTemplate,
	idxAssociationsUnique,
	idxAssociationsSource,
	idxAssociationsDest,
}
