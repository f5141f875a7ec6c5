package adapter

// Dialect captures the engine-specific SQL the shell needs for
// introspection. Empty query strings mean the feature is unavailable.
type Dialect struct {
	Name string

	// Catalog is the table listing schema objects with
	// type, name, tbl_name and sql columns.
	Catalog string

	// VersionQuery returns a single text column with the engine version.
	VersionQuery string

	// SourceIDQuery returns the engine build identifier.
	SourceIDQuery string

	// ChangesQuery returns the rows modified by the last statement.
	ChangesQuery string

	// DatabasesQuery lists attached databases as (seq, name, file).
	DatabasesQuery string

	// PlanPrefix is prepended to a statement to obtain its query plan.
	PlanPrefix string

	// Pragmas reports whether PRAGMA statements are understood.
	Pragmas bool

	// VacuumInto reports whether VACUUM INTO can serve as a backup.
	VacuumInto bool
}

// SQLiteDialect is shared by both SQLite drivers.
var SQLiteDialect = &Dialect{
	Name:           "sqlite",
	Catalog:        "sqlite_master",
	VersionQuery:   "SELECT sqlite_version()",
	SourceIDQuery:  "SELECT sqlite_source_id()",
	ChangesQuery:   "SELECT changes()",
	DatabasesQuery: "SELECT seq, name, file FROM pragma_database_list",
	PlanPrefix:     "EXPLAIN QUERY PLAN ",
	Pragmas:        true,
	VacuumInto:     true,
}

// DuckDBDialect relies on DuckDB's sqlite_master compatibility view.
var DuckDBDialect = &Dialect{
	Name:           "duckdb",
	Catalog:        "sqlite_master",
	VersionQuery:   "SELECT version()",
	DatabasesQuery: "SELECT database_oid AS seq, database_name AS name, path AS file FROM duckdb_databases() WHERE NOT internal",
	PlanPrefix:     "EXPLAIN ",
}
