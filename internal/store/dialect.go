package store

// Dialect abstracts the SQL differences between SQLite and PostgreSQL.
type Dialect interface {
	// DriverName returns the driver name for sql.Open()
	DriverName() string

	// Placeholder returns the parameter placeholder for a 1-indexed position
	Placeholder(position int) string

	// SupportsLastInsertID is false when inserts must use RETURNING instead
	SupportsLastInsertID() bool

	ReturningClause(column string) string

	// InitStatements run once per connection before migrations
	InitStatements() []string

	// SerialPrimaryKey is the column definition for an auto-increment id
	SerialPrimaryKey() string

	IsDuplicateKeyError(err error) bool
}

// DialectType identifies the database dialect.
type DialectType string

const (
	DialectSQLite   DialectType = "sqlite"
	DialectPostgres DialectType = "postgres"
)

// NewDialect returns the dialect for t. Unknown types fall back to SQLite.
func NewDialect(t DialectType) Dialect {
	switch t {
	case DialectPostgres:
		return &PostgresDialect{}
	default:
		return &SQLiteDialect{}
	}
}
