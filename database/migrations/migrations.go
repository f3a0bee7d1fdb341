// Package migrations holds the schema migrations for the SQL drivers.
// Each file registers itself with migration.Register from init(); importing
// the package for side effects is enough to make them runnable.
package migrations
