// package repositories provides the persistence layer over sqlite.
//
// Each repository wraps a *sql.DB and maps rows to the entity types in
// internal/models. Callers own the connection lifecycle; repositories never
// open or close the database themselves.
package repositories
