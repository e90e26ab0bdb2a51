package history

import "errors"

// ErrDatabaseNotFound is returned by Open when the database file does not
// exist and CreateIfNotExists is disabled.
var ErrDatabaseNotFound = errors.New("history: database not found")
