package repository

import "errors"

// This file defines custom errors specific to the repository layer.
// This allows the repository to communicate outcomes in a database-agnostic way.

// ErrNotFound is a repository-specific sentinel error. It is returned when a
// query for a single entity (e.g., GetCheckpoint) finds no rows, and also when
// a row exists but is owned by a different subject. Merging the two cases
// means an unauthorized caller cannot learn whether a checkpoint id exists.
//
// The service layer should check for this specific error and translate it into
// a domain-level error (like `app_errors.ErrNotFound`), thus decoupling the
// business logic from the data access implementation. This abstracts away the
// underlying database driver's error (e.g., `sql.ErrNoRows`).
var ErrNotFound = errors.New("repository: not found")

// ErrActiveCheckpoint is returned when a delete targets the currently active
// checkpoint without designating a replacement. A conversation that has
// checkpoints must never be left without an active one, so the delete fails
// closed. The service layer translates this into a domain-level conflict.
var ErrActiveCheckpoint = errors.New("repository: checkpoint is active")
