package types

type contextKey string

// DBKey carries the shared database handle through the jobs CLI context.
const DBKey contextKey = "db"
