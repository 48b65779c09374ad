package health

import "context"

// StorePinger checks session store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// DatasetChecker reports whether a city table is loaded.
type DatasetChecker interface {
	Ready(ctx context.Context) error
}
