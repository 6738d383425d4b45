package resolver

import (
	"fmt"
	"sync"
)

// Driver opens a Resolver from a driver-specific data source name. The
// address/LNURL resolver is an external collaborator (spec.md §6); a real
// deployment links one in via a blank import of its driver package and
// Register, the way database/sql drivers register themselves.
type Driver interface {
	Open(dsn string) (Resolver, error)
}

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Driver)
)

// Register makes a Driver available under name. Panics on a duplicate or
// nil registration, mirroring database/sql.Register.
func Register(name string, driver Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if driver == nil {
		panic("resolver: Register driver is nil")
	}
	if _, dup := drivers[name]; dup {
		panic("resolver: Register called twice for driver " + name)
	}
	drivers[name] = driver
}

// Open looks up the driver registered under name and opens dsn with it.
func Open(name, dsn string) (Resolver, error) {
	driversMu.RLock()
	driver, ok := drivers[name]
	driversMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("resolver: unknown driver %q (forgot a blank import?)", name)
	}
	return driver.Open(dsn)
}
