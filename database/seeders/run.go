// Package seeders fills a database with sample data.
//
// Seeders register themselves from init():
//
//	func init() {
//	    seeders.Register("users", SeedUsers)
//	}
//
// and are run in registration order by `usersapi seed`.
package seeders

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/ChrisJohDev/pub-toptal-tsrestapi/app/services"
)

// SeederFunc is the signature for a seed function.
type SeederFunc func(ctx context.Context, users *services.UsersService) error

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry
)

// Register adds a seeder to the global registry.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// RunAll executes every registered seeder in registration order and stops
// on the first error.
func RunAll(ctx context.Context, users *services.UsersService, out io.Writer) error {
	mu.Lock()
	current := make([]seederEntry, len(entries))
	copy(current, entries)
	mu.Unlock()

	if len(current) == 0 {
		fmt.Fprintln(out, "No seeders registered.")
		return nil
	}

	for _, e := range current {
		if err := e.fn(ctx, users); err != nil {
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
		fmt.Fprintf(out, "Seeded: %s\n", e.name)
	}
	return nil
}
