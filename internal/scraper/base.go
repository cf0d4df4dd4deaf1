// PageSource and Card are what the engine needs from a rendered results page.
// How the page is fetched and how nodes are located is up to the implementation.

package scraper

import (
	"context"
	"time"
)

// Role identifies a piece of text inside a result card.
type Role string

const (
	RoleTitle       Role = "title"
	RoleCompany     Role = "company"
	RoleLocation    Role = "location"
	RoleSalary      Role = "salary"
	RolePostedDate  Role = "posted-date"
	RoleDescription Role = "description"
)

// PageSource is a single browsing session over the results listing.
type PageSource interface {
	// Open navigates to address.
	Open(ctx context.Context, address string) error
	// AwaitReady waits up to timeout for the result container to appear.
	AwaitReady(ctx context.Context, timeout time.Duration) bool
	// Reload reloads the current address.
	Reload(ctx context.Context) error
	// Cards lists the result cards of the current page in page order.
	Cards(ctx context.Context) ([]Card, error)
	Close() error
}

// Card is one listing entry on a results page.
type Card interface {
	Link() (string, bool)
	Text(role Role) (string, bool)
}

// Snapshotter is implemented by page sources that can capture the current
// page for debugging.
type Snapshotter interface {
	Snapshot(name, message string)
}
