//go:build !cgo_sqlite

package catalog

import (
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"
