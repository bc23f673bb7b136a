/*
flag Package set up cli flags shared across binaries

Usage:

	Flags listed in this package are shared across boundaries and
	binary-agnostic. For binary dependent flags please define in their
	respective package. Parse must be called from main before any flag
	value is read; it is deliberately not called from init so that the
	test runner can register its own flags first.
*/
package flag

import (
	"flag"
)

const (
	APIServer = "api_server"
	Seeder    = "seeder"
)

var (
	IsDevelopment bool
	ServiceName   string
)

func init() {
	flag.BoolVar(&IsDevelopment, "dev", true, "set to true if the current run is for development. default value is true")
	flag.StringVar(&ServiceName, "service", APIServer, "'api_server' or 'seeder'")
}

// Parse parses the command line flags registered by this package.
func Parse() {
	flag.Parse()
}
