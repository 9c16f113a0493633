// Package deeds carries module-wide constants for the deeds ledger.
package deeds

// Version is the release of the deeds module and CLI.
const Version = "0.1.0"

// ModulePath is the Go import path of this module.
const ModulePath = "github.com/mesh-intelligence/deeds"

// Revision is the source revision the binary was built from, set at link
// time by the build target.
var Revision = "dev"
