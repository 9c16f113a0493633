// Command deeds is the command-line front end to the deeds ownership ledger.
package main

import "github.com/mesh-intelligence/deeds/internal/cli"

func main() {
	cli.Execute()
}
