// Moxie - Weaver Encounter Report Cards
//
// Moxie analyzes a recorded combat encounter and grades how well the
// rotation was played, pointing at the moments that cost each grade.
package main

import (
	"os"

	"github.com/moxie-gw2/moxie/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
