// The main package for the snapreport executable.
package main

import (
	"github.com/halvorsen/snapreport/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
