// Command cityctl runs the city analyses offline against a CSV file and
// prints the results as JSON.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cityctl:", err)
		os.Exit(1)
	}
}
