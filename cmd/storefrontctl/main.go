// storefrontctl drives a running storefront from the terminal.
// Each command performs a single operation, making it composable for scripts.
//
// Examples:
//
//	storefrontctl products --category accessories
//	storefrontctl cart add 1 --size M --color Black --qty 2 --session alice
//	storefrontctl checkout --session alice
//	storefrontctl resolve
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s✗ %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}
}
