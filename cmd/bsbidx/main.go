// Command bsbidx builds and queries a disk-resident inverted index over a
// corpus of text documents using blocked sort-based indexing.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
