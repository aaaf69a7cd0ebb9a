// Command startupcli explores a dataset of startup valuations: headline
// metrics, regional breakdowns, investor rankings, charts, an Excel
// workbook and an interactive map.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
