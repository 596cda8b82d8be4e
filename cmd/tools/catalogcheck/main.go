package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/globalcontainerexchange/gce-api/internal/catalog"
)

// catalogcheck parses a price catalog CSV and verifies every size, feature,
// add-on, logo and insurance code resolves. Without -file it checks the
// embedded default catalog.
// Exit code 0 = ok, 1 = invalid catalog, 2 = other error.
func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("catalogcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", "", "catalog CSV to check (default: embedded catalog)")
	quiet := fs.Bool("q", false, "only report problems")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	src := catalog.NewSource(*file)
	data, err := src.Read(context.Background())
	if err != nil {
		fmt.Fprintf(stderr, "catalogcheck error: %v\n", err)
		return 2
	}
	cat, err := catalog.Build(data)
	if err != nil {
		fmt.Fprintf(stderr, "INVALID: %s: %v\n", src, err)
		return 1
	}

	if !*quiet {
		tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', tabwriter.AlignRight|tabwriter.Debug)
		for _, e := range cat.Entries() {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", e.ItemCode, e.Description, e.BasePrice, e.OptionPrice, e.Category)
		}
		_ = tw.Flush()
	}
	fmt.Fprintf(stdout, "catalogcheck: OK (%s, %d entries, version %.12s)\n", src, cat.Len(), catalog.Version(data))
	return 0
}
