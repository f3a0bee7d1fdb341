package app

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// PrintRoutes builds the handler and writes every registered route to w.
func (a *Application) PrintRoutes(w io.Writer) error {
	a.Build()

	routes := a.router.Routes()
	if len(routes) == 0 {
		_, err := fmt.Fprintln(w, "No routes registered.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATH\tNAME")
	for _, ri := range routes {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
	}
	return tw.Flush()
}
