package main

import (
	"fmt"

	"github.com/fwojciec/policycheck"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	result, err := deps.Pages.FetchPage(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", policycheck.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, result.Body)
	fmt.Fprintf(deps.Stderr, "%d characters\n", policycheck.ContentLength(result.Body))
	return nil
}
