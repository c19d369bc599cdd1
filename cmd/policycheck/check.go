package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/policycheck"
)

// Run executes the check command.
func (c *CheckCmd) Run(deps *Dependencies) error {
	resp, err := deps.Checker.Check(deps.Ctx, &policycheck.CheckRequest{
		PageURL:   c.PageURL,
		PolicyURL: c.PolicyURL,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", policycheck.ErrorMessage(err))
		return err
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
