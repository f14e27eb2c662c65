package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	stackerrors "github.com/pkgaudit/pkgaudit/pkg/errors"
)

// auditCommand creates the audit command: audits a single npm package and
// prints the resulting report as JSON to stdout. On failure the error is
// written to stderr and a {"error": "..."} object is still written to
// stdout so scripted callers always get parseable output, matching the
// original tool's dual-channel convention.
func (c *CLI) auditCommand() *cobra.Command {
	var refresh bool
	var noCache bool

	cmd := &cobra.Command{
		Use:   "audit <package>",
		Short: "Audit an npm package for supply-chain risk",
		Long:  `audit fetches npm registry metadata and the latest release archive for the named package, statically inspects both, and prints a weighted risk report as JSON.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			name := strings.TrimSpace(args[0])
			if name == "" {
				return writeAuditFailure(fmt.Errorf("package name cannot be empty"))
			}

			orch, err := c.newOrchestrator(noCache)
			if err != nil {
				return writeAuditFailure(err)
			}

			p := newProgress(logger)
			logger.Infof("auditing %s", name)

			report, err := orch.Audit(cmd.Context(), name, refresh)
			if err != nil {
				return writeAuditFailure(err)
			}

			p.done(fmt.Sprintf("audited %s@%s", report.Package, report.Version))

			return printReport(report)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the report cache and re-audit")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the on-disk cache entirely")

	return cmd
}

// printReport writes report as indented JSON to stdout.
func printReport(report any) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// writeAuditFailure prints err's user-facing message to stderr and a
// {"error": "..."} JSON object to stdout, then returns err so cobra exits
// non-zero with usage suppressed.
func writeAuditFailure(err error) error {
	msg := stackerrors.UserMessage(err)
	fmt.Fprintln(os.Stderr, msg)

	payload, marshalErr := json.MarshalIndent(map[string]string{"error": msg}, "", "  ")
	if marshalErr == nil {
		fmt.Println(string(payload))
	}

	return err
}
