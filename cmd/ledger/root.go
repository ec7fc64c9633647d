package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ledger/internal/config"
	"ledger/internal/orchestrator"
	"ledger/internal/tenant"
)

// -----------------------------------------------------------------------------
// ROOT COMMAND — CLI ENTRY POINT
//
// The CLI is a THIN orchestration layer.
//
// It MUST NOT:
// - implement Closed Layer or Autonomy policy itself
// - mutate a repository directly
// - bypass the Orchestrator
//
// It MAY:
// - load configuration
// - resolve a tenant
// - invoke one Core operation per command
// -----------------------------------------------------------------------------

var rootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "ledger — governed decision-orchestration engine",
	Long: `
ledger drives decision requests through Situation -> Episode -> Protocol ->
Decision -> Contract, enforcing the Closed Layer and Autonomy mandates, and
recording every transition into a tamper-evident event log.

This CLI is a thin demonstration shell over a single tenant; it is not the
system's primary interface (spec.md names the HTTP gateway/SDK as the
external collaborator for that).
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	flagBaseDir string
	flagTenant  string
)

// runtime and registry are constructed once, lazily, the first command that
// needs a tenant instance calls core().
var (
	registry *tenant.Registry
	runtime  *tenant.Runtime
)

func core() (*orchestrator.Core, error) {
	if registry == nil {
		var err error
		registry, err = tenant.NewRegistry(flagBaseDir)
		if err != nil {
			return nil, err
		}
		runtime = tenant.NewRuntime(flagBaseDir, config.Default().EventLog, registry, zap.NewNop())
	}

	if _, err := registry.Get(flagTenant); err != nil {
		if _, regErr := registry.Register(flagTenant, flagTenant, config.Default().Quotas, nil); regErr != nil {
			return nil, regErr
		}
	}

	return runtime.Get(flagTenant)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBaseDir, "base-dir", "./data", "tenants root directory")
	rootCmd.PersistentFlags().StringVar(&flagTenant, "tenant", "default", "tenant id (auto-registered if new)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
