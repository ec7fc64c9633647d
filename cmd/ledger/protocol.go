package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ledger/internal/entities"
	"ledger/internal/orchestrator"
)

var protocolCmd = &cobra.Command{
	Use:   "protocol",
	Short: "Build Protocols against Episodes",
}

var protocolBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Validate and persist a Protocol for an Episode",
	RunE: func(cmd *cobra.Command, args []string) error {

		// -----------------------------------------------------------------
		// 1. CLI Argument Retrieval
		// -----------------------------------------------------------------

		episodeID, _ := cmd.Flags().GetString("episode")
		criteria, _ := cmd.Flags().GetStringArray("criterion")
		considered, _ := cmd.Flags().GetStringArray("considered-risk")
		evaluated, _ := cmd.Flags().GetStringArray("evaluated-alternative")
		chosen, _ := cmd.Flags().GetString("chosen-alternative")
		memoryIDs, _ := cmd.Flags().GetStringArray("consulted-memory")
		riskProfile, _ := cmd.Flags().GetString("risk-profile")
		validatedBy, _ := cmd.Flags().GetString("validated-by")

		if episodeID == "" || chosen == "" {
			return errors.New("episode and chosen-alternative are required")
		}
		rp, ok := entities.ParseRiskProfile(riskProfile)
		if !ok {
			return fmt.Errorf("unrecognized risk profile %q (want CONSERVATIVE, MODERATE, or AGGRESSIVE)", riskProfile)
		}

		// -----------------------------------------------------------------
		// 2. Draft Construction
		// -----------------------------------------------------------------

		draft := orchestrator.ProtocolDraft{
			MinimumCriteria:       criteria,
			ConsideredRisks:       considered,
			RiskProfile:           rp,
			EvaluatedAlternatives: evaluated,
			ChosenAlternative:     chosen,
			ConsultedMemoryIDs:    memoryIDs,
			ValidatedBy:           validatedBy,
		}

		// -----------------------------------------------------------------
		// 3. Orchestrator Invocation
		// -----------------------------------------------------------------

		c, err := core()
		if err != nil {
			return err
		}
		p, err := c.BuildProtocol(episodeID, draft)
		if err != nil {
			return err
		}

		fmt.Printf("[+] Protocol built | id=%s state=%s\n", p.ID, p.State)
		if p.State == entities.ProtocolRejected {
			fmt.Printf("    rejection_reason=%s\n", p.RejectionReason)
		}
		return nil
	},
}

func init() {
	protocolBuildCmd.Flags().String("episode", "", "episode id")
	protocolBuildCmd.Flags().StringArray("criterion", nil, "a minimum criterion (repeatable)")
	protocolBuildCmd.Flags().StringArray("considered-risk", nil, "a considered risk (repeatable)")
	protocolBuildCmd.Flags().StringArray("evaluated-alternative", nil, "an evaluated alternative (repeatable)")
	protocolBuildCmd.Flags().String("chosen-alternative", "", "the alternative chosen, must be among evaluated-alternative")
	protocolBuildCmd.Flags().StringArray("consulted-memory", nil, "an attachment id returned by situation consult-memory (repeatable)")
	protocolBuildCmd.Flags().String("risk-profile", "CONSERVATIVE", "CONSERVATIVE, MODERATE, or AGGRESSIVE")
	protocolBuildCmd.Flags().String("validated-by", "", "identity of the validating party")

	protocolCmd.AddCommand(protocolBuildCmd)
	rootCmd.AddCommand(protocolCmd)
}
