package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ledger/internal/entities"
	"ledger/internal/orchestrator"
)

var decisionCmd = &cobra.Command{
	Use:   "decision",
	Short: "Register Decisions and issue Contracts",
}

var decisionRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a Decision against a VALIDATED Protocol and issue its Contract",
	RunE: func(cmd *cobra.Command, args []string) error {

		// -----------------------------------------------------------------
		// 1. CLI Argument Retrieval
		// -----------------------------------------------------------------

		episodeID, _ := cmd.Flags().GetString("episode")
		chosen, _ := cmd.Flags().GetString("chosen-alternative")
		criteria, _ := cmd.Flags().GetStringArray("criterion")
		conditions, _ := cmd.Flags().GetStringArray("condition")
		riskProfile, _ := cmd.Flags().GetString("risk-profile")
		issuedTo, _ := cmd.Flags().GetString("issued-to")
		minObservations, _ := cmd.Flags().GetStringArray("minimum-observation")

		if episodeID == "" || chosen == "" || issuedTo == "" {
			return errors.New("episode, chosen-alternative, and issued-to are required")
		}
		rp, ok := entities.ParseRiskProfile(riskProfile)
		if !ok {
			return fmt.Errorf("unrecognized risk profile %q (want CONSERVATIVE, MODERATE, or AGGRESSIVE)", riskProfile)
		}

		// -----------------------------------------------------------------
		// 2. Input Construction
		// -----------------------------------------------------------------

		input := orchestrator.DecisionInput{
			ChosenAlternative:           chosen,
			Criteria:                    criteria,
			Conditions:                  conditions,
			RiskProfile:                 rp,
			IssuedTo:                    issuedTo,
			MinimumRequiredObservations: minObservations,
		}

		// -----------------------------------------------------------------
		// 3. Orchestrator Invocation
		// -----------------------------------------------------------------

		c, err := core()
		if err != nil {
			return err
		}
		contract, err := c.RegisterDecision(episodeID, input)
		if err != nil {
			return err
		}

		fmt.Printf("[+] Contract issued | id=%s decision_id=%s authorized_alternative=%s\n",
			contract.ID, contract.DecisionID, contract.AuthorizedAlternative)
		return nil
	},
}

func init() {
	decisionRegisterCmd.Flags().String("episode", "", "episode id")
	decisionRegisterCmd.Flags().String("chosen-alternative", "", "must match the episode's validated protocol")
	decisionRegisterCmd.Flags().StringArray("criterion", nil, "a decision criterion (repeatable)")
	decisionRegisterCmd.Flags().StringArray("condition", nil, "a mandatory condition attached to the contract (repeatable)")
	decisionRegisterCmd.Flags().String("risk-profile", "CONSERVATIVE", "must match the episode's validated protocol")
	decisionRegisterCmd.Flags().String("issued-to", "", "agent or party the resulting contract is issued to")
	decisionRegisterCmd.Flags().StringArray("minimum-observation", nil, "a minimum required observation string the contract demands (repeatable)")

	decisionCmd.AddCommand(decisionRegisterCmd)
	rootCmd.AddCommand(decisionCmd)
}
