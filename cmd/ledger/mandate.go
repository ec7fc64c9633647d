package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ledger/internal/entities"
	"ledger/internal/orchestrator"
)

var mandateCmd = &cobra.Command{
	Use:   "mandate",
	Short: "Grant, revoke, and consume autonomy mandates",
}

var mandateGrantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Grant a new AutonomyMandate to an agent",
	RunE: func(cmd *cobra.Command, args []string) error {

		// -----------------------------------------------------------------
		// 1. CLI Argument Retrieval
		// -----------------------------------------------------------------

		agentID, _ := cmd.Flags().GetString("agent")
		mode, _ := cmd.Flags().GetString("mode")
		policies, _ := cmd.Flags().GetStringArray("allowed-policy")
		maxRiskProfile, _ := cmd.Flags().GetString("max-risk-profile")
		domains, _ := cmd.Flags().GetStringArray("allowed-domain")
		useCases, _ := cmd.Flags().GetIntSlice("allowed-use-case")
		triggerPhrases, _ := cmd.Flags().GetStringArray("human-trigger-phrase")
		grantedBy, _ := cmd.Flags().GetString("granted-by")
		maxUses, _ := cmd.Flags().GetInt("max-uses")

		if agentID == "" || grantedBy == "" {
			return errors.New("agent and granted-by are required")
		}

		m, ok := parseMandateMode(mode)
		if !ok {
			return fmt.Errorf("unrecognized mode %q (want TEACHING, ASSISTED, or AUTONOMOUS)", mode)
		}
		rp, ok := entities.ParseRiskProfile(maxRiskProfile)
		if !ok {
			return fmt.Errorf("unrecognized risk profile %q (want CONSERVATIVE, MODERATE, or AGGRESSIVE)", maxRiskProfile)
		}

		// -----------------------------------------------------------------
		// 2. Input Construction
		// -----------------------------------------------------------------

		input := orchestrator.MandateGrantInput{
			AgentID:             agentID,
			Mode:                m,
			AllowedPolicies:     policies,
			MaxRiskProfile:      rp,
			HumanTriggerPhrases: triggerPhrases,
			AllowedDomains:      domains,
			GrantedBy:           grantedBy,
		}
		for _, uc := range useCases {
			input.AllowedUseCases = append(input.AllowedUseCases, uc)
		}
		if maxUses > 0 {
			input.MaxUses = &maxUses
		}

		// -----------------------------------------------------------------
		// 3. Orchestrator Invocation
		// -----------------------------------------------------------------

		c, err := core()
		if err != nil {
			return err
		}
		granted, err := c.GrantMandate(input)
		if err != nil {
			return err
		}

		fmt.Printf("[+] Mandate granted | id=%s agent=%s mode=%s\n", granted.ID, granted.AgentID, granted.Mode)
		return nil
	},
}

var mandateRevokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Terminally revoke a mandate",
	RunE: func(cmd *cobra.Command, args []string) error {
		mandateID, _ := cmd.Flags().GetString("mandate")
		by, _ := cmd.Flags().GetString("by")
		reason, _ := cmd.Flags().GetString("reason")

		if mandateID == "" || by == "" {
			return errors.New("mandate and by are required")
		}

		c, err := core()
		if err != nil {
			return err
		}
		m, err := c.RevokeMandate(mandateID, by, reason)
		if err != nil {
			return err
		}

		fmt.Printf("[+] Mandate revoked | id=%s status=%s\n", m.ID, m.Status)
		return nil
	},
}

var mandateConsumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Consume one use against a mandate's max_uses budget",
	RunE: func(cmd *cobra.Command, args []string) error {
		mandateID, _ := cmd.Flags().GetString("mandate")
		if mandateID == "" {
			return errors.New("mandate is required")
		}

		c, err := core()
		if err != nil {
			return err
		}
		m, err := c.ConsumeMandateUse(mandateID)
		if err != nil {
			return err
		}

		fmt.Printf("[+] Mandate use consumed | id=%s uses=%d status=%s\n", m.ID, m.Uses, m.Status)
		return nil
	},
}

func parseMandateMode(s string) (entities.MandateMode, bool) {
	switch s {
	case "TEACHING":
		return entities.ModeTeaching, true
	case "ASSISTED":
		return entities.ModeAssisted, true
	case "AUTONOMOUS":
		return entities.ModeAutonomous, true
	default:
		return 0, false
	}
}

func init() {
	mandateGrantCmd.Flags().String("agent", "", "agent id the mandate is granted to")
	mandateGrantCmd.Flags().String("mode", "TEACHING", "TEACHING, ASSISTED, or AUTONOMOUS")
	mandateGrantCmd.Flags().StringArray("allowed-policy", nil, "an allowed policy name (repeatable)")
	mandateGrantCmd.Flags().String("max-risk-profile", "CONSERVATIVE", "CONSERVATIVE, MODERATE, or AGGRESSIVE")
	mandateGrantCmd.Flags().StringArray("allowed-domain", nil, "an allowed domain (repeatable)")
	mandateGrantCmd.Flags().IntSlice("allowed-use-case", nil, "an allowed use case id (repeatable)")
	mandateGrantCmd.Flags().StringArray("human-trigger-phrase", nil, "a human trigger phrase (repeatable)")
	mandateGrantCmd.Flags().String("granted-by", "", "identity granting the mandate")
	mandateGrantCmd.Flags().Int("max-uses", 0, "maximum use count, 0 for unbounded")

	mandateRevokeCmd.Flags().String("mandate", "", "mandate id")
	mandateRevokeCmd.Flags().String("by", "", "identity revoking the mandate")
	mandateRevokeCmd.Flags().String("reason", "", "revocation reason")

	mandateConsumeCmd.Flags().String("mandate", "", "mandate id")

	mandateCmd.AddCommand(mandateGrantCmd, mandateRevokeCmd, mandateConsumeCmd)
	rootCmd.AddCommand(mandateCmd)
}
