package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ledger/internal/entities"
	"ledger/internal/orchestrator"
)

var observationCmd = &cobra.Command{
	Use:   "observation",
	Short: "Register ConsequenceObservations against a Contract",
}

var observationRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a ConsequenceObservation against a Contract",
	RunE: func(cmd *cobra.Command, args []string) error {

		// -----------------------------------------------------------------
		// 1. CLI Argument Retrieval
		// -----------------------------------------------------------------

		contractID, _ := cmd.Flags().GetString("contract")
		observedDescription, _ := cmd.Flags().GetString("observed-description")
		limitsRespected, _ := cmd.Flags().GetBool("limits-respected")
		conditionsMet, _ := cmd.Flags().GetBool("conditions-met")
		perceivedDescription, _ := cmd.Flags().GetString("perceived-description")
		minimumEvidences, _ := cmd.Flags().GetStringArray("minimum-evidence")
		registeredBy, _ := cmd.Flags().GetString("registered-by")
		notes, _ := cmd.Flags().GetString("notes")

		agentID, _ := cmd.Flags().GetString("agent")
		severity, _ := cmd.Flags().GetString("trigger-severity")
		category, _ := cmd.Flags().GetString("trigger-category")
		violatedLimits, _ := cmd.Flags().GetBool("trigger-violated-limits")
		relevantLoss, _ := cmd.Flags().GetBool("trigger-relevant-loss")

		if contractID == "" || registeredBy == "" {
			return errors.New("contract and registered-by are required")
		}

		// -----------------------------------------------------------------
		// 2. Input Construction
		// -----------------------------------------------------------------

		input := orchestrator.ObservationInput{
			Observed: entities.Observed{
				Description:     observedDescription,
				LimitsRespected: limitsRespected,
				ConditionsMet:   conditionsMet,
			},
			Perceived: entities.Perceived{
				Description: perceivedDescription,
			},
			MinimumEvidences: minimumEvidences,
			RegisteredBy:     registeredBy,
			Notes:            notes,
		}

		if agentID != "" {
			input.AgentID = agentID
			input.Trigger = &entities.AutonomyTrigger{
				AgentID:        agentID,
				Severity:       parseTriggerSeverity(severity),
				Category:       entities.TriggerCategory(category),
				ViolatedLimits: violatedLimits,
				RelevantLoss:   relevantLoss,
			}
		}

		// -----------------------------------------------------------------
		// 3. Orchestrator Invocation
		// -----------------------------------------------------------------

		c, err := core()
		if err != nil {
			return err
		}
		o, err := c.RegisterConsequence(contractID, input)
		if err != nil {
			return err
		}

		fmt.Printf("[+] Consequence observation registered | id=%s contract_id=%s\n", o.ID, o.ContractID)
		return nil
	},
}

func parseTriggerSeverity(s string) entities.TriggerSeverity {
	switch s {
	case "MEDIUM":
		return entities.SeverityMedium
	case "HIGH":
		return entities.SeverityHigh
	case "CRITICAL":
		return entities.SeverityCritical
	default:
		return entities.SeverityLow
	}
}

func init() {
	observationRegisterCmd.Flags().String("contract", "", "contract id")
	observationRegisterCmd.Flags().String("observed-description", "", "what objectively happened")
	observationRegisterCmd.Flags().Bool("limits-respected", true, "whether the contract's execution limits were respected")
	observationRegisterCmd.Flags().Bool("conditions-met", true, "whether the contract's mandatory conditions were met")
	observationRegisterCmd.Flags().String("perceived-description", "", "how the registering party read the outcome")
	observationRegisterCmd.Flags().StringArray("minimum-evidence", nil, "must be a superset of the contract's minimum_required_observations (repeatable)")
	observationRegisterCmd.Flags().String("registered-by", "", "identity registering the observation")
	observationRegisterCmd.Flags().String("notes", "", "free-text notes")
	observationRegisterCmd.Flags().String("agent", "", "agent id whose active mandates the consequence policy evaluates against (optional)")
	observationRegisterCmd.Flags().String("trigger-severity", "LOW", "LOW, MEDIUM, HIGH, or CRITICAL")
	observationRegisterCmd.Flags().String("trigger-category", "OTHER", "OTHER, LEGAL, or ETHICAL")
	observationRegisterCmd.Flags().Bool("trigger-violated-limits", false, "whether the contract's limits were violated")
	observationRegisterCmd.Flags().Bool("trigger-relevant-loss", false, "whether a relevant loss occurred")

	observationCmd.AddCommand(observationRegisterCmd)
	rootCmd.AddCommand(observationCmd)
}
