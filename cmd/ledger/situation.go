package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ledger/internal/entities"
	"ledger/internal/orchestrator"
	"ledger/internal/validation"
)

// jsonSituationDraft is the wire shape accepted by --from-json, decoded
// only after validation.SituationDraft has accepted the raw bytes.
type jsonSituationDraft struct {
	Domain              string   `json:"domain"`
	Context             string   `json:"context"`
	Objective           string   `json:"objective"`
	RelevantConsequence string   `json:"relevant_consequence"`
	Alternatives        []string `json:"alternatives"`
	Risks               []string `json:"risks"`
	DeclaredUseCase     int      `json:"declared_use_case"`
}

var situationCmd = &cobra.Command{
	Use:   "situation",
	Short: "Submit decision requests and consult memory against them",
}

var situationSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a Situation and create its Episode",
	RunE: func(cmd *cobra.Command, args []string) error {

		// -----------------------------------------------------------------
		// 1. CLI Argument Retrieval
		// -----------------------------------------------------------------

		fromJSON, _ := cmd.Flags().GetString("from-json")

		var (
			domain, context, objective, consequence string
			alternatives, risks                     []string
			useCase                                  int
		)

		if fromJSON != "" {
			raw, err := os.ReadFile(fromJSON)
			if err != nil {
				return fmt.Errorf("read --from-json file: %w", err)
			}
			if err := validation.SituationDraft(raw); err != nil {
				return err
			}
			var d jsonSituationDraft
			if err := json.Unmarshal(raw, &d); err != nil {
				return fmt.Errorf("decode --from-json file: %w", err)
			}
			domain, context, objective, consequence = d.Domain, d.Context, d.Objective, d.RelevantConsequence
			alternatives, risks, useCase = d.Alternatives, d.Risks, d.DeclaredUseCase
		} else {
			domain, _ = cmd.Flags().GetString("domain")
			context, _ = cmd.Flags().GetString("context")
			objective, _ = cmd.Flags().GetString("objective")
			alternatives, _ = cmd.Flags().GetStringArray("alternative")
			risks, _ = cmd.Flags().GetStringArray("risk")
			consequence, _ = cmd.Flags().GetString("consequence")
			useCase, _ = cmd.Flags().GetInt("use-case")
		}

		if domain == "" || objective == "" || consequence == "" {
			return errors.New("domain, objective, and consequence are required")
		}
		if len(alternatives) < 2 {
			return errors.New("at least two alternatives are required")
		}

		// -----------------------------------------------------------------
		// 2. Draft Construction
		// -----------------------------------------------------------------

		draft := orchestrator.SituationDraft{
			Domain:              domain,
			Context:             context,
			Objective:           objective,
			RelevantConsequence: consequence,
			DeclaredUseCase:     useCase,
		}
		for _, a := range alternatives {
			draft.Alternatives = append(draft.Alternatives, entities.Alternative{Description: a})
		}
		for _, r := range risks {
			draft.Risks = append(draft.Risks, entities.Risk{Description: r})
		}

		// -----------------------------------------------------------------
		// 3. Orchestrator Invocation
		// -----------------------------------------------------------------

		c, err := core()
		if err != nil {
			return err
		}
		ep, err := c.ProcessRequest(draft)
		if err != nil {
			return err
		}

		fmt.Printf("[+] Episode created | id=%s situation_id=%s state=%s\n",
			ep.ID, ep.ReferencedSituationID, ep.State)
		return nil
	},
}

var situationConsultMemoryCmd = &cobra.Command{
	Use:   "consult-memory",
	Short: "Record a memory query attachment against an under-analysis Situation",
	RunE: func(cmd *cobra.Command, args []string) error {
		situationID, _ := cmd.Flags().GetString("situation")
		query, _ := cmd.Flags().GetString("query")
		results, _ := cmd.Flags().GetStringArray("result")

		if situationID == "" || query == "" {
			return errors.New("situation and query are required")
		}

		c, err := core()
		if err != nil {
			return err
		}
		res, err := c.ConsultMemory(situationID, query, results)
		if err != nil {
			return err
		}

		fmt.Printf("[+] Memory consulted | attachment_id=%s results=%d\n", res.AttachmentID, len(res.ResultIDs))
		return nil
	},
}

func init() {
	situationSubmitCmd.Flags().String("domain", "", "operational domain")
	situationSubmitCmd.Flags().String("context", "", "free-text context")
	situationSubmitCmd.Flags().String("objective", "", "stated objective")
	situationSubmitCmd.Flags().StringArray("alternative", nil, "an alternative under consideration (repeatable, min 2)")
	situationSubmitCmd.Flags().StringArray("risk", nil, "a named risk (repeatable)")
	situationSubmitCmd.Flags().String("consequence", "", "relevant consequence if the decision goes wrong")
	situationSubmitCmd.Flags().Int("use-case", 0, "declared use case id")
	situationSubmitCmd.Flags().String("from-json", "", "path to a JSON draft file, validated against the situation draft schema instead of using the flags above")

	situationConsultMemoryCmd.Flags().String("situation", "", "situation id")
	situationConsultMemoryCmd.Flags().String("query", "", "memory query text")
	situationConsultMemoryCmd.Flags().StringArray("result", nil, "a result id returned by an external memory collaborator")

	situationCmd.AddCommand(situationSubmitCmd, situationConsultMemoryCmd)
	rootCmd.AddCommand(situationCmd)
}
