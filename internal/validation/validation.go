// Package validation checks drafts crossing the system boundary as raw
// JSON — a Situation, Protocol, or Mandate grant submitted by an external
// caller — against a fixed schema before they are decoded into the
// Orchestrator's typed draft structs. This catches structurally malformed
// input (missing required fields, wrong types) before it ever reaches the
// Closed Layer or Autonomy evaluator, which both assume well-typed input.
package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const situationDraftSchema = `{
	"type": "object",
	"required": ["domain", "objective", "relevant_consequence", "alternatives"],
	"properties": {
		"domain": {"type": "string", "minLength": 1},
		"context": {"type": "string"},
		"objective": {"type": "string", "minLength": 1},
		"relevant_consequence": {"type": "string", "minLength": 1},
		"alternatives": {"type": "array", "minItems": 2},
		"risks": {"type": "array"},
		"declared_use_case": {"type": "integer"}
	}
}`

const protocolDraftSchema = `{
	"type": "object",
	"required": ["chosen_alternative", "evaluated_alternatives", "risk_profile"],
	"properties": {
		"chosen_alternative": {"type": "string", "minLength": 1},
		"evaluated_alternatives": {"type": "array", "minItems": 1},
		"risk_profile": {"type": "string", "enum": ["CONSERVATIVE", "MODERATE", "AGGRESSIVE"]},
		"minimum_criteria": {"type": "array"},
		"considered_risks": {"type": "array"},
		"consulted_memory_ids": {"type": "array"}
	}
}`

const mandateGrantSchema = `{
	"type": "object",
	"required": ["agent_id", "mode", "granted_by"],
	"properties": {
		"agent_id": {"type": "string", "minLength": 1},
		"mode": {"type": "string", "enum": ["TEACHING", "ASSISTED", "AUTONOMOUS"]},
		"granted_by": {"type": "string", "minLength": 1},
		"max_risk_profile": {"type": "string", "enum": ["CONSERVATIVE", "MODERATE", "AGGRESSIVE"]},
		"max_uses": {"type": "integer", "minimum": 1}
	}
}`

var (
	situationSchema *jsonschema.Schema
	protocolSchema  *jsonschema.Schema
	mandateSchema   *jsonschema.Schema
)

func init() {
	situationSchema = mustCompile("situation_draft.json", situationDraftSchema)
	protocolSchema = mustCompile("protocol_draft.json", protocolDraftSchema)
	mandateSchema = mustCompile("mandate_grant.json", mandateGrantSchema)
}

func mustCompile(name, schema string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(schema)); err != nil {
		panic(fmt.Sprintf("validation: invalid schema %s: %v", name, err))
	}
	return compiler.MustCompile(name)
}

// SituationDraft validates raw against the Situation draft schema.
func SituationDraft(raw []byte) error {
	return validate(situationSchema, raw)
}

// ProtocolDraft validates raw against the Protocol draft schema.
func ProtocolDraft(raw []byte) error {
	return validate(protocolSchema, raw)
}

// MandateGrant validates raw against the Mandate grant schema.
func MandateGrant(raw []byte) error {
	return validate(mandateSchema, raw)
}

func validate(schema *jsonschema.Schema, raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("validation: invalid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("validation: %w", err)
	}
	return nil
}
