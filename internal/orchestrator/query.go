package orchestrator

import "ledger/internal/entities"

// The accessors below exist solely so internal/projections can build
// read-models without reaching into the repository package directly —
// Core remains the only thing that knows repositories exist. None of them
// mutate state or touch the event log.

// AllSituations returns every Situation, regardless of status.
func (c *Core) AllSituations() []entities.Situation {
	return c.situations.List(func(entities.Situation) bool { return true })
}

// AllEpisodes returns every Episode, regardless of state.
func (c *Core) AllEpisodes() []entities.Episode {
	return c.episodes.List(func(entities.Episode) bool { return true })
}

// AllDecisions returns every Decision.
func (c *Core) AllDecisions() []entities.Decision {
	return c.decisions.List(func(entities.Decision) bool { return true })
}

// AllContracts returns every Contract.
func (c *Core) AllContracts() []entities.Contract {
	return c.contracts.List(func(entities.Contract) bool { return true })
}

// MandatesByAgent returns every mandate ever granted to agentID, regardless
// of status.
func (c *Core) MandatesByAgent(agentID string) []entities.AutonomyMandate {
	return c.mandates.List(func(m entities.AutonomyMandate) bool { return m.AgentID == agentID })
}

// AllMandates returns every mandate ever granted, regardless of agent or
// status.
func (c *Core) AllMandates() []entities.AutonomyMandate {
	return c.mandates.List(func(entities.AutonomyMandate) bool { return true })
}
