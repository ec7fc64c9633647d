package orchestrator

import (
	"ledger/internal/entities"
	"ledger/internal/idgen"
)

// StartObservation advances episodeID from DECIDED to UNDER_OBSERVATION and
// mirrors the Situation's status.
func (c *Core) StartObservation(episodeID string) (entities.Episode, error) {
	ep, err := c.episodes.AdvanceState(episodeID, entities.EpisodeUnderObservation, idgen.Now())
	if err != nil {
		return entities.Episode{}, err
	}
	c.emit("system", "EPISODE_STATE_CHANGED", "Episode", episodeID, map[string]any{"state": "UNDER_OBSERVATION"})

	if _, err := c.situations.AdvanceStatus(ep.ReferencedSituationID, entities.SituationUnderObservation); err != nil {
		return entities.Episode{}, err
	}
	c.emit("system", "SITUATION_STATUS_CHANGED", "Situation", ep.ReferencedSituationID,
		map[string]any{"status": "UNDER_OBSERVATION"})

	return ep, nil
}

// CloseEpisode advances episodeID to CLOSED and mirrors the Situation's
// status.
func (c *Core) CloseEpisode(episodeID string) (entities.Episode, error) {
	ep, err := c.episodes.AdvanceState(episodeID, entities.EpisodeClosed, idgen.Now())
	if err != nil {
		return entities.Episode{}, err
	}
	c.emit("system", "EPISODE_STATE_CHANGED", "Episode", episodeID, map[string]any{"state": "CLOSED"})

	if _, err := c.situations.AdvanceStatus(ep.ReferencedSituationID, entities.SituationClosed); err != nil {
		return entities.Episode{}, err
	}
	c.emit("system", "SITUATION_STATUS_CHANGED", "Situation", ep.ReferencedSituationID,
		map[string]any{"status": "CLOSED"})

	return ep, nil
}
