package autonomy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/entities"
	"ledger/internal/eventlog"
)

type fakeMutator struct {
	mandate         entities.AutonomyMandate
	degradeCalls    int
	suspendCalls    int
	revokeCalls     int
	markedObservation string
}

func (f *fakeMutator) RecordRevocation(id, by, reason string, at time.Time) (entities.AutonomyMandate, error) {
	f.revokeCalls++
	f.mandate.Status = entities.MandateRevoked
	f.mandate.RevocationReason = reason
	return f.mandate, nil
}

func (f *fakeMutator) RecordSuspension(id, reason, observationID string, at time.Time) (entities.AutonomyMandate, error) {
	f.suspendCalls++
	f.mandate.Status = entities.MandateSuspended
	f.mandate.SuspendReason = reason
	f.mandate.TriggeredByObservationID = observationID
	return f.mandate, nil
}

func (f *fakeMutator) RecordDegrade(id string) (entities.AutonomyMandate, error) {
	f.degradeCalls++
	f.mandate.Mode = f.mandate.Mode.Degrade()
	return f.mandate, nil
}

func (f *fakeMutator) MarkConsequenceApplied(id, observationID string) (entities.AutonomyMandate, error) {
	f.markedObservation = observationID
	f.mandate.LastAppliedObservationID = observationID
	return f.mandate, nil
}

type fakeLog struct {
	events []string
}

func (f *fakeLog) Append(actor, eventType, entityType, entityID string, payload map[string]any) (eventlog.Entry, error) {
	f.events = append(f.events, eventType)
	return eventlog.Entry{EventType: eventType}, nil
}

func TestApplySuspendMutatesAndEmits(t *testing.T) {
	m := entities.AutonomyMandate{ID: "m1", AgentID: "a1", Status: entities.MandateActive}
	mut := &fakeMutator{mandate: m}
	log := &fakeLog{}

	res, err := Apply(mut, log, m, ConsequenceVerdict{Action: ActionSuspend, Reason: "limits violated"}, "obs-1", time.Now())
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, entities.MandateSuspended, res.Mandate.Status)
	assert.Equal(t, 1, mut.suspendCalls)
	assert.Contains(t, log.events, "AUTONOMY_SUSPENDED")
}

func TestApplyIsIdempotentForRepeatedObservation(t *testing.T) {
	m := entities.AutonomyMandate{ID: "m1", Status: entities.MandateActive, LastAppliedObservationID: "obs-1"}
	mut := &fakeMutator{mandate: m}
	log := &fakeLog{}

	res, err := Apply(mut, log, m, ConsequenceVerdict{Action: ActionRevoke}, "obs-1", time.Now())
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, 0, mut.revokeCalls)
	assert.Empty(t, log.events)
}

func TestApplyNoActionStillMarksObservation(t *testing.T) {
	m := entities.AutonomyMandate{ID: "m1", Status: entities.MandateActive}
	mut := &fakeMutator{mandate: m}

	res, err := Apply(mut, nil, m, ConsequenceVerdict{Action: ActionNone}, "obs-2", time.Now())
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, "obs-2", mut.markedObservation)
}

func TestApplyDegradeLowersMode(t *testing.T) {
	m := entities.AutonomyMandate{ID: "m1", Mode: entities.ModeAutonomous, Status: entities.MandateActive}
	mut := &fakeMutator{mandate: m}

	res, err := Apply(mut, nil, m, ConsequenceVerdict{Action: ActionDegrade}, "obs-3", time.Now())
	require.NoError(t, err)
	assert.Equal(t, entities.ModeAssisted, res.Mandate.Mode)
	assert.Equal(t, 1, mut.degradeCalls)
}
