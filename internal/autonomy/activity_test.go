package autonomy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ledger/internal/entities"
)

func TestCheckActivityStatusShortCircuits(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	res := CheckActivity(entities.AutonomyMandate{Status: entities.MandateRevoked}, now)
	assert.False(t, res.Active)
	assert.Equal(t, ActivityRevoked, res.Reason)

	res = CheckActivity(entities.AutonomyMandate{Status: entities.MandateSuspended}, now)
	assert.False(t, res.Active)
	assert.Equal(t, ActivitySuspended, res.Reason)
}

func TestCheckActivityNotYetActive(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	from := now.Add(time.Hour)
	res := CheckActivity(entities.AutonomyMandate{Status: entities.MandateActive, ValidFrom: &from}, now)
	assert.False(t, res.Active)
	assert.Equal(t, ActivityNotYetActive, res.Reason)
}

func TestCheckActivityExpiredByTime(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	until := now.Add(-time.Hour)
	res := CheckActivity(entities.AutonomyMandate{Status: entities.MandateActive, ValidUntil: &until}, now)
	assert.False(t, res.Active)
	assert.Equal(t, ActivityExpiredTime, res.Reason)
	assert.True(t, res.ShouldExpire)
	assert.Equal(t, entities.ExpireReasonTime, res.ExpireReason)
}

func TestCheckActivityExpiredByUses(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	max := 3
	res := CheckActivity(entities.AutonomyMandate{Status: entities.MandateActive, MaxUses: &max, Uses: 3}, now)
	assert.False(t, res.Active)
	assert.Equal(t, ActivityExpiredUses, res.Reason)
	assert.True(t, res.ShouldExpire)
	assert.Equal(t, entities.ExpireReasonUses, res.ExpireReason)
}

func TestCheckActivityActive(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	res := CheckActivity(entities.AutonomyMandate{Status: entities.MandateActive}, now)
	assert.True(t, res.Active)
	assert.Equal(t, ActivityOK, res.Reason)
}
