package audit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fleetfuel/internal/audit"
)

func TestTrail_AppendDoesNotMutate(t *testing.T) {
	var trail audit.Trail

	first := trail.Append(audit.NewEntry(audit.ActionCreated, "alice", ""))
	second := first.Append(audit.NewEntry(audit.ActionFinalized, "bob", "manual"))

	assert.Empty(t, trail)
	require.Len(t, first, 1)
	require.Len(t, second, 2)
	assert.Equal(t, audit.ActionCreated, second[0].Action)
	assert.Equal(t, audit.ActionFinalized, second[1].Action)

	last, ok := second.Last()
	require.True(t, ok)
	assert.Equal(t, "bob", last.PerformedBy)
}

func TestTrail_ScanValue(t *testing.T) {
	trail := audit.Trail{}.Append(audit.NewEntry(audit.ActionVerified, "auditor", "spot check"))

	v, err := trail.Value()
	require.NoError(t, err)

	var got audit.Trail
	require.NoError(t, got.Scan(v))
	require.Len(t, got, 1)
	assert.Equal(t, "auditor", got[0].PerformedBy)
	assert.True(t, trail[0].Timestamp.Equal(got[0].Timestamp))

	require.NoError(t, got.Scan(nil))
	assert.Nil(t, got)

	assert.Error(t, got.Scan(42))
}
