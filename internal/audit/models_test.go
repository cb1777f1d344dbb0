package audit

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "dossier/pkg/domain"
)

func TestEventJSONCarriesCaseIDAsString(t *testing.T) {
	caseID := id.NewCaseID()
	event := Event{
		ID:        "evt-1",
		Timestamp: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		CaseID:    caseID,
		Action:    ActionCaseEvaluated,
		Status:    "VALID",
		Score:     100,
	}

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	assert.Contains(t, string(payload), `"case_id":"`+caseID.String()+`"`)
	assert.NotContains(t, string(payload), `"case_id":[`)

	var decoded Event
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, caseID, decoded.CaseID)
}
