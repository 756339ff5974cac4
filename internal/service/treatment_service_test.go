package service

import (
	"encoding/json"
	"testing"

	"go-medspa-inventory/internal/audit"
	"go-medspa-inventory/internal/model"
	"go-medspa-inventory/pkg/crypt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) newClient(t *testing.T, email string) *model.Client {
	t.Helper()
	crypt.SetKey("test-app-key")
	c, err := f.clients.Create(&ClientInput{FirstName: "Ana", LastName: "Reyes", Email: email})
	require.NoError(t, err)
	return c
}

func TestTreatmentLifecycleIsAudited(t *testing.T) {
	f := newFixture(t)
	client := f.newClient(t, "ana@example.com")
	actor := uuid.New()

	tr, err := f.treatments.Create(&TreatmentInput{
		ClientID:        client.ID,
		Name:            "Chemical Peel",
		Price:           decimal.NewFromInt(150),
		DurationMinutes: 45,
	}, &actor)
	require.NoError(t, err)

	updated, err := f.treatments.Update(tr.ID, &UpdateTreatmentInput{DurationMinutes: intPtr(60)}, &actor)
	require.NoError(t, err)
	assert.Equal(t, 60, updated.DurationMinutes)

	require.NoError(t, f.treatments.Delete(tr.ID, &actor))

	logs := f.auditRows(t, audit.TableTreatments, tr.ID.String())
	require.Len(t, logs, 3)
	assert.Equal(t, model.AuditCreated, logs[0].Action)
	assert.Equal(t, model.AuditUpdated, logs[1].Action)
	assert.Equal(t, model.AuditDeleted, logs[2].Action)

	assert.JSONEq(t, `{"duration_minutes":60}`, string(logs[1].NewData))

	var last map[string]interface{}
	require.NoError(t, json.Unmarshal(logs[2].OldData, &last))
	assert.EqualValues(t, 60, last["duration_minutes"])
	assert.JSONEq(t, "null", string(logs[2].NewData))

	_, err = f.treatments.Get(tr.ID)
	assert.ErrorIs(t, err, ErrTreatmentNotFound)
}

func TestTreatmentRequiresKnownClient(t *testing.T) {
	f := newFixture(t)
	_, err := f.treatments.Create(&TreatmentInput{ClientID: uuid.New(), Name: "Facial"}, nil)
	assert.ErrorIs(t, err, ErrClientNotFound)

	_, err = f.treatments.Create(&TreatmentInput{Name: "Facial"}, nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "client_id", verr.Fields[0].FailedField)
}

func TestTreatmentListByClient(t *testing.T) {
	f := newFixture(t)
	a := f.newClient(t, "a@example.com")
	b := f.newClient(t, "b@example.com")

	for _, id := range []uuid.UUID{a.ID, a.ID, b.ID} {
		_, err := f.treatments.Create(&TreatmentInput{ClientID: id, Name: "Botox"}, nil)
		require.NoError(t, err)
	}

	forA, err := f.treatments.List(&a.ID)
	require.NoError(t, err)
	assert.Len(t, forA, 2)

	all, err := f.treatments.List(nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
