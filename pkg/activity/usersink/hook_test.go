package usersink

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-datatable/pkg/activity"
	"github.com/goliatone/go-users/pkg/types"
)

type memorySink struct {
	records []types.ActivityRecord
	err     error
}

func (s *memorySink) Log(_ context.Context, record types.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookRecordsRowReorder(t *testing.T) {
	sink := &memorySink{}
	actor := uuid.New()
	tenant := uuid.New()
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	err := Hook{Sink: sink}.Notify(context.Background(), activity.Event{
		Verb:           "datatable.row.reorder",
		ActorID:        actor.String(),
		TenantID:       tenant.String(),
		ObjectType:     "table_row",
		ObjectID:       "TASK-8371",
		Channel:        "tables",
		DefinitionCode: "tasks",
		Recipients:     []string{"lead@example.com"},
		Metadata:       map[string]any{"over_row_id": "TASK-8782", "session_id": "s-1"},
		OccurredAt:     at,
	})
	require.NoError(t, err)
	require.Len(t, sink.records, 1)

	record := sink.records[0]
	assert.Equal(t, actor, record.ActorID)
	assert.Equal(t, uuid.Nil, record.UserID)
	assert.Equal(t, tenant, record.TenantID)
	assert.Equal(t, "datatable.row.reorder", record.Verb)
	assert.Equal(t, "table_row", record.ObjectType)
	assert.Equal(t, "TASK-8371", record.ObjectID)
	assert.Equal(t, "tables", record.Channel)
	assert.True(t, record.OccurredAt.Equal(at))
	assert.Equal(t, "tasks", record.Data["definition_code"])
	assert.Equal(t, "TASK-8782", record.Data["over_row_id"])
	assert.Equal(t, []string{"lead@example.com"}, record.Data["recipients"])
}

func TestHookSkipsWithoutSinkOrVerb(t *testing.T) {
	assert.NoError(t, Hook{}.Notify(context.Background(), activity.Event{Verb: "datatable.row.add", ObjectType: "table_row", ObjectID: "1"}))

	sink := &memorySink{}
	require.NoError(t, Hook{Sink: sink}.Notify(context.Background(), activity.Event{ObjectType: "table_row", ObjectID: "1"}))
	assert.Empty(t, sink.records)
}

func TestHookMalformedIDsAndSinkErrors(t *testing.T) {
	sink := &memorySink{err: errors.New("insert failed")}
	err := Hook{Sink: sink}.Notify(context.Background(), activity.Event{
		Verb:       "datatable.row.remove",
		ActorID:    "admin@example.com",
		UserID:     "42",
		ObjectType: "table_row",
		ObjectID:   "42",
	})
	assert.EqualError(t, err, "insert failed")
	require.Len(t, sink.records, 1)
	assert.Equal(t, uuid.Nil, sink.records[0].ActorID)
	assert.Equal(t, uuid.Nil, sink.records[0].UserID)
}
