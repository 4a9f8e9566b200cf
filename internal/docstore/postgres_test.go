package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rowsAffected int64

func (rowsAffected) LastInsertId() (int64, error) { return 0, errors.New("not supported") }
func (n rowsAffected) RowsAffected() (int64, error) { return int64(n), nil }

// recordingExecer captures the statements insertIfAbsent and patch send.
type recordingExecer struct {
	query    string
	args     []any
	affected int64
	err      error
}

func (e *recordingExecer) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	e.query, e.args = query, args
	if e.err != nil {
		return nil, e.err
	}
	return rowsAffected(e.affected), nil
}

func TestInsertIfAbsent_Statement(t *testing.T) {
	ex := &recordingExecer{affected: 1}
	doc := Document{FieldID: "session_cs_1", FieldType: "assessmentSessionLock", "bookingId": "booking_1"}

	require.NoError(t, insertIfAbsent(context.Background(), ex, doc))
	assert.Contains(t, ex.query, "ON CONFLICT (id) DO NOTHING")
	require.Len(t, ex.args, 3)
	assert.Equal(t, "session_cs_1", ex.args[0])
	assert.Equal(t, "assessmentSessionLock", ex.args[1])

	var body map[string]any
	require.NoError(t, json.Unmarshal(ex.args[2].([]byte), &body))
	assert.Equal(t, "booking_1", body["bookingId"])
	assert.Equal(t, "session_cs_1", body[FieldID])
}

func TestInsertIfAbsent_ExistingRowIsNotAnError(t *testing.T) {
	ex := &recordingExecer{affected: 0}
	assert.NoError(t, insertIfAbsent(context.Background(), ex, Document{FieldID: "a", FieldType: "t"}))
}

func TestPatch_Statement(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		execErr  error
		wantErr  error
	}{
		{name: "updated", affected: 1},
		{name: "missing row", affected: 0, wantErr: ErrNotFound},
		{name: "driver error", execErr: errors.New("connection reset")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := &recordingExecer{affected: tt.affected, err: tt.execErr}
			err := patch(context.Background(), ex, "booking_1", map[string]any{"status": "CANCELED"})

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.execErr != nil:
				require.Error(t, err)
				assert.NotErrorIs(t, err, ErrNotFound)
				assert.ErrorIs(t, err, tt.execErr)
			default:
				require.NoError(t, err)
			}
			assert.Contains(t, ex.query, "body || $2::jsonb")
			assert.Equal(t, "booking_1", ex.args[0])
			assert.JSONEq(t, `{"status":"CANCELED"}`, string(ex.args[1].([]byte)))
		})
	}
}
