package sqldb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsKind(t *testing.T) {
	assert.Nil(t, AsKind(KindQuery, nil))

	t.Run("plain error", func(t *testing.T) {
		e := AsKind(KindConnect, errors.New("dial tcp: connection refused"))
		assert.Equal(t, KindConnect, e.Kind)
		assert.Equal(t, CodeUnknown, e.Code)
		assert.Equal(t, "dial tcp: connection refused", e.Message)
	})

	t.Run("context errors", func(t *testing.T) {
		assert.Equal(t, CodeCancel, AsKind(KindQuery, context.Canceled).Code)
		assert.Equal(t, CodeTimeout, AsKind(KindQuery, fmt.Errorf("wrapped: %w", context.DeadlineExceeded)).Code)
	})

	t.Run("first kind is kept", func(t *testing.T) {
		inner := &Error{Kind: KindExecute, Code: CodeParam, Message: "too long"}
		e := AsKind(KindQuery, fmt.Errorf("outer: %w", inner))
		assert.Equal(t, KindExecute, e.Kind)
		assert.Equal(t, CodeParam, e.Code)
		assert.NotSame(t, inner, e)
	})

	t.Run("driver error gets a kind", func(t *testing.T) {
		driverErr := FromDriver(CodeRequest, 208, "1", errors.New("Invalid object name 'non_existing_table'."))
		e := AsKind(KindQuery, driverErr)
		assert.Equal(t, KindQuery, e.Kind)
		assert.Empty(t, driverErr.Kind, "the original is not mutated")
		assert.Equal(t, "QueryError: EREQUEST (208) Invalid object name 'non_existing_table'.", e.Error())
	})
}

func TestErrorJSON(t *testing.T) {
	e := &Error{
		Kind:    KindQuery,
		Code:    CodeRequest,
		Number:  208,
		State:   "1",
		Message: "Invalid object name 'non_existing_table'.",
		Err:     errors.New("hidden"),
	}
	b, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"QueryError","code":"EREQUEST","number":208,"state":"1","message":"Invalid object name 'non_existing_table'."}`, string(b))

	b, err = json.Marshal(&Error{Kind: KindConnect, Code: CodeNotOpen, Message: "not open"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"ConnectError","code":"ENOTOPEN","message":"not open"}`, string(b))
}

func TestResult(t *testing.T) {
	t.Run("rows", func(t *testing.T) {
		r := NewRowsResult(RecordSet{{"NUMBER": 1}}, nil)
		assert.Len(t, r.RecordSets, 2)
		assert.Equal(t, RecordSet{}, r.RecordSets[1])
		assert.Equal(t, []int64{1, 0}, r.RowsAffected)
		row, ok := r.First()
		require.True(t, ok)
		assert.Equal(t, 1, row["NUMBER"])
	})

	t.Run("exec", func(t *testing.T) {
		r := NewExecResult(1)
		_, ok := r.First()
		assert.False(t, ok)
		b, err := json.Marshal(r)
		require.NoError(t, err)
		assert.JSONEq(t, `{"recordsets":[],"output":{},"rowsAffected":[1]}`, string(b))
	})

	t.Run("empty select", func(t *testing.T) {
		b, err := json.Marshal(NewRowsResult(RecordSet{}).RecordSet)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(b))
	})
}

func TestConfPoolSize(t *testing.T) {
	maxConns, minConns, lifetime := (&Conf{}).PoolSize()
	assert.Equal(t, DefaultMaxConns, maxConns)
	assert.Equal(t, DefaultMinConns, minConns)
	assert.Equal(t, DefaultConnMaxLifetime, lifetime)

	maxConns, minConns, lifetime = (&Conf{MaxConns: 1, MinConns: 1, ConnMaxLifetimeSec: 30}).PoolSize()
	assert.Equal(t, 1, maxConns)
	assert.Equal(t, 1, minConns)
	assert.Equal(t, 30*time.Second, lifetime)

	base := &Conf{Type: "mssql", DB: "sqlsensor", DSN: "sqlserver://x"}
	admin := base.WithDB("tempdb")
	assert.Equal(t, "tempdb", admin.DB)
	assert.Empty(t, admin.DSN)
	assert.Equal(t, "sqlsensor", base.DB)
}
