package pools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeptools/gw-sqlfixture/db/sqldb"
	"github.com/zeptools/gw-sqlfixture/db/sqldb/sqldbtest"
)

const selectOne = "SELECT 1 AS NUMBER"

func TestShared(t *testing.T) {
	shared := sqldbtest.New().OnRows(selectOne, sqldb.Row{"NUMBER": 1})
	s := NewSelector(shared, nil)

	result, err := s.Shared().Query(context.Background(), selectOne)
	require.NoError(t, err)
	assert.Equal(t, sqldb.RecordSet{{"NUMBER": 1}}, result.RecordSet)
	assert.Zero(t, shared.Closes())
}

func TestWithEphemeral(t *testing.T) {
	ctx := context.Background()
	shared := sqldbtest.New()

	t.Run("closed after use", func(t *testing.T) {
		ephemeral := sqldbtest.New().OnRows(selectOne, sqldb.Row{"NUMBER": 1})
		s := NewSelector(shared, func(context.Context) (sqldb.Client, error) { return ephemeral, nil })

		var result *sqldb.Result
		err := s.WithEphemeral(ctx, func(h sqldb.Handle) error {
			var err error
			result, err = h.Query(ctx, selectOne)
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, sqldb.RecordSet{{"NUMBER": 1}}, result.RecordSet)
		assert.EqualValues(t, 1, ephemeral.Closes())
		assert.Zero(t, shared.Queries(), "shared pool untouched")
	})

	t.Run("closed after failure", func(t *testing.T) {
		ephemeral := sqldbtest.New()
		s := NewSelector(shared, func(context.Context) (sqldb.Client, error) { return ephemeral, nil })
		err := s.WithEphemeral(ctx, func(h sqldb.Handle) error {
			_, err := h.Query(ctx, selectOne)
			return err
		})
		assert.Error(t, err)
		assert.EqualValues(t, 1, ephemeral.Closes())
	})

	t.Run("closed after panic", func(t *testing.T) {
		ephemeral := sqldbtest.New()
		s := NewSelector(shared, func(context.Context) (sqldb.Client, error) { return ephemeral, nil })
		assert.Panics(t, func() {
			_ = s.WithEphemeral(ctx, func(sqldb.Handle) error { panic("boom") })
		})
		assert.EqualValues(t, 1, ephemeral.Closes())
	})

	t.Run("open failure", func(t *testing.T) {
		s := NewSelector(shared, func(context.Context) (sqldb.Client, error) {
			return nil, errors.New("login failed")
		})
		called := false
		err := s.WithEphemeral(ctx, func(sqldb.Handle) error { called = true; return nil })
		var e *sqldb.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, sqldb.KindConnect, e.Kind)
		assert.False(t, called)
	})
}

func TestFactoryOpener(t *testing.T) {
	var got *sqldb.Conf
	fake := sqldbtest.New()
	sqldb.RegisterFactory("poolstest", func(conf *sqldb.Conf) (sqldb.Client, error) {
		got = conf
		return fake, nil
	})
	conf := &sqldb.Conf{Type: "poolstest", DB: "sqlsensor", MaxConns: 10, MinConns: 2}

	client, err := FactoryOpener(conf)(context.Background())
	require.NoError(t, err)
	assert.Same(t, fake, client)
	assert.EqualValues(t, 1, fake.Inits())
	assert.Equal(t, 1, got.MaxConns)
	assert.Equal(t, 1, got.MinConns)
	assert.Equal(t, 10, conf.MaxConns, "caller conf untouched")

	fake.InitErr = errors.New("login failed")
	_, err = FactoryOpener(conf)(context.Background())
	assert.Error(t, err)

	_, err = FactoryOpener(&sqldb.Conf{Type: "nope"})(context.Background())
	assert.Error(t, err)
}
