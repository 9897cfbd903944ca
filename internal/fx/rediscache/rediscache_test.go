package rediscache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/redis/redismock/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tellimer/indicator-normalizer/internal/econ"
)

func TestCacheGetHit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := New(context.Background(), db, "fx:", zerolog.Nop())

	table := econ.FXTable{Base: "USD", Rates: map[string]float64{"XOF": 558.16}}
	raw, err := json.Marshal(table)
	require.NoError(t, err)

	mock.ExpectGet("fx:USD").SetVal(string(raw))

	got, ok := c.Get("USD")
	assert.True(t, ok)
	assert.Equal(t, "USD", got.Base)
	assert.InDelta(t, 558.16, got.Rates["XOF"], 1e-9)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheGetMiss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := New(context.Background(), db, "fx:", zerolog.Nop())

	mock.ExpectGet("fx:USD").RedisNil()

	_, ok := c.Get("USD")
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheGetCorruptEntryIsTreatedAsMiss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := New(context.Background(), db, "fx:", zerolog.Nop())

	mock.ExpectGet("fx:USD").SetVal("not-json")

	_, ok := c.Get("USD")
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheGetRedisErrorIsTreatedAsMiss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := New(context.Background(), db, "fx:", zerolog.Nop())

	mock.ExpectGet("fx:USD").SetErr(redis.TxFailedErr)

	_, ok := c.Get("USD")
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheSet(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := New(context.Background(), db, "fx:", zerolog.Nop())

	table := econ.FXTable{Base: "USD", Rates: map[string]float64{"EUR": 0.9}}
	raw, err := json.Marshal(table)
	require.NoError(t, err)

	mock.ExpectSet("fx:USD", raw, time.Minute).SetVal("OK")

	c.Set("USD", table, time.Minute)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewDefaultsPrefix(t *testing.T) {
	db, _ := redismock.NewClientMock()
	c := New(context.Background(), db, "", zerolog.Nop())
	assert.Equal(t, "econ:fx:", c.prefix)
}
