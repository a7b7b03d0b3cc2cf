package session_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ti/internal/infrastructure/session"
)

func newStorage(t *testing.T) (*session.RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := session.NewRedisStorageFromClient(client)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisStorage_SetGetDelete(t *testing.T) {
	s, _ := newStorage(t)

	require.NoError(t, s.Set("abc", []byte(`{"cart":[]}`), 0))
	got, err := s.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"cart":[]}`), got)

	require.NoError(t, s.Delete("abc"))
	got, err = s.Get("abc")
	require.NoError(t, err)
	assert.Nil(t, got, "clave inexistente devuelve nil, nil")
}

func TestRedisStorage_Expira(t *testing.T) {
	s, mr := newStorage(t)
	require.NoError(t, s.Set("abc", []byte("x"), time.Minute))

	mr.FastForward(2 * time.Minute)
	got, err := s.Get("abc")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStorage_ResetSoloBorraSesiones(t *testing.T) {
	s, mr := newStorage(t)
	require.NoError(t, mr.Set("otra-app:clave", "v"))
	require.NoError(t, s.Set("a", []byte("1"), 0))
	require.NoError(t, s.Set("b", []byte("2"), 0))

	require.NoError(t, s.Reset())

	got, err := s.Get("a")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.True(t, mr.Exists("otra-app:clave"))
}
