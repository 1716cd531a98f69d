package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadDelete(t *testing.T) {
	Init(nil)

	id, err := GenerateSessionID()
	require.NoError(t, err)
	assert.Len(t, id, 64)

	in := &Data{UserID: "u1", Username: "alice"}
	require.NoError(t, in.Write(id, time.Minute))

	out := new(Data)
	require.NoError(t, out.Read(id))
	assert.Equal(t, *in, *out)

	require.NoError(t, Delete(id))
	require.ErrorIs(t, new(Data).Read(id), ErrSessionNotFound)
	require.ErrorIs(t, new(Data).Read(""), ErrSessionNotFound)
}

func TestGenerateSessionIDIsUnique(t *testing.T) {
	a, err := GenerateSessionID()
	require.NoError(t, err)

	b, err := GenerateSessionID()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
