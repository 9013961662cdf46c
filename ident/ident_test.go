package ident

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence(t *testing.T) {

	seq := &Sequence{Prefix: "n"}
	assert.Equal(t, "n1", seq.NewId())
	assert.Equal(t, "n2", seq.NewId())

	bare := &Sequence{}
	assert.Equal(t, "1", bare.NewId())
}

func TestUnique(t *testing.T) {

	for _, gen := range []Generator{XID{}, UUID{}} {
		seen := map[string]bool{}
		for range 1000 {
			id := gen.NewId()
			require.NotEmpty(t, id)
			require.False(t, seen[id], "duplicate id %s", id)
			seen[id] = true
		}
	}
}

func TestUUIDParses(t *testing.T) {

	_, err := uuid.Parse(UUID{}.NewId())
	assert.NoError(t, err)
}

func TestFunc(t *testing.T) {

	gen := Func(func() string { return "fixed" })
	assert.Equal(t, "fixed", gen.NewId())
}

func TestNew(t *testing.T) {

	gen, err := New("")
	require.NoError(t, err)
	assert.IsType(t, XID{}, gen)

	gen, err = New("uuid")
	require.NoError(t, err)
	assert.IsType(t, UUID{}, gen)

	_, err = New("nanoid")
	assert.Error(t, err)
}
