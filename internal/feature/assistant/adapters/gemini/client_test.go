package gemini

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGenerator_MissingAPIKey(t *testing.T) {
	t.Parallel()

	g, err := NewGenerator(context.Background(), "", "", nil)

	assert.Nil(t, g)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestDisabled_Generate(t *testing.T) {
	t.Parallel()

	out, err := Disabled{}.Generate(context.Background(), "hello")

	assert.Empty(t, out)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
