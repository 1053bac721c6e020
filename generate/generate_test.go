package generate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGeneratorCannedResponse(t *testing.T) {
	gen := NewMockGenerator()
	gen.AddResponse("refine this", "refined text")

	res, err := gen.Generate(context.Background(), Request{Prompt: "refine this"})
	require.NoError(t, err)
	assert.Equal(t, "refined text", res.Text)
	require.NotNil(t, res.Usage)
	assert.Equal(t, 1, gen.Calls())
}

func TestMockGeneratorEcho(t *testing.T) {
	gen := NewMockGenerator()

	res, err := gen.Generate(context.Background(), Request{Prompt: "hello"})
	require.NoError(t, err)
	assert.Contains(t, res.Text, "hello")
}

func TestMockGeneratorFailure(t *testing.T) {
	gen := NewMockGenerator()
	wantErr := errors.New("backend down")
	gen.FailWith(wantErr)

	_, err := gen.Generate(context.Background(), Request{Prompt: "x"})
	assert.ErrorIs(t, err, wantErr)
}

func TestMockGeneratorRespectsContext(t *testing.T) {
	gen := NewMockGenerator()
	gen.SetLatency(time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := gen.Generate(ctx, Request{Prompt: "slow"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGeneratorFunc(t *testing.T) {
	gen := GeneratorFunc(func(_ context.Context, req Request) (*Result, error) {
		return &Result{Text: "fn:" + req.Prompt}, nil
	})

	res, err := gen.Generate(context.Background(), Request{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "fn:p", res.Text)
	assert.Equal(t, "func", gen.Info().Provider)
}
