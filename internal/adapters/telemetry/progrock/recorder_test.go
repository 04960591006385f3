package progrock_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/telemetry/progrock"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

func TestRecorder_Results(t *testing.T) {
	t.Parallel()

	recorder := progrock.New()
	ctx := context.Background()

	sourceCtx, source := recorder.Record(ctx, "jinja2cpp/1.1.0 source")
	v, ok := ports.VertexFromContext(sourceCtx)
	require.True(t, ok)
	assert.Same(t, source, v)
	source.Complete(nil)

	_, build := recorder.Record(ctx, "jinja2cpp/1.1.0 build")
	_, err := fmt.Fprint(build.Stdout(), "[1/2] Building CXX object\n")
	require.NoError(t, err)
	_, err = fmt.Fprint(build.Stderr(), "error: fmt too new")
	require.NoError(t, err)
	build.Complete(errors.New("build failed"))

	_, cached := recorder.Record(ctx, "quickfix/1.15.1 package")
	cached.Cached()

	results := recorder.Results()
	require.Len(t, results, 3)

	assert.Equal(t, "jinja2cpp/1.1.0 source", results[0].Name)
	assert.Equal(t, domain.StageDone, results[0].Status)

	assert.Equal(t, domain.StageFailed, results[1].Status)
	assert.Equal(t, "build failed", results[1].Error)
	assert.Equal(t, []string{"[1/2] Building CXX object", "error: fmt too new"}, results[1].Output)

	assert.Equal(t, domain.StageCached, results[2].Status)

	require.NoError(t, recorder.Close())
}

func TestRecorder_OutputTail(t *testing.T) {
	t.Parallel()

	recorder := progrock.New()
	_, v := recorder.Record(context.Background(), "quickfix/1.15.1 build")
	for i := range 30 {
		_, err := fmt.Fprintf(v.Stdout(), "line %d\n", i)
		require.NoError(t, err)
	}
	v.Complete(nil)

	out := recorder.Results()[0].Output
	require.Len(t, out, 20)
	assert.Equal(t, "line 10", out[0])
	assert.Equal(t, "line 29", out[19])
}
