package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/kiln/internal/adapters/telemetry"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/kiln/internal/engine/pipeline"
	"go.trai.ch/kiln/internal/recipes"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	loader *mocks.MockProfileLoader
	logger *mocks.MockLogger
	stdout *bytes.Buffer
	stderr *bytes.Buffer

	provider ComponentProvider
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	ctrl := gomock.NewController(t)
	f := &fixture{
		loader: mocks.NewMockProfileLoader(ctrl),
		logger: mocks.NewMockLogger(ctrl),
		stdout: new(bytes.Buffer),
		stderr: new(bytes.Buffer),
	}

	registry, err := recipes.Builtin()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	store := mocks.NewMockPackageStore(ctrl)
	pipe := pipeline.New(
		mocks.NewMockSourceFetcher(ctrl),
		mocks.NewMockPatcher(ctrl),
		mocks.NewMockGenerator(ctrl),
		mocks.NewMockPackager(ctrl),
		mocks.NewMockHasher(ctrl),
		store,
		f.logger,
	)
	application := app.New(registry, f.loader, pipe, store, f.logger, telemetry.NewNoOp())

	f.provider = func(context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: f.logger}, func() {}, nil
	}
	return f
}

func TestRun_Success(t *testing.T) {
	f := newFixture(t)

	exitCode := run(context.Background(), []string{"list"}, f.stdout, f.stderr, f.provider)

	assert.Equal(t, 0, exitCode)
	assert.Contains(t, f.stdout.String(), "quickfix")
}

func TestRun_InitializationError(t *testing.T) {
	provider := func(context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, new(bytes.Buffer), stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

func TestRun_ExecutionError(t *testing.T) {
	f := newFixture(t)
	f.logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
	})

	exitCode := run(context.Background(), []string{"check", "zlib"}, f.stdout, f.stderr, f.provider)

	assert.Equal(t, 1, exitCode)
}

func TestRun_InvalidConfiguration(t *testing.T) {
	f := newFixture(t)
	f.logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	f.logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	})
	f.loader.EXPECT().Load("").Return(&domain.Profile{
		Settings: map[string]string{"os": "Linux", "compiler": "gcc", "build_type": "Release"},
	}, nil)

	exitCode := run(context.Background(), []string{"check", "jinja2cpp", "-d", "fmt/7.0.0"}, f.stdout, f.stderr, f.provider)

	assert.Equal(t, 6, exitCode)
	assert.Contains(t, f.stdout.String(), "✗ jinja2cpp/1.1.0")
}
