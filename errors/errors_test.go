package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorClassString(t *testing.T) {
	tests := []struct {
		class    ErrorClass
		expected string
	}{
		{ErrorConfig, "config"},
		{ErrorIdentity, "identity"},
		{ErrorLookup, "lookup"},
		{ErrorPlugin, "plugin"},
		{ErrorClass(99), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.class.String())
	}
}

func TestWrapFormatsContext(t *testing.T) {
	base := New("boom")
	err := Wrap(base, "Setup", "Finalize", "relation build")

	require.Error(t, err)
	assert.Equal(t, "Setup.Finalize: relation build failed: boom", err.Error())
	assert.True(t, Is(err, base))
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "Setup", "Finalize", "anything"))
	assert.NoError(t, WrapConfig(nil, "Setup", "Finalize", "anything"))
	assert.NoError(t, WrapIdentity(nil, "Setup", "Finalize", "anything"))
	assert.NoError(t, WrapLookup(nil, "Setup", "Finalize", "anything"))
	assert.NoError(t, WrapPlugin(nil, "Setup", "Finalize", "anything"))
}

func TestClassificationHelpers(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		isConfig bool
		isID     bool
		notFound bool
		isPlugin bool
	}{
		{
			name:     "wrapped config error",
			err:      WrapConfig(ErrFrozen, "Config", "Set", "key assignment"),
			isConfig: true,
		},
		{
			name: "wrapped identity error",
			err:  WrapIdentity(ErrDuplicateID, "Setup", "Finalize", "relation registration"),
			isID: true,
		},
		{
			name:     "wrapped lookup error",
			err:      WrapLookup(ErrGatewayNotFound, "Configuration", "Gateway", "gateway lookup"),
			notFound: true,
		},
		{
			name:     "wrapped plugin error",
			err:      WrapPlugin(ErrUnknownPlugin, "Configuration", "Use", "plugin lookup"),
			isPlugin: true,
		},
		{
			name:     "bare sentinel",
			err:      ErrDatasetNotFound,
			notFound: true,
		},
		{
			name:     "sentinel through fmt wrapping",
			err:      fmt.Errorf("loading: %w", ErrNoDefaultAdapter),
			isConfig: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isConfig, IsConfig(tt.err))
			assert.Equal(t, tt.isID, IsIdentity(tt.err))
			assert.Equal(t, tt.notFound, IsNotFound(tt.err))
			assert.Equal(t, tt.isPlugin, IsPlugin(tt.err))
		})
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, ErrorIdentity, Classify(WrapIdentity(ErrDuplicateID, "Setup", "Finalize", "check")))
	assert.Equal(t, ErrorLookup, Classify(ErrUnknownView))
	assert.Equal(t, ErrorPlugin, Classify(ErrUnknownPlugin))
	assert.Equal(t, ErrorConfig, Classify(New("anything else")))
}

func TestClassifiedErrorUnwrap(t *testing.T) {
	base := New("original")
	err := WrapLookup(base, "Gateway", "Dataset", "dataset lookup")

	var ce *ClassifiedError
	require.True(t, As(err, &ce))
	assert.Equal(t, ErrorLookup, ce.Class)
	assert.Equal(t, "Gateway", ce.Component)
	assert.Equal(t, "Dataset", ce.Operation)
	assert.True(t, Is(err, base))
}
