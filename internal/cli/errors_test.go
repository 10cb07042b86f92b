package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/sitemodel/pkg/types"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: exitSuccess},
		{name: "not found", err: classify(fmt.Errorf("page %q: %w", "x", types.ErrNotFound)), want: exitUserError},
		{name: "invalid authentication", err: classify(types.ErrInvalidAuthentication), want: exitUserError},
		{name: "duplicate", err: classify(types.ErrDuplicate), want: exitUserError},
		{name: "storage failure", err: classify(errors.New("disk full")), want: exitSysError},
		{name: "detached store", err: classify(types.ErrStoreDetached), want: exitSysError},
		{name: "already classified", err: classify(sysError(types.ErrNotFound)), want: exitSysError},
		{name: "unclassified", err: errors.New("unknown flag"), want: exitUserError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestClassifyKeepsMessage(t *testing.T) {
	err := classify(fmt.Errorf("page %q: %w", "home", types.ErrNotFound))
	assert.EqualError(t, err, `page "home": entity not found`)
	assert.ErrorIs(t, err, types.ErrNotFound)
}
