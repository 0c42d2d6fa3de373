package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bex/internal/core/domain"
)

func TestDiscovery_Resolve(t *testing.T) {
	t.Run("exactly one", func(t *testing.T) {
		d := domain.NewDiscovery("/work", []string{"/work/bex.py"})
		assert.Equal(t, domain.DiscoveryOne, d.Kind)

		path, err := d.Resolve()
		require.NoError(t, err)
		assert.Equal(t, "/work/bex.py", path)
	})

	t.Run("none", func(t *testing.T) {
		d := domain.NewDiscovery("/work", nil)
		assert.Equal(t, domain.DiscoveryNone, d.Kind)

		_, err := d.Resolve()
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrConfigNotFound))
	})

	t.Run("ambiguous", func(t *testing.T) {
		d := domain.NewDiscovery("/work", []string{"/work/bex.py", "/work/bex.sh"})
		assert.Equal(t, domain.DiscoveryAmbiguous, d.Kind)

		_, err := d.Resolve()
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrAmbiguousConfigFile))
		assert.Contains(t, err.Error(), "multiple bex files")
	})
}
