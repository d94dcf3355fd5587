package health

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverallStatus(t *testing.T) {
	t.Run("all healthy", func(t *testing.T) {
		c := NewChecker()
		c.RunCheck("object", func() error { return nil })
		c.RunCheck("graph", func() error { return nil })

		assert.Equal(t, StatusHealthy, c.GetOverallStatus())
	})

	t.Run("partially unhealthy is degraded", func(t *testing.T) {
		c := NewChecker()
		c.RunCheck("object", func() error { return nil })
		c.RunCheck("graph", func() error { return errors.New("down") })

		assert.Equal(t, StatusDegraded, c.GetOverallStatus())
	})

	t.Run("all unhealthy", func(t *testing.T) {
		c := NewChecker()
		c.RunCheck("object", func() error { return errors.New("down") })

		assert.Equal(t, StatusUnhealthy, c.GetOverallStatus())
	})
}

func TestGetAllChecksReturnsCopies(t *testing.T) {
	c := NewChecker()
	c.RunCheck("object", func() error { return nil })

	checks := c.GetAllChecks()
	require.Len(t, checks, 1)
	assert.Equal(t, "object", checks[0].Name)

	checks[0].Name = "mutated"
	fresh := c.GetAllChecks()
	assert.Equal(t, "object", fresh[0].Name)
}

func TestLastHealthyTimeTracksPassingChecks(t *testing.T) {
	c := NewChecker()
	before := c.GetLastHealthyTime()

	c.RunCheck("object", func() error { return nil })
	assert.False(t, c.GetLastHealthyTime().Before(before))

	// A failing check freezes the last healthy time
	c.RunCheck("graph", func() error { return errors.New("down") })
	frozen := c.GetLastHealthyTime()
	c.RunCheck("graph", func() error { return errors.New("still down") })
	assert.Equal(t, frozen, c.GetLastHealthyTime())
}
