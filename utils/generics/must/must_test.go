package must

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMust(t *testing.T) {
	assert.Equal(t, 7, Must(7, nil))
	assert.Panics(t, func() { Must("", errors.New("boom")) })
}
