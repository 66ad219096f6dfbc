package syncmode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestDetect(t *testing.T) {
	assert.Equal(t, ModeLocal, Detect(NoCloud, zap.NewNop()))
	assert.Equal(t, ModeLocal, Detect(nil, zap.NewNop()))
	assert.Equal(t, ModeCloud, Detect(ProbeFunc(func() bool { return true }), zap.NewNop()))
}
