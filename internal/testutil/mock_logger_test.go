package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ContractPilot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ContractPilot/internal/testutil"
)

func TestMockLogger(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Info("test info", logging.String("key", "value"))

	messages := logger.GetMessages()
	require.Len(t, messages, 1)
	assert.Equal(t, "info", messages[0].Level)
	assert.Equal(t, "test info", messages[0].Message)

	logger.Clear()
	assert.Len(t, logger.GetMessages(), 0)

	logger.Error("test error")
	assert.True(t, logger.HasMessage("error", "test error"))
	assert.False(t, logger.HasMessage("info", "test info"))
}

func TestMockLogger_DerivedLoggersShareSink(t *testing.T) {
	root := testutil.NewMockLogger()
	child := root.Named("pipeline").With(logging.LeadID("lead-1"))

	child.Warn("review fallback", logging.Stage("review"))

	msg, ok := root.Find("warn", "review fallback")
	require.True(t, ok)
	assert.Equal(t, "pipeline", msg.Logger)
	v, ok := msg.Field("lead_id")
	assert.True(t, ok)
	assert.Equal(t, "lead-1", v)
	v, _ = msg.Field("stage")
	assert.Equal(t, "review", v)
}

//Personal.AI order the ending
