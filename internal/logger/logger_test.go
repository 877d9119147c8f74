package logger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContext(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	actor := uuid.New()
	WithContext(WithActor(context.Background(), actor)).Info("started")
	WithContext(context.Background()).Info("cron")

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, actor.String(), entries[0].Data["user"])
	assert.Equal(t, "system", entries[1].Data["user"])
}

func TestSetup(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)

	Setup("debug")
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	Setup("not-a-level")
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logrus.StandardLogger().Formatter)
}
