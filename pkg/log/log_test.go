package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestCorrelationID(t *testing.T) {
	ctx, id := WithCorrelationID(context.Background())

	assert.NotEmpty(t, id)
	assert.Equal(t, id, GetCorrelationID(ctx))
	assert.Empty(t, GetCorrelationID(context.Background()))
}

func TestConfigure(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)

	assert.Equal(t, logrus.DebugLevel, Configure("debug"))
	assert.Equal(t, logrus.InfoLevel, Configure("verbose"))
}

func TestWithFields_DevelopmentKeepsScorecardFields(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	var buf bytes.Buffer
	base := logrus.New()
	base.SetOutput(&buf)
	base.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})

	l := &logger{entry: logrus.NewEntry(base)}
	l.WithFields(Fields{
		"business_id": "biz-1",
		"week_key":    "2024-05-17",
		"remote_addr": "127.0.0.1",
	}).Info("tracking: métrica atualizada")

	out := buf.String()
	assert.Contains(t, out, "business_id=biz-1")
	assert.Contains(t, out, "week_key=2024-05-17")
	assert.NotContains(t, out, "remote_addr")
}

func TestWithField_ProductionKeepsEverything(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	var buf bytes.Buffer
	base := logrus.New()
	base.SetOutput(&buf)
	base.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})

	l := &logger{entry: logrus.NewEntry(base)}
	l.WithField("remote_addr", "127.0.0.1").Info("ok")

	assert.Contains(t, buf.String(), "remote_addr=127.0.0.1")
}
