package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerInvalidLevel(t *testing.T) {
	log := NewLogger("not-a-level")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNewLoggerDebugLevel(t *testing.T) {
	log := NewLogger("debug")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestAgentLoggerToolInvocation(t *testing.T) {
	log, buf := setupTestLogger()
	agentLogger := NewAgentLogger(log)

	agentLogger.LogToolInvocation("sess_001", "get_latest_race_results", 1, `{}`, 42.5, nil)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "get_latest_race_results", logEntry["tool"])
	assert.Equal(t, "agent", logEntry["component"])
}

func TestAgentLoggerToolInvocationError(t *testing.T) {
	log, buf := setupTestLogger()
	agentLogger := NewAgentLogger(log)

	agentLogger.LogToolInvocation("sess_001", "get_driver_standings", 2, `{}`, 12.0, errors.New("upstream timeout"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, "upstream timeout", logEntry["error"])
}

func TestAgentLoggerAnswerProduced(t *testing.T) {
	log, buf := setupTestLogger()
	agentLogger := NewAgentLogger(log)

	agentLogger.LogAnswerProduced("sess_001", 3, 512, 1850.0)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(3), logEntry["iterations"])
}

func TestSourceLoggerFallback(t *testing.T) {
	log, buf := setupTestLogger()
	sourceLogger := NewSourceLogger(log)

	sourceLogger.LogFallback("latest_results", "openf1", "ergast", errors.New("503 service unavailable"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "openf1", logEntry["from_source"])
	assert.Equal(t, "ergast", logEntry["to_source"])
	assert.Equal(t, "datasource", logEntry["component"])
}

func TestSourceLoggerStaticServed(t *testing.T) {
	log, buf := setupTestLogger()
	sourceLogger := NewSourceLogger(log)

	sourceLogger.LogStaticServed("driver_standings")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "static", logEntry["source"])
	assert.Equal(t, "warning", logEntry["level"])
}

func TestLoggerJSONFormat(t *testing.T) {
	log, buf := setupTestLogger()
	agentLogger := NewAgentLogger(log)

	agentLogger.LogQuestionReceived("sess_001", "who won the last race?")

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	assert.NoError(t, err)
	assert.NotEmpty(t, logEntry)
}
