// Package logger provides agent-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AgentLogger provides dedicated logging for the conversational agent loop.
type AgentLogger struct {
	*logrus.Entry
}

// NewAgentLogger creates a new agent logger.
func NewAgentLogger(baseLogger *logrus.Logger) *AgentLogger {
	return &AgentLogger{
		Entry: baseLogger.WithField("component", "agent"),
	}
}

// LogQuestionReceived logs an incoming user question.
func (al *AgentLogger) LogQuestionReceived(sessionID, question string) {
	al.WithFields(logrus.Fields{
		"session_id":      sessionID,
		"question_length": len(question),
	}).Info("Question received")
}

// LogToolInvocation logs a single tool call made by the agent.
func (al *AgentLogger) LogToolInvocation(sessionID, toolName string, iteration int, argsJSON string, durationMs float64, err error) {
	fields := logrus.Fields{
		"session_id":  sessionID,
		"tool":        toolName,
		"iteration":   iteration,
		"args":        argsJSON,
		"duration_ms": durationMs,
	}
	if err != nil {
		al.WithFields(fields).WithError(err).Warn("Tool invocation failed")
		return
	}
	al.WithFields(fields).Info("Tool invocation completed")
}

// LogLLMRequest logs a request to the chat completion API.
func (al *AgentLogger) LogLLMRequest(sessionID, model string, messageCount, toolCount int, durationMs float64, promptTokens, completionTokens int) {
	al.WithFields(logrus.Fields{
		"session_id":        sessionID,
		"model":             model,
		"message_count":     messageCount,
		"tool_count":        toolCount,
		"duration_ms":       durationMs,
		"prompt_tokens":     promptTokens,
		"completion_tokens": completionTokens,
	}).Info("Chat completion request finished")
}

// LogAnswerProduced logs the final answer returned to the caller.
func (al *AgentLogger) LogAnswerProduced(sessionID string, iterations int, answerLength int, totalDurationMs float64) {
	al.WithFields(logrus.Fields{
		"session_id":        sessionID,
		"iterations":        iterations,
		"answer_length":     answerLength,
		"total_duration_ms": totalDurationMs,
	}).Info("Answer produced")
}

// LogIterationLimitReached logs when the tool loop hits its iteration cap.
func (al *AgentLogger) LogIterationLimitReached(sessionID string, limit int) {
	al.WithFields(logrus.Fields{
		"session_id": sessionID,
		"limit":      limit,
	}).Warn("Tool loop iteration limit reached")
}
