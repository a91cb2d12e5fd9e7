package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pranjalekhande/paddock-ai/internal/llm"
	"github.com/pranjalekhande/paddock-ai/internal/logger"
	"github.com/pranjalekhande/paddock-ai/internal/metrics"
)

// defaultMaxIterations caps the tool loop. Each iteration is one chat
// completion round trip, possibly followed by a batch of tool calls.
const defaultMaxIterations = 6

const systemPrompt = `You are the Paddock AI, an expert F1 strategist and analyst. You have access to multiple information sources with a specific priority order:

TOOL PRIORITY ORDER (USE IN THIS EXACT SEQUENCE):
1. f1_knowledge_base - ALWAYS TRY FIRST - Contains latest F1 data, current standings, recent race results
2. F1 API tools - Use if the knowledge base doesn't have the answer - live race data, driver rankings, tire strategies
3. search_current_f1_data - Use only if the API tools fail - most current web data
4. No answer - If all sources fail, admit you don't know

RESPONSE REQUIREMENTS:
- Keep responses COMPLETE and CONCISE (2-4 key points maximum)
- Use bullet points for clarity
- Maximum 100 words - NEVER cut off mid-sentence
- Always mention which source provided the information
- Distinguish between "race winner" (won latest GP) and "championship leader" (most points)

WORKFLOW:
1. Try f1_knowledge_base FIRST for any F1 question
2. If the knowledge base lacks info, use relevant F1 API tools
3. If APIs fail, use web search as last resort
4. If everything fails, clearly state "I don't have current information on this topic"

Be conversational, insightful, and encourage strategic thinking.`

// failureAnswer is returned when the loop exhausts its iterations without a
// final assistant turn.
const failureAnswer = "I don't have current information on this topic."

// ChatCompleter is the slice of the LLM client the agent needs.
type ChatCompleter interface {
	ChatCompletion(ctx context.Context, messages []llm.Message, tools []llm.ToolDefinition) (*llm.Completion, error)
}

// Agent answers questions by looping chat completions against the registry.
type Agent struct {
	llm           ChatCompleter
	registry      *Registry
	maxIterations int
	log           *logger.AgentLogger
}

// New creates an agent over the given model client and tool registry.
func New(completer ChatCompleter, registry *Registry, baseLogger *logrus.Logger) *Agent {
	return &Agent{
		llm:           completer,
		registry:      registry,
		maxIterations: defaultMaxIterations,
		log:           logger.NewAgentLogger(baseLogger),
	}
}

// Answer is the result of one question.
type Answer struct {
	Answer     string `json:"answer"`
	SessionID  string `json:"session_id,omitempty"`
	Iterations int    `json:"-"`
	ToolCalls  int    `json:"-"`
}

// Ask runs the tool loop until the model produces a plain assistant turn or
// the iteration cap is hit. Tool errors are reported back to the model so it
// can fall through to the next source tier.
func (a *Agent) Ask(ctx context.Context, question string) (Answer, error) {
	sessionID := uuid.NewString()
	started := time.Now()
	a.log.LogQuestionReceived(sessionID, question)

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: question},
	}
	defs := a.registry.Definitions()

	answer := Answer{SessionID: sessionID}
	for iteration := 1; iteration <= a.maxIterations; iteration++ {
		answer.Iterations = iteration

		llmStart := time.Now()
		completion, err := a.llm.ChatCompletion(ctx, messages, defs)
		if err != nil {
			return Answer{}, fmt.Errorf("chat completion failed: %w", err)
		}
		a.log.LogLLMRequest(sessionID, "", len(messages), len(defs), float64(time.Since(llmStart).Milliseconds()), completion.PromptTokens, completion.CompletionTokens)

		if len(completion.Message.ToolCalls) == 0 {
			answer.Answer = completion.Message.Content
			metrics.RecordQuestion(time.Since(started).Seconds())
			a.log.LogAnswerProduced(sessionID, iteration, len(answer.Answer), float64(time.Since(started).Milliseconds()))
			return answer, nil
		}

		messages = append(messages, completion.Message)
		for _, call := range completion.Message.ToolCalls {
			messages = append(messages, a.runTool(ctx, sessionID, iteration, call))
			answer.ToolCalls++
		}
	}

	a.log.LogIterationLimitReached(sessionID, a.maxIterations)
	answer.Answer = failureAnswer
	metrics.RecordQuestion(time.Since(started).Seconds())
	return answer, nil
}

// runTool invokes one tool call and shapes the result as a tool message.
func (a *Agent) runTool(ctx context.Context, sessionID string, iteration int, call llm.ToolCall) llm.Message {
	started := time.Now()
	result, err := a.registry.Invoke(ctx, call.Function.Name, []byte(call.Function.Arguments))
	metrics.RecordToolInvocation(call.Function.Name, err)
	a.log.LogToolInvocation(sessionID, call.Function.Name, iteration, call.Function.Arguments, float64(time.Since(started).Milliseconds()), err)

	content := result
	if err != nil {
		content = fmt.Sprintf("Tool %s failed: %v. Try the next information source.", call.Function.Name, err)
	}

	return llm.Message{
		Role:       llm.RoleTool,
		Content:    content,
		ToolCallID: call.ID,
	}
}
