package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pranjalekhande/paddock-ai/internal/knowledge"
	"github.com/pranjalekhande/paddock-ai/internal/llm"
	"github.com/pranjalekhande/paddock-ai/internal/scenario"
	"github.com/pranjalekhande/paddock-ai/internal/service"
	"github.com/pranjalekhande/paddock-ai/internal/strategy"
)

// VectorQuerier is the retrieval side of the knowledge base.
type VectorQuerier interface {
	Query(ctx context.Context, vector []float32) ([]knowledge.Match, error)
}

// Embedder turns a query into an embedding vector.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// WebSearcher fetches current F1 data from the open web.
type WebSearcher func(ctx context.Context, query string) (string, error)

// JSONCompleter produces a structured completion, stripping markdown fences
// from the model's reply.
type JSONCompleter interface {
	CompleteJSON(ctx context.Context, messages []llm.Message, out interface{}) error
}

const currentDataPrompt = "You are an F1 data lookup service. Answer with the most recent Formula 1 facts " +
	"you know for the query. Respond with only a JSON object inside a ```json code fence, shaped as " +
	`{"answer": "<the facts>", "as_of": "<date your information is current to>"}.`

// currentDataResult is the reply shape the lookup model is asked for.
type currentDataResult struct {
	Answer string `json:"answer"`
	AsOf   string `json:"as_of"`
}

// NewCurrentDataSearcher builds the search_current_f1_data backend. The model
// is asked for a fenced JSON object so the agent gets a parsed answer rather
// than free prose.
func NewCurrentDataSearcher(completer JSONCompleter) WebSearcher {
	return func(ctx context.Context, query string) (string, error) {
		var result currentDataResult
		err := completer.CompleteJSON(ctx, []llm.Message{
			{Role: llm.RoleSystem, Content: currentDataPrompt},
			{Role: llm.RoleUser, Content: query},
		}, &result)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(result.Answer) == "" {
			return "", fmt.Errorf("current data lookup returned no answer")
		}
		if result.AsOf != "" {
			return fmt.Sprintf("%s (as of %s)", result.Answer, result.AsOf), nil
		}
		return result.Answer, nil
	}
}

// queryArgs is the single-string argument shape shared by several tools.
type queryArgs struct {
	Query string `json:"query"`
}

func stringSchema(field, description string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{"type": "object", "properties": {%q: {"type": "string", "description": %q}}, "required": [%q]}`, field, description, field))
}

// NewDefaultRegistry assembles the standard tool set in priority order:
// the knowledge base retriever first, then the F1 API tools, then the
// strategy and scenario tools, with web search last.
func NewDefaultRegistry(svc *service.F1Service, embedder Embedder, index VectorQuerier, search WebSearcher) *Registry {
	registry := NewRegistry()

	registry.Register(Tool{
		Name:        "f1_knowledge_base",
		Description: "PRIMARY TOOL - Search the loaded F1 knowledge base first for ANY F1 question. Contains latest championship standings, recent race results, driver information, tire strategies, and F1 rules. Always try this tool FIRST before using any other tools.",
		Parameters:  stringSchema("query", "The question to search the knowledge base for"),
		Handler:     retrieveHandler(embedder, index),
	})

	registry.Register(Tool{
		Name:        "get_latest_race_results",
		Description: "Fetches the winner of the most recent F1 race. Use this tool for any questions about who won the latest or most recent Grand Prix.",
		Handler: func(ctx context.Context, _ json.RawMessage) (string, error) {
			return svc.LatestRaceWinner(ctx)
		},
	})

	registry.Register(Tool{
		Name:        "get_driver_ranking",
		Description: "Gets current championship ranking for a specific F1 driver. Use when users ask about driver standings, points, or championship positions.",
		Parameters:  stringSchema("driver_name", "Full or partial driver name"),
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				DriverName string `json:"driver_name"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}
			return svc.DriverRanking(ctx, in.DriverName)
		},
	})

	registry.Register(Tool{
		Name:        "analyze_tire_strategy",
		Description: "Analyzes tire strategies from the most recent F1 race. Use this tool when users ask about tire strategies, pit stop strategies, or want to understand strategic decisions from recent races.",
		Handler: func(ctx context.Context, _ json.RawMessage) (string, error) {
			return svc.TireStrategyAnalysis(ctx)
		},
	})

	registry.Register(Tool{
		Name:        "get_championship_standings",
		Description: "Gets current F1 championship standings. Use when users ask about current standings, championship positions, or points tables.",
		Handler:     standingsHandler(svc),
	})

	registry.Register(Tool{
		Name:        "get_next_race_info",
		Description: "Gets information about the next upcoming F1 race. Use when users ask about upcoming races, next GP, or race schedule information.",
		Handler: func(ctx context.Context, _ json.RawMessage) (string, error) {
			next := svc.NextRace()
			if next.SeasonComplete {
				return next.Message, nil
			}
			return fmt.Sprintf("The next race is the %s at %s, %s (%s) on %s, in %d days.", next.Name, next.Circuit, next.Location, next.Country, next.Date[:10], next.DaysUntil), nil
		},
	})

	registry.Register(Tool{
		Name:        "what_if_analysis",
		Description: "Analyzes what-if strategic scenarios. Use when users ask questions like \"What if Hamilton had pitted earlier?\" or want to explore alternative strategies.",
		Parameters:  stringSchema("scenario", "The what-if scenario to analyze"),
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				Scenario string `json:"scenario"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}
			return scenario.ExploreWhatIf(in.Scenario), nil
		},
	})

	registry.Register(Tool{
		Name:        "find_historical_scenarios",
		Description: "Finds similar strategic situations from F1 history. Use when users want to know about past strategic decisions, learn from history, or compare current situations to historical examples.",
		Parameters:  stringSchema("situation", "The strategic situation to find historical parallels for"),
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				Situation string `json:"situation"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}
			return scenario.FindSimilarCases(in.Situation), nil
		},
	})

	registry.Register(Tool{
		Name:        "analyze_undercut_opportunity",
		Description: "Calculates whether an undercut pit strategy can work given the gap to the car ahead and the tire age difference. Known tracks: monaco, spa, silverstone, hungary.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"track": {"type": "string", "description": "Circuit name"},
				"gap_to_car_ahead": {"type": "number", "description": "Gap to the car ahead in seconds"},
				"tire_age_difference": {"type": "integer", "description": "How many laps older the rival's tires are"},
				"tire_compound": {"type": "string", "enum": ["soft", "medium", "hard"]}
			},
			"required": ["track", "gap_to_car_ahead", "tire_age_difference"]
		}`),
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in strategy.UndercutInput
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}
			analysis, err := strategy.AnalyzeUndercut(in)
			if err != nil {
				return "", err
			}
			return marshalResult(analysis)
		},
	})

	registry.Register(Tool{
		Name:        "analyze_safety_car_decision",
		Description: "Weighs pitting for fresh tires against staying out when a safety car is deployed. Known tracks: monaco, spa, silverstone, hungary.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"track": {"type": "string"},
				"laps_remaining": {"type": "integer"},
				"current_position": {"type": "integer"},
				"tire_age": {"type": "integer"},
				"tire_compound": {"type": "string", "enum": ["soft", "medium", "hard"]}
			},
			"required": ["track", "laps_remaining", "current_position", "tire_age"]
		}`),
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in strategy.SafetyCarInput
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}
			analysis, err := strategy.AnalyzeSafetyCar(in)
			if err != nil {
				return "", err
			}
			return marshalResult(analysis)
		},
	})

	registry.Register(Tool{
		Name:        "get_strategy_debate",
		Description: "Generates two-sided debate points for a strategic topic. Topics: tire_strategy, qualifying_setup, pit_stop_timing.",
		Parameters:  stringSchema("topic", "The strategic topic to debate"),
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				Topic string `json:"topic"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}
			return strategy.DebatePoints(in.Topic), nil
		},
	})

	registry.Register(Tool{
		Name:        "search_current_f1_data",
		Description: "Searches the web for the most current F1 information when API data might be outdated. Use this when users ask about very recent races, current season results, or latest championship standings.",
		Parameters:  stringSchema("query", "What to search for"),
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in queryArgs
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}
			if search == nil {
				return fmt.Sprintf("Web search is not configured. For the most current F1 data about %q, check official F1 sources.", in.Query), nil
			}
			return search(ctx, in.Query)
		},
	})

	return registry
}

// retrieveHandler embeds the query and returns the matched document texts.
func retrieveHandler(embedder Embedder, index VectorQuerier) Handler {
	return func(ctx context.Context, args json.RawMessage) (string, error) {
		var in queryArgs
		if err := json.Unmarshal(args, &in); err != nil {
			return "", fmt.Errorf("invalid arguments: %w", err)
		}

		vectors, err := embedder.Embed(ctx, []string{in.Query})
		if err != nil {
			return "", fmt.Errorf("failed to embed query: %w", err)
		}
		if len(vectors) == 0 {
			return "", fmt.Errorf("embedding returned no vector")
		}

		matches, err := index.Query(ctx, vectors[0])
		if err != nil {
			return "", fmt.Errorf("knowledge base query failed: %w", err)
		}
		if len(matches) == 0 {
			return "The knowledge base has no relevant documents for this question.", nil
		}

		var b strings.Builder
		for i, match := range matches {
			text := match.Metadata["text"]
			if text == "" {
				continue
			}
			if i > 0 {
				b.WriteString("\n---\n")
			}
			b.WriteString(text)
		}
		if b.Len() == 0 {
			return "The knowledge base has no relevant documents for this question.", nil
		}
		return b.String(), nil
	}
}

// standingsHandler renders the championship table as plain text.
func standingsHandler(svc *service.F1Service) Handler {
	return func(ctx context.Context, _ json.RawMessage) (string, error) {
		table, err := svc.StandingsTable(ctx)
		if err != nil {
			return "", err
		}

		var b strings.Builder
		b.WriteString("Current F1 Championship Standings:\n")
		for _, row := range table.Results {
			fmt.Fprintf(&b, "%d. %s (%s) - %.0f points (%s)\n", row.Position, row.Driver, row.Team, row.Points, row.Time)
		}
		return b.String(), nil
	}
}

func marshalResult(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal tool result: %w", err)
	}
	return string(data), nil
}
