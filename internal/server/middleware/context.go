package middleware

import (
	"time"

	"github.com/oncograph/backend/internal/util"
	"github.com/oncograph/backend/pkg/ai"
	oai "github.com/oncograph/backend/pkg/ai/ollama"
	gai "github.com/oncograph/backend/pkg/ai/openai"
	"github.com/oncograph/backend/pkg/cache"
	"github.com/oncograph/backend/pkg/curated"
	"github.com/oncograph/backend/pkg/logger"
	"github.com/oncograph/backend/pkg/rank"

	"github.com/labstack/echo/v4"
)

// App carries the shared dependencies every handler needs.
type App struct {
	AiClient ai.GraphAIClient
	Advisor  rank.Advisor
	Tables   *curated.Tables
	Cache    *cache.Cache
}

// AppContext wraps the echo context with the shared dependencies.
type AppContext struct {
	echo.Context
	App *App
}

// AppContextMiddleware attaches the shared dependencies to every request.
// The language-model client is selected by the AI_ADAPTER environment
// variable; when no key is configured the advisor stays nil and every
// language-model step runs its degraded fallback.
func AppContextMiddleware(tables *curated.Tables, semanticCache *cache.Cache) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			adapter := util.GetEnv("AI_ADAPTER")
			var aiClient ai.GraphAIClient

			switch adapter {
			case "ollama":
				client, err := oai.NewGraphOllamaClient(oai.NewGraphOllamaClientParams{
					CompletionModel: util.GetEnv("AI_CHAT_MODEL"),

					BaseURL: util.GetEnv("AI_CHAT_URL"),
					ApiKey:  util.GetEnv("AI_CHAT_KEY"),

					MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 4)),
				})
				if err != nil {
					logger.Fatal("Failed to create Ollama client", "err", err)
				}
				aiClient = client
			default:
				aiClient = gai.NewGraphOpenAIClient(gai.NewGraphOpenAIClientParams{
					CompletionModel: util.GetEnv("AI_CHAT_MODEL"),

					ChatURL: util.GetEnv("AI_CHAT_URL"),
					ChatKey: util.GetEnv("AI_CHAT_KEY"),
				})
			}

			var advisor rank.Advisor
			if util.GetEnv("AI_CHAT_KEY") != "" || adapter == "ollama" {
				advisor = rank.NewAIAdvisor(rank.NewAIAdvisorParams{
					Client:  aiClient,
					Cache:   semanticCache,
					Timeout: time.Duration(util.GetEnvNumeric("AI_TIMEOUT_SECONDS", 30)) * time.Second,
				})
			}

			app := &App{
				AiClient: aiClient,
				Advisor:  advisor,
				Tables:   tables,
				Cache:    semanticCache,
			}
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}
