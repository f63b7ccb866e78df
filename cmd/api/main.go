package main

import (
	"log"

	_ "github.com/fizipop/uni-ai-app/docs"
	"github.com/fizipop/uni-ai-app/internal/advisor"
	"github.com/fizipop/uni-ai-app/internal/chat"
	"github.com/fizipop/uni-ai-app/internal/config"
	"github.com/fizipop/uni-ai-app/internal/handler"
	"github.com/fizipop/uni-ai-app/internal/llm"
	"github.com/fizipop/uni-ai-app/internal/storage"

	"github.com/joho/godotenv"
)

// @title           Uni Advisor API
// @version         1.0
// @description     Canadian university recommendation and advisor chat backend.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}
	cfg := config.Load()

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatal("main(): ", err)
	}
	defer store.Close()

	llmClient := llm.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey)

	mode := advisor.ModeStructured
	if cfg.AdvisorMode == string(advisor.ModeNarrative) {
		mode = advisor.ModeNarrative
	}
	advisorSvc := advisor.NewService(store, llmClient, mode, cfg.RecommendModel)
	chatSvc := chat.NewService(llmClient, cfg.ChatModel, cfg.ChatMaxTurns)

	router := handler.NewRouter(handler.New(store, advisorSvc, chatSvc))
	log.Fatal(router.Run(":" + cfg.Port))
}
