package bootstrap

import (
	"context"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"

	"ai-tutor-be/internal/config"
	"ai-tutor-be/internal/controller"
	"ai-tutor-be/internal/pkg/logger"
	"ai-tutor-be/internal/pkg/sessionlock"
	"ai-tutor-be/internal/repository/memory"
	"ai-tutor-be/internal/repository/unitofwork"
	"ai-tutor-be/internal/service"
	"ai-tutor-be/pkg/embedding"
	"ai-tutor-be/pkg/exercise"
	"ai-tutor-be/pkg/intent"
	"ai-tutor-be/pkg/llm"
	"ai-tutor-be/pkg/llm/factory"
	"ai-tutor-be/pkg/rag"
	"ai-tutor-be/pkg/retriever"
)

type Container struct {
	// Controllers
	ChatController     controller.IChatController
	ExerciseController controller.IExerciseController
	PersonaController  controller.IPersonaController
	DocumentController controller.IDocumentController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService
	PersonaService  service.IPersonaService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	llmLogger := logger.NewIsolatedLogger(cfg.App.LLMLogFilePath)

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "gemini" {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	} else {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	}

	baseProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.HuggingFace,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Every model call goes through the timeout/retry wrapper.
	llmProvider := llm.NewCaller(baseProvider, cfg.Ai.UpstreamTimeout, cfg.Ai.UpstreamMaxTries)

	// 4. Session state
	sessionRepo := memory.NewSessionRepository()
	locks := sessionlock.NewRegistry(1 * time.Hour)
	locks.StartSweeper(10*time.Minute, make(chan struct{}))

	// 5. Dialogue components
	classifier := intent.NewClassifier(llmProvider, sysLogger)
	vectorRetriever := retriever.NewVectorRetriever(embeddingProvider, uowFactory, sysLogger)
	assembler := rag.NewAssembler(vectorRetriever, cfg.Ai.RetrievalTopK, sysLogger)
	exerciseManager := exercise.NewManager(llmProvider, uowFactory, sysLogger)

	// 6. Services
	publisherService := service.NewPublisherService(cfg.App.IndexTopicName, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.IndexTopicName,
		uowFactory,
		embeddingProvider,
		sysLogger,
	)

	personaService := service.NewPersonaService(uowFactory, sysLogger)
	if err := personaService.SeedDefaults(context.Background()); err != nil {
		log.Printf("[WARN] Failed to seed persona catalog: %v", err)
	}

	chatService := service.NewChatService(
		uowFactory,
		llmProvider,
		classifier,
		assembler,
		exerciseManager,
		sessionRepo,
		locks,
		sysLogger,
		llmLogger,
	)
	exerciseService := service.NewExerciseService(exerciseManager)
	documentService := service.NewDocumentService(uowFactory, publisherService, sysLogger)

	// 7. Controllers
	return &Container{
		ChatController:     controller.NewChatController(chatService),
		ExerciseController: controller.NewExerciseController(exerciseService),
		PersonaController:  controller.NewPersonaController(personaService),
		DocumentController: controller.NewDocumentController(documentService),

		ConsumerService: consumerService,
		PersonaService:  personaService,
	}
}
