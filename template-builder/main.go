package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"videogen/template-builder/ai"
	"videogen/template-builder/captions"
	"videogen/template-builder/engine"
	"videogen/template-builder/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	ctx := context.Background()

	st, err := store.Connect(ctx, getMongoURI(), getMongoDB())
	if err != nil {
		log.Fatalf("Failed to initialize MongoDB: %v", err)
	}
	defer st.Close(ctx)

	aiService, err := ai.NewService(getAIProvider(), os.Getenv("GEMINI_API_KEY"), os.Getenv("OPENROUTER_API_KEY"))
	if err != nil {
		log.Fatalf("Failed to initialize AI service: %v", err)
	}

	presets := loadCaptionPresets()

	server := &apiServer{
		store:   st,
		ai:      aiService,
		presets: presets,
		durations: engine.DurationConfig{
			WordsToSeconds: getEnvFloat("WORDS_TO_SECONDS", engine.DefaultWordsToSeconds),
			SafetyMargin:   getEnvFloat("DURATION_SAFETY_MARGIN", engine.DefaultSafetyMargin),
		},
	}

	router := gin.Default()
	router.POST("/generate-template", server.handleGenerateTemplate)
	router.GET("/templates/:id", server.handleGetTemplate)
	router.GET("/health", server.handleHealth)

	port := getPort()
	fmt.Printf("=== Video Template Builder API ===\n")
	fmt.Printf("Server starting on port %s\n", port)
	fmt.Printf("Endpoints:\n")
	fmt.Printf("  POST /generate-template - Generate a render template\n")
	fmt.Printf("  GET  /templates/{id}    - Get a saved template draft\n")
	fmt.Printf("  GET  /health            - Health check\n")

	log.Fatal(router.Run(":" + port))
}

func loadCaptionPresets() *captions.Library {
	path := os.Getenv("CAPTION_PRESETS_FILE")
	if path == "" {
		path = "template-builder/captions/presets.yaml"
	}
	presets, err := captions.LoadLibrary(path)
	if err != nil {
		fmt.Printf("Warning: could not load caption presets (%v), using built-ins\n", err)
		return captions.DefaultLibrary()
	}
	fmt.Printf("✓ Caption presets loaded from %s\n", path)
	return presets
}

func getPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8080"
}

func getMongoURI() string {
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		return uri
	}
	return "mongodb://localhost:27017"
}

func getMongoDB() string {
	if db := os.Getenv("MONGODB_DATABASE"); db != "" {
		return db
	}
	return "videogen"
}

func getAIProvider() ai.Provider {
	if provider := os.Getenv("AI_PROVIDER"); provider != "" {
		return ai.Provider(provider)
	}
	return ai.ProviderGemini
}

func getEnvFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		fmt.Printf("Warning: invalid %s=%q, using %.2f\n", key, raw, fallback)
		return fallback
	}
	return value
}
