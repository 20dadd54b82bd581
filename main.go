package main

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/dgn-rdc/dgn-backend/controllers"
	"github.com/dgn-rdc/dgn-backend/db"
	"github.com/dgn-rdc/dgn-backend/services"
)

type Handlers struct {
	Authentication          *controllers.AuthController
	ChatController          *controllers.ChatController
	MembersController       *controllers.MembersController
	AgentsController        *controllers.AgentsController
	ContributionsController *controllers.ContributionsController
	NewsController          *controllers.NewsController
}

type FileSystem struct {
	fs http.FileSystem
}

func (fs FileSystem) Open(path string) (http.File, error) {
	f, err := fs.fs.Open(path)
	if err != nil {
		return nil, err
	}

	s, err := f.Stat()
	if s.IsDir() {
		index := strings.TrimSuffix(path, "/") + "/index.html"
		if _, err := fs.fs.Open(index); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func main() {
	err := godotenv.Load(".env")
	if err != nil {
		panic("The .env config file doesnt exist")
	}

	portNumber := os.Getenv("PORT")
	if portNumber == "" {
		portNumber = "3000"
	}

	databasePath := os.Getenv("DATABASE_PATH")
	if databasePath == "" {
		databasePath = "dgnbase.db"
	}

	uploadFolder := os.Getenv("UPLOAD_FOLDER")
	if uploadFolder == "" {
		uploadFolder = "uploads"
	}

	geminiAPIKey := os.Getenv("GEMINI_API_KEY")

	accessSecret := os.Getenv("ACCESS_SECRET")
	adminUser := os.Getenv("ADMIN_USERNAME")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	httpRouter := http.NewServeMux()

	dbHandler := db.NewDBConnection(databasePath)

	imageService := services.NewImageService(uploadFolder)

	chatService := &services.ChatService{
		DBManager: dbHandler,
		AIChat:    services.NewAIChatService(geminiAPIKey),
	}

	handlers := &Handlers{
		Authentication: &controllers.AuthController{
			AccessSecret:  accessSecret,
			AdminUser:     adminUser,
			AdminPassword: adminPassword,
		},
		ChatController: &controllers.ChatController{
			ChatService: chatService,
		},
		MembersController: &controllers.MembersController{
			DBManager:    dbHandler,
			ImageService: imageService,
		},
		AgentsController: &controllers.AgentsController{
			DBManager:    dbHandler,
			ImageService: imageService,
		},
		ContributionsController: &controllers.ContributionsController{
			DBManager: dbHandler,
		},
		NewsController: &controllers.NewsController{
			DBManager:    dbHandler,
			ImageService: imageService,
		},
	}

	if _, err := handlers.MembersController.EnsureDefaultAdmin(); err != nil {
		log.Printf("%s", err.Error())
	}

	//AUTH
	httpRouter.HandleFunc("POST /api/auth/login", handlers.Authentication.Login)
	httpRouter.HandleFunc("GET /api/auth/verify", handlers.Authentication.Verify)

	//CHAT
	httpRouter.HandleFunc("POST /api/chat/message", handlers.ChatController.SendMessage)
	httpRouter.HandleFunc("GET /api/chat/history/{sessionId}", handlers.ChatController.GetChatHistory)
	httpRouter.HandleFunc("DELETE /api/chat/history/{sessionId}", handlers.ChatController.ClearChatHistory)
	httpRouter.HandleFunc("GET /api/chat/sessions", handlers.ChatController.GetRecentSessions)
	httpRouter.HandleFunc("GET /api/chat/statistics", handlers.ChatController.GetChatStatistics)
	httpRouter.HandleFunc("GET /api/chat/health", handlers.ChatController.CheckHealth)

	//MEMBERS
	httpRouter.HandleFunc("POST /api/members", handlers.MembersController.Create)
	httpRouter.HandleFunc("GET /api/members", handlers.MembersController.FindAll)
	httpRouter.HandleFunc("GET /api/members/admin/default", handlers.MembersController.GetDefaultAdmin)
	httpRouter.HandleFunc("GET /api/members/{id}", handlers.MembersController.FindOne)
	httpRouter.HandleFunc("PUT /api/members/{id}", handlers.MembersController.Update)
	httpRouter.HandleFunc("DELETE /api/members/{id}", handlers.MembersController.Delete)

	//AGENTS
	httpRouter.HandleFunc("POST /api/agents", handlers.AgentsController.Create)
	httpRouter.HandleFunc("GET /api/agents", handlers.AgentsController.FindAll)
	httpRouter.HandleFunc("GET /api/agents/{id}", handlers.AgentsController.FindOne)
	httpRouter.HandleFunc("PUT /api/agents/{id}", handlers.AgentsController.Update)
	httpRouter.HandleFunc("DELETE /api/agents/{id}", handlers.AgentsController.Delete)

	//CONTRIBUTIONS
	httpRouter.HandleFunc("POST /api/contributions", handlers.ContributionsController.Create)
	httpRouter.HandleFunc("GET /api/contributions", handlers.ContributionsController.FindAll)
	httpRouter.HandleFunc("GET /api/contributions/agent/{agentId}", handlers.ContributionsController.FindByAgent)
	httpRouter.HandleFunc("GET /api/contributions/{id}", handlers.ContributionsController.FindOne)
	httpRouter.HandleFunc("DELETE /api/contributions/{id}", handlers.ContributionsController.Delete)

	//NEWS
	httpRouter.HandleFunc("POST /api/news", handlers.NewsController.Create)
	httpRouter.HandleFunc("GET /api/news", handlers.NewsController.FindAll)
	httpRouter.HandleFunc("GET /api/news/category/{category}", handlers.NewsController.FindByCategory)
	httpRouter.HandleFunc("GET /api/news/{id}", handlers.NewsController.FindOne)
	httpRouter.HandleFunc("PUT /api/news/{id}", handlers.NewsController.Update)
	httpRouter.HandleFunc("DELETE /api/news/{id}", handlers.NewsController.Delete)
	httpRouter.HandleFunc("POST /api/news/{id}/like", handlers.NewsController.IncrementLikes)
	httpRouter.HandleFunc("POST /api/news/{id}/comment", handlers.NewsController.IncrementComments)

	fileServer := http.FileServer(FileSystem{http.Dir(uploadFolder)})
	httpRouter.Handle("/static/", http.StripPrefix(strings.TrimRight("/static/", "/"), fileServer))

	handler := cors.AllowAll().Handler(httpRouter)

	logger := log.New(os.Stdout, "dgn-backend", log.LstdFlags)
	logger.Println("Start Listening on port:" + portNumber)

	thisServer := &http.Server{
		Addr:         ":" + portNumber,
		Handler:      handler,
		IdleTimeout:  120 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		err := thisServer.ListenAndServe()
		if err != nil {
			logger.Fatal(err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	signal.Notify(sigChan, os.Kill)

	thisSignalChan := <-sigChan

	logger.Println("Graceful Shutdown", thisSignalChan)

	timeOutContext, canFunct := context.WithTimeout(context.Background(), 5*time.Second)
	defer canFunct()

	thisServer.Shutdown(timeOutContext)
}
