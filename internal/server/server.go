package server

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"talentgate-backend/internal/auth"
	"talentgate-backend/internal/database"
	"talentgate-backend/internal/mailer"
)

// Server contain port which server are running on and database instance
type Server struct {
	Port int

	DB        *database.DBinstanceStruct
	Blacklist auth.JwtBlacklistStore
	Mail      mailer.Sender
}

// NewServer construct new Server instance bound to the given database.
func NewServer(db *database.DBinstanceStruct) *http.Server {
	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port == 0 {
		port = 8080
	}

	srv := &Server{
		Port:      port,
		DB:        db,
		Blacklist: auth.NewInMemoryBlacklistStore(),
		Mail:      mailer.NewAPIMailer(db),
	}

	// Declare Server config
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", srv.Port),
		Handler:      srv.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
