package main

import (
	"log"

	"talentgate-backend/internal/database"
	"talentgate-backend/internal/server"
)

func main() {
	db, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Database failed to initialize: %s", err)
	}

	srv := server.NewServer(db)

	log.Printf("Listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("cannot start server: %s", err)
	}
}
