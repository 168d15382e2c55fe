package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/flocknet/flock/database"
	"github.com/flocknet/flock/helpers"
	"github.com/flocknet/flock/router"
	"github.com/flocknet/flock/storage"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Get key-value in .env file
	godotenv.Load()

	// Connect the stores shared for the process lifetime
	database.Init()
	storage.Init()
	helpers.InitNATS()

	serverMiddleware := helpers.InitTracer()

	// Create routes
	mux := http.NewServeMux()
	mux.HandleFunc("/", router.Index)
	mux.HandleFunc("/auth/", router.AuthHandler)
	mux.HandleFunc("/users/", router.UserHandler)
	mux.HandleFunc("/posts/", router.PostHandler)
	mux.HandleFunc("/notifications", router.NotificationHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(helpers.GetRegistery(), promhttp.HandlerOpts{}))

	log.Println("Server is starting on port", os.Getenv("PORT"))

	// Create web server
	server := &http.Server{
		Addr:              ":" + os.Getenv("PORT"),
		Handler:           serverMiddleware(mux),
		ReadHeaderTimeout: 3 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil {
		panic(err)
	}
}
