package main

import (
	"flag"
	"log"

	"github.com/TaskForge-io/taskforge/internal/api"
	"github.com/TaskForge-io/taskforge/internal/config"
	"github.com/TaskForge-io/taskforge/internal/database"
)

const version = "0.1.0"

func main() {
	configPath := flag.String("config", "app.yml", "Path to configuration file")
	flag.Parse()

	log.Printf("Starting TaskForge API v%s with config: %s", version, *configPath)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	api, err := api.NewApi(*cfg, db)
	if err != nil {
		log.Fatal(err)
	}

	api.Serve()
}
