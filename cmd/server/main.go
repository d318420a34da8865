package main

import (
	"log"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/app"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/app/config"
)

func main() {
	cfg := config.MustLoad()
	if err := app.Run(cfg); err != nil {
		log.Fatalf("application terminated: %v", err)
	}
}
