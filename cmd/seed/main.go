package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"kickerledger/internal/app"
	"kickerledger/internal/config"
	"kickerledger/internal/service"
)

// roster is the demo player set with initial ratings
var roster = []struct {
	Name   string
	Rating int
}{
	{"Alex", 1000},
	{"Billie", 1000},
	{"Casey", 1050},
	{"Dana", 950},
	{"Emery", 1100},
	{"Finley", 900},
	{"Gray", 1000},
	{"Harper", 1000},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer a.Close(context.Background())

	added := 0
	for _, p := range roster {
		u, err := a.Registry.Register(ctx, p.Name, p.Rating)
		if errors.Is(err, service.ErrDuplicateName) {
			log.Printf("Skipping %s: already registered", p.Name)
			continue
		}
		if err != nil {
			log.Fatalf("Failed to register %s: %v", p.Name, err)
		}
		added++
		log.Printf("Registered %s (%s) with ELO %d", u.Name, u.ID, u.Rating)
	}

	fmt.Printf("Seeded %d of %d players into the %s store\n", added, len(roster), cfg.Backend)
}
