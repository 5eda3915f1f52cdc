package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/sahilchouksey/shikshachain/config"
	"github.com/sahilchouksey/shikshachain/database"
)

func main() {
	if err := config.LoadENV(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}

	env, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to read config: %v", err)
	}

	store, err := database.Open(env)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		log.Fatalf("Failed to initialize database tables: %v", err)
	}

	separator := strings.Repeat("=", 60)
	fmt.Println(separator)
	fmt.Println("ShikshaChain - Database Seeding")
	fmt.Println(separator)

	if err := database.NewSeeder(store).SeedAll(ctx); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	fmt.Println(separator)
	fmt.Printf("Demo university %q (%s) is available.\n", database.DemoUniversity.Name, database.DemoUniversity.ID)
	fmt.Println(separator)
}
