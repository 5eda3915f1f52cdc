package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sahilchouksey/shikshachain/model"
)

// DemoUniversity is the authorized institution seeded for local demos
var DemoUniversity = model.University{
	ID:               "bput",
	Name:             "Biju Patnaik University of Technology",
	PrincipalAddress: "SP2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKNRV9EJ7",
	Authorized:       true,
}

// Seeder handles database seeding operations
type Seeder struct {
	store Storage
}

// NewSeeder creates a new seeder instance
func NewSeeder(store Storage) *Seeder {
	return &Seeder{store: store}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll(ctx context.Context) error {
	log.Println("Starting database seeding...")

	if err := s.SeedUniversities(ctx); err != nil {
		return fmt.Errorf("failed to seed universities: %w", err)
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

// SeedUniversities inserts the demo university unless its principal address is taken
func (s *Seeder) SeedUniversities(ctx context.Context) error {
	_, err := s.store.FindUniversity(ctx, UniversityFilter{PrincipalAddress: DemoUniversity.PrincipalAddress})
	if err == nil {
		log.Println("Demo university already present, skipping")
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	university := DemoUniversity
	university.CreatedAt = time.Now().UTC()
	if err := s.store.InsertUniversity(ctx, &university); err != nil {
		return err
	}

	log.Printf("Seeded university: %s", university.Name)
	return nil
}
