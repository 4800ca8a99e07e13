package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"catalog-service/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	var (
		path = flag.String("path", "migrations", "directory holding the migration files")
		down = flag.Bool("down", false, "roll the schema all the way back instead of forward")
	)
	flag.Parse()

	cfg := config.Load()

	m, err := migrate.New(fmt.Sprintf("file://%s", *path), cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open migrations: %v", err)
	}
	defer m.Close()

	if *down {
		err = m.Down()
	} else {
		err = m.Up()
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Println("No migrations to apply")
		return
	}
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations applied")
}
