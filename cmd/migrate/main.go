package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"khata/internal/config"
	"khata/internal/logger"
)

const usage = "Usage: migrate [up|down|steps N|force V|version]"

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log, os.Args[1:]); err != nil {
		log.Fatalw("migration failed", "command", os.Args[1], "error", err)
	}
}

func run(cfg *config.Config, log *logger.Logger, args []string) error {
	if cfg.DB.Driver == config.DriverMemory {
		return errors.New("db.driver is memory; nothing to migrate")
	}

	m, err := migrate.New("file://db/migrations", cfg.DB.DSN())
	if err != nil {
		return errors.Wrap(err, "create migrate instance")
	}
	defer func() { _, _ = m.Close() }()

	switch args[0] {
	case "up":
		if err := ignoreNoChange(m.Up()); err != nil {
			return err
		}
		log.Infow("migrations applied")

	case "down":
		if err := ignoreNoChange(m.Down()); err != nil {
			return err
		}
		log.Infow("migrations reverted")

	case "steps", "force":
		if len(args) < 2 {
			return errors.Newf("%s requires a number argument", args[0])
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return errors.Wrapf(err, "invalid %s argument", args[0])
		}
		if args[0] == "force" {
			if err := m.Force(n); err != nil {
				return err
			}
			log.Infow("forced migration version", "version", n)
			return nil
		}
		if err := ignoreNoChange(m.Steps(n)); err != nil {
			return err
		}
		log.Infow("applied migration steps", "steps", n)

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return errors.Wrap(err, "read version")
		}
		log.Infow("migration version", "version", version, "dirty", dirty)

	default:
		return errors.Newf("unknown command %q; %s", args[0], usage)
	}
	return nil
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}
