package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wadjakorntonsri/booking-bridge/pkg/adapters/cache"
	"github.com/wadjakorntonsri/booking-bridge/pkg/adapters/repository"
	"github.com/wadjakorntonsri/booking-bridge/pkg/config"
	"github.com/wadjakorntonsri/booking-bridge/pkg/core/domain"
	"github.com/wadjakorntonsri/booking-bridge/pkg/core/services"
	"github.com/wadjakorntonsri/booking-bridge/pkg/core/transfer"
	"github.com/wadjakorntonsri/booking-bridge/pkg/logger"
	"github.com/wadjakorntonsri/booking-bridge/pkg/ports"
)

const usage = "expected 'dump', 'restore', 'migrate', 'export' or 'import' subcommands"

var errUsage = errors.New(usage)

func main() {
	cfg := config.Load()
	log, closer := logger.New(cfg.Log)

	err := run(context.Background(), os.Args[1:], cfg, os.Stdout, log)
	closer.Close()
	if errors.Is(err, errUsage) {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.WithError(err).Fatal("command failed")
	}
}

func run(ctx context.Context, args []string, cfg *config.Config, stdout io.Writer, log logrus.FieldLogger) error {
	if len(args) < 1 {
		return errUsage
	}

	dumpCmd := flag.NewFlagSet("dump", flag.ContinueOnError)
	dumpOut := dumpCmd.String("out", "", "write the dump to this file instead of stdout")

	restoreCmd := flag.NewFlagSet("restore", flag.ContinueOnError)
	restoreFile := restoreCmd.String("file", "", "dump file to restore")

	migrateCmd := flag.NewFlagSet("migrate", flag.ContinueOnError)
	migrateTo := migrateCmd.String("to", "", "DATABASE_URL of the target store")
	migrateMongoDB := migrateCmd.String("mongo-db", cfg.MongoDatabase, "database name when the target is MongoDB")

	exportCmd := flag.NewFlagSet("export", flag.ContinueOnError)
	exportPlace := exportCmd.String("place", "", "place ID")
	exportFormat := exportCmd.String("format", "json", "json, csv or xlsx")
	exportOut := exportCmd.String("out", "", "output file (default: generated name)")

	importCmd := flag.NewFlagSet("import", flag.ContinueOnError)
	importFile := importCmd.String("file", "", "JSON export to import")
	importOwner := importCmd.String("owner", "", "owner email of the new place")

	repo, err := repository.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to db: %w", err)
	}
	defer repo.Close()

	switch args[0] {
	case "dump":
		if err := dumpCmd.Parse(args[1:]); err != nil {
			return err
		}
		return doDump(ctx, repo, *dumpOut, stdout)
	case "restore":
		if err := restoreCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *restoreFile == "" {
			restoreCmd.PrintDefaults()
			return errUsage
		}
		return doRestore(ctx, repo, *restoreFile, log)
	case "migrate":
		if err := migrateCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *migrateTo == "" {
			migrateCmd.PrintDefaults()
			return errUsage
		}
		target, err := repository.OpenURL(ctx, *migrateTo, *migrateMongoDB)
		if err != nil {
			return fmt.Errorf("failed to connect to target: %w", err)
		}
		defer target.Close()
		return doMigrate(ctx, repo, target, log)
	case "export":
		if err := exportCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *exportPlace == "" {
			exportCmd.PrintDefaults()
			return errUsage
		}
		return doExport(ctx, repo, *exportPlace, *exportFormat, *exportOut, log)
	case "import":
		if err := importCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *importFile == "" || *importOwner == "" {
			importCmd.PrintDefaults()
			return errUsage
		}
		return doImport(ctx, repo, *importFile, *importOwner, stdout, log)
	default:
		return errUsage
	}
}

func doDump(ctx context.Context, repo ports.PlaceRepository, out string, stdout io.Writer) error {
	places, err := repo.Dump(ctx)
	if err != nil {
		return fmt.Errorf("dump failed: %w", err)
	}

	w := stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(places)
}

// doRestore inserts the places of a dump, keeping their IDs. Places that
// already exist are skipped.
func doRestore(ctx context.Context, repo ports.PlaceRepository, filename string, log logrus.FieldLogger) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var places []domain.Place
	if err := json.NewDecoder(file).Decode(&places); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	count := 0
	for i := range places {
		ok, err := copyPlace(ctx, repo, &places[i], log)
		if err != nil {
			return err
		}
		if ok {
			count++
		}
	}
	log.WithField("count", count).Info("places restored")
	return nil
}

// doMigrate copies every place with its subscribers and events to target.
func doMigrate(ctx context.Context, source, target ports.PlaceRepository, log logrus.FieldLogger) error {
	places, err := source.Dump(ctx)
	if err != nil {
		return fmt.Errorf("dump failed: %w", err)
	}

	var placesCopied, eventsCopied, subsCopied int
	for i := range places {
		p := &places[i]
		ok, err := copyPlace(ctx, target, p, log)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		placesCopied++

		subs, err := source.ListSubscribers(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("list subscribers of %s: %w", p.ID, err)
		}
		for j := range subs {
			if err := target.AddSubscriber(ctx, &subs[j]); err != nil {
				return fmt.Errorf("copy subscriber of %s: %w", p.ID, err)
			}
			subsCopied++
		}

		events, err := source.ListEvents(ctx, p.ID, time.Time{}, 0)
		if err != nil {
			return fmt.Errorf("list events of %s: %w", p.ID, err)
		}
		// Oldest first so the target keeps the original order.
		for j := len(events) - 1; j >= 0; j-- {
			if err := target.RecordEvent(ctx, &events[j]); err != nil {
				return fmt.Errorf("copy event of %s: %w", p.ID, err)
			}
			eventsCopied++
		}
	}
	log.WithFields(logrus.Fields{
		"places":      placesCopied,
		"events":      eventsCopied,
		"subscribers": subsCopied,
	}).Info("migration finished")
	return nil
}

func copyPlace(ctx context.Context, repo ports.PlaceRepository, p *domain.Place, log logrus.FieldLogger) (bool, error) {
	existing, err := repo.GetPlace(ctx, p.ID)
	if err != nil {
		return false, fmt.Errorf("lookup %s: %w", p.ID, err)
	}
	if existing != nil {
		log.WithField("place_id", p.ID).Info("skipping existing place")
		return false, nil
	}
	if err := repo.CreatePlace(ctx, p); err != nil {
		return false, fmt.Errorf("create %s: %w", p.ID, err)
	}
	return true, nil
}

func doExport(ctx context.Context, repo ports.PlaceRepository, placeID, format, out string, log logrus.FieldLogger) error {
	p, err := repo.GetPlace(ctx, placeID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrPlaceNotFound
	}

	now := time.Now()
	var write func(io.Writer) error
	suffix := "links"
	switch format {
	case "json":
		suffix = "export"
		write = func(w io.Writer) error { return transfer.ExportJSON(w, *p, now) }
	case "csv":
		write = func(w io.Writer) error { return transfer.ExportCSV(w, *p) }
	case "xlsx":
		write = func(w io.Writer) error { return transfer.ExportXLSX(w, *p) }
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	if out == "" {
		out = transfer.Filename(p.Name, suffix, format, now)
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.WithField("file", out).Info("place exported")
	return nil
}

func doImport(ctx context.Context, repo ports.PlaceRepository, filename, owner string, stdout io.Writer, log logrus.FieldLogger) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	im, err := transfer.ImportJSON(file)
	if err != nil {
		return err
	}
	for _, w := range im.Warnings {
		log.Warn(w)
	}

	places := services.NewPlaceService(repo, cache.NopCache{}, log)
	p, err := places.ImportPlace(ctx, owner, im)
	if err != nil {
		return err
	}
	log.WithField("place_id", p.ID).WithField("links", im.Links.Len()).Info("place imported")
	_, err = fmt.Fprintln(stdout, p.ID)
	return err
}
