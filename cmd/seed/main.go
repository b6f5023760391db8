// Command seed loads the paint catalog into the database.
//
//	seed -f paints.json
//	seed -f s3://catalog/paints.json -e http://127.0.0.1:9000 -u minioadmin -p minioadmin
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/mixmini/internal/flagx"
	"github.com/dmitrijs2005/mixmini/internal/logging"
	"github.com/dmitrijs2005/mixmini/internal/server/config"
	"github.com/dmitrijs2005/mixmini/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/mixmini/internal/server/seed"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var src string
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&src, "f", "", "seed file path or s3://bucket/key")
	if err := fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-f"})); err != nil || src == "" {
		log.Fatal("usage: seed -f <path|s3://bucket/key> [server flags]")
	}

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := logging.NewJSONLogger(os.Stdout, cfg.LogLevel)

	data, err := seed.Fetch(ctx, src, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	records, err := seed.Parse(data)
	if err != nil {
		log.Fatalf("%v", err)
	}

	db, err := repomanager.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	res, err := seed.NewSeeder(db, rm).Apply(ctx, records)
	if err != nil {
		log.Fatalf("seed error: %v", err)
	}

	logger.Info(ctx, "catalog seeded", "source", src, "inserted", res.Inserted, "updated", res.Updated)
}
