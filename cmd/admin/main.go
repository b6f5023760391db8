// Command admin runs operator tasks against the MixMini database.
//
//	admin create-user -email root@example.com [-superuser]
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/mixmini/internal/admin"
	"github.com/dmitrijs2005/mixmini/internal/logging"
	"github.com/dmitrijs2005/mixmini/internal/server/config"
	"github.com/dmitrijs2005/mixmini/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/mixmini/internal/server/services"
)

const usage = "usage: admin create-user -email <email> [-superuser] [server flags]"

func main() {
	if len(os.Args) < 2 || os.Args[1] != "create-user" {
		log.Fatal(usage)
	}
	args := os.Args[2:]

	opts, err := admin.ParseCreateUser(args)
	if err != nil {
		log.Fatalf("%v\n%s", err, usage)
	}

	cfg, err := config.Load(args)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()
	db, err := repomanager.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	logger := logging.NewJSONLogger(os.Stderr, cfg.LogLevel)
	users := services.NewUserService(db, rm, cfg, services.NewLogResetNotifier(logger))

	if err := admin.CreateUser(ctx, users, opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
