package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"publish3/config"
	"publish3/db"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const usage = `Usage: migrate <command>

Commands:
  up             apply all pending migrations
  up-to VERSION  migrate forwards up to and including VERSION
  down [N]       roll back the last N migrations (default 1)
  status         print applied and pending migrations
  version        print the current schema version
`

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	gormDB, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	ctx := context.Background()
	switch args[0] {
	case "up":
		err = db.Apply(ctx, gormDB)
	case "up-to":
		if len(args) < 2 {
			log.Fatal("up-to requires a target version")
		}
		var version int64
		version, err = strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			log.Fatalf("invalid version %q: %v", args[1], err)
		}
		err = db.ApplyTo(ctx, gormDB, version)
	case "down":
		steps := 1
		if len(args) > 1 {
			steps, err = strconv.Atoi(args[1])
			if err != nil {
				log.Fatalf("invalid step count %q: %v", args[1], err)
			}
		}
		err = db.Revert(ctx, gormDB, steps)
	case "status":
		err = db.Status(ctx, gormDB)
	case "version":
		var version int64
		version, err = db.Version(ctx, gormDB)
		if err == nil {
			fmt.Println(version)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", args[0], err)
	}
}
