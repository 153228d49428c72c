package main

import (
	"context"
	"log"
	"os"

	"github.com/Hussainrokeriya/champweb-backend/core"
	"github.com/Hussainrokeriya/champweb-backend/core/user"
	"github.com/Hussainrokeriya/champweb-backend/storage/database"
	mongorepos "github.com/Hussainrokeriya/champweb-backend/storage/database/mongo"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	if conf.Database.URI == "" {
		logger.Fatal("no database URI configured")
	}

	// set up DB
	db, err := database.Connect(context.Background(), conf)
	errAndDie(err)
	defer func() { _ = database.Disconnect(context.Background(), db) }()

	validate, translator := core.NewValidator()
	user.RegisterValidators(validate, translator)

	// start CLI
	cli := commandLine{
		usrSvc: user.NewService(mongorepos.NewUserRepository(db), validate),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
