package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/Hussainrokeriya/champweb-backend/core"
	"github.com/Hussainrokeriya/champweb-backend/core/classroom"
	"github.com/Hussainrokeriya/champweb-backend/core/user"

	echoapi "github.com/Hussainrokeriya/champweb-backend/apps/api/echo"
	emailsvc "github.com/Hussainrokeriya/champweb-backend/services/email"
	logsvc "github.com/Hussainrokeriya/champweb-backend/services/logger"
	"github.com/Hussainrokeriya/champweb-backend/storage/database"
	inmemdb "github.com/Hussainrokeriya/champweb-backend/storage/database/inmem"
	mongorepos "github.com/Hussainrokeriya/champweb-backend/storage/database/mongo"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	var logger core.Logger
	if conf.Debug {
		logger = logsvc.NewStdLogger(std)
	} else {
		rollbarLogger := logsvc.NewRollbarLogger(std, conf)
		rollbarLogger.Enable(true)
		logger = rollbarLogger
	}

	// set up repositories; without a database URI we fall back to in-memory
	// storage (local runs)
	var usrRepo user.Repository
	var classRepo classroom.Repository
	if conf.Database.URI != "" {
		db, err := database.Connect(context.Background(), conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		defer func() {
			if err = database.Disconnect(context.Background(), db); err != nil {
				logger.Error(fmt.Sprintf("closing database: %v", err), err)
			}
		}()
		usrRepo = mongorepos.NewUserRepository(db)
		classRepo = mongorepos.NewClassroomRepository(db)
	} else {
		logger.Warn("no database URI configured; using in-memory storage")
		usrRepo = inmemdb.NewUserRepository()
		classRepo = inmemdb.NewClassroomRepository()
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	validate, translator := core.NewValidator()
	user.RegisterValidators(validate, translator)

	usrSvc := user.NewService(usrRepo, validate)
	classSvc := classroom.NewService(conf, classRepo, usrSvc, mailSvc, validate)

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:         conf,
			Logger:       logger,
			Translator:   translator,
			ClassroomSvc: classSvc,
		},
	)

	go server.Start()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
