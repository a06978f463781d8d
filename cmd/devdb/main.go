package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/localnerve/clientsdb/internal/config"
	"github.com/localnerve/clientsdb/internal/devcontainer"
	"github.com/localnerve/clientsdb/internal/logging"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	flag.Parse()

	usage := `
Run a development database container with the environment variables from the .env file.

Usage:

devdb [-h] [-f ENV_FILE_PATH]

ENV_FILE_PATH: path to the .env file

Recognized variables: DB_TYPE (mariadb, mysql, postgres), DB_IMAGE, DB_HOST,
DB_PORT, DB_DATABASE, DB_USER, DB_PASSWORD, DB_ROOT_PASSWORD

example
  devdb -f /path/to/something/.env
`
	// if -h flag print usage and return
	if showHelp {
		fmt.Println(usage)
		return
	}

	log := logging.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	if envFilename != "" {
		log.Infof("Loading environment variables from %s", envFilename)
		if err := config.LoadEnvFile(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v", err)
		}
	} else {
		log.Info("No environment file specified, using current environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	opts := devcontainer.OptionsFromEnv()
	containers, err := devcontainer.StartDatabase(ctx, opts, log)
	if err != nil {
		log.Fatalf("Failed to start database container: %v", err)
	}

	fmt.Printf("DB_TYPE=%s\nDB_HOST=%s\nDB_PORT=%s\nDB_DATABASE=%s\nDB_USER=%s\n",
		opts.DBType, containers.Host, containers.Port.Port(), opts.Database, opts.User)

	<-ctx.Done()
	log.Info("Received signal, terminating database container...")
	containers.Terminate(context.Background(), log)
}
