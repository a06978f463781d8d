// devcontainer.go
//
// Client, project and employee management service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of clientsdb.
// clientsdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// clientsdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with clientsdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

// Package devcontainer starts throwaway database containers for local
// development and integration tests.
package devcontainer

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	"github.com/localnerve/clientsdb/data"
	"github.com/localnerve/clientsdb/internal/database"
	"github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Options describe the database container to start.
type Options struct {
	DBType       string // mariadb, mysql, postgres
	Image        string
	Database     string
	User         string
	Password     string
	RootPassword string
	Port         string // container port
	Alias        string // network alias
}

// OptionsFromEnv reads the options from the environment, with defaults
// suitable for a MariaDB development database.
func OptionsFromEnv() Options {
	opts := Options{
		DBType:       getEnv("DB_TYPE", "mariadb"),
		Database:     getEnv("DB_DATABASE", "clientsdb"),
		User:         getEnv("DB_USER", "clientsdb"),
		Password:     getEnv("DB_PASSWORD", "clientsdb"),
		RootPassword: getEnv("DB_ROOT_PASSWORD", "root"),
		Alias:        getEnv("DB_HOST", "db"),
	}
	switch opts.DBType {
	case "postgres":
		opts.Image = getEnv("DB_IMAGE", "postgres:17")
		opts.Port = getEnv("DB_PORT", "5432")
	default:
		opts.Image = getEnv("DB_IMAGE", "mariadb:11")
		opts.Port = getEnv("DB_PORT", "3306")
	}
	return opts
}

// Containers is a started database container and its network.
type Containers struct {
	Network     *testcontainers.DockerNetwork
	DBContainer testcontainers.Container

	// Host and Port are reachable from the process that started the container.
	Host string
	Port nat.Port
}

// Terminate stops the container and removes the network.
func (tc *Containers) Terminate(ctx context.Context, log logrus.FieldLogger) {
	if tc.DBContainer != nil {
		if err := tc.DBContainer.Terminate(ctx); err != nil {
			log.WithError(err).Warn("Failed to terminate database container")
		}
	}
	if tc.Network != nil {
		if err := tc.Network.Remove(ctx); err != nil {
			log.WithError(err).Warn("Failed to remove network")
		}
	}
}

// StartDatabase starts the database container and prepares the
// application database and user.
func StartDatabase(ctx context.Context, opts Options, log logrus.FieldLogger) (*Containers, error) {
	tc := &Containers{}

	nw, err := network.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create network: %w", err)
	}
	tc.Network = nw

	tcpPort, err := nat.NewPort("tcp", opts.Port)
	if err != nil {
		tc.Terminate(ctx, log)
		return nil, fmt.Errorf("failed to create DB port: %w", err)
	}

	if exists, err := ImageExists(ctx, opts.Image); err == nil && !exists {
		log.WithField("image", opts.Image).Info("Image not present locally, pulling...")
	}

	dbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        opts.Image,
			ExposedPorts: []string{string(tcpPort)},
			Env:          initEnv(opts),
			WaitingFor:   wait.ForListeningPort(tcpPort).WithStartupTimeout(60 * time.Second),
			Networks:     []string{nw.Name},
			NetworkAliases: map[string][]string{
				nw.Name: {opts.Alias},
			},
		},
		Started: true,
	})
	if err != nil {
		tc.Terminate(ctx, log)
		return nil, fmt.Errorf("failed to start database: %w", err)
	}
	tc.DBContainer = dbContainer

	if tc.Host, err = dbContainer.Host(ctx); err != nil {
		tc.Terminate(ctx, log)
		return nil, fmt.Errorf("failed to read container host: %w", err)
	}
	if tc.Port, err = dbContainer.MappedPort(ctx, tcpPort); err != nil {
		tc.Terminate(ctx, log)
		return nil, fmt.Errorf("failed to read mapped port: %w", err)
	}

	switch opts.DBType {
	case "mysql", "mariadb":
		if err := initMySQL(ctx, opts, tc.Host, tc.Port); err != nil {
			tc.Terminate(ctx, log)
			return nil, err
		}
	}

	log.WithFields(logrus.Fields{
		"image": opts.Image,
		"host":  tc.Host,
		"port":  tc.Port.Port(),
	}).Info("Database container started")
	return tc, nil
}

// DockerAvailable reports whether a Docker daemon answers.
func DockerAvailable(ctx context.Context) bool {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return false
	}
	defer cli.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	_, err = cli.Ping(pingCtx)
	return err == nil
}

// ImageExists reports whether imageName is present in the local image store.
func ImageExists(ctx context.Context, imageName string) (bool, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return false, err
	}
	defer cli.Close()

	images, err := cli.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return false, err
	}

	for _, image := range images {
		for _, tag := range image.RepoTags {
			if tag == imageName {
				return true, nil
			}
		}
	}

	return false, nil
}

func initEnv(opts Options) map[string]string {
	switch opts.DBType {
	case "postgres":
		return map[string]string{
			"POSTGRES_PASSWORD": opts.Password,
			"POSTGRES_USER":     opts.User,
			"POSTGRES_DB":       opts.Database,
		}
	}
	return map[string]string{
		"MARIADB_ROOT_PASSWORD": opts.RootPassword,
		"MYSQL_ROOT_PASSWORD":   opts.RootPassword,
	}
}

func initMySQL(ctx context.Context, opts Options, host string, port nat.Port) error {
	db, err := sql.Open("mysql", database.MySQLDSN("root", opts.RootPassword, host, port.Port(), ""))
	if err != nil {
		return fmt.Errorf("failed to connect to %s for setup: %w", opts.DBType, err)
	}
	defer db.Close()

	// The port opens before the server accepts logins
	for i := 0; i < 30; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	if err != nil {
		return fmt.Errorf("%s not ready after 30 seconds: %w", opts.DBType, err)
	}

	script := os.Expand(data.InitdbMariaDBAppUser, func(name string) string {
		switch name {
		case "DB_DATABASE":
			return opts.Database
		case "DB_USER":
			return opts.User
		case "DB_PASSWORD":
			return opts.Password
		}
		return ""
	})
	if err := executeSQL(ctx, db, script); err != nil {
		return fmt.Errorf("failed to execute %s init sql: %w", opts.DBType, err)
	}
	return nil
}

// executeSQL runs a script of semicolon terminated statements, skipping
// "--" line comments.
func executeSQL(ctx context.Context, db *sql.DB, script string) error {
	for _, q := range splitStatements(script) {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("%s : when executing > %s", err.Error(), q)
		}
	}
	return nil
}

func splitStatements(script string) []string {
	lines := strings.Split(script, "\n")
	kept := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "--") {
			continue
		}
		kept = append(kept, l)
	}

	var statements []string
	for _, q := range strings.Split(strings.Join(kept, "\n"), ";") {
		if q = strings.TrimSpace(q); q != "" {
			statements = append(statements, q)
		}
	}
	return statements
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
