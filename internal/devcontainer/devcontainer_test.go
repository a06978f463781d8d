package devcontainer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitStatements(t *testing.T) {
	script := `-- create the database
CREATE DATABASE IF NOT EXISTS clientsdb;
  -- indented comment
CREATE USER 'app'@'%' IDENTIFIED BY 'pw';

GRANT ALL PRIVILEGES ON clientsdb.* TO 'app'@'%';
`
	assert.Equal(t, []string{
		"CREATE DATABASE IF NOT EXISTS clientsdb",
		"CREATE USER 'app'@'%' IDENTIFIED BY 'pw'",
		"GRANT ALL PRIVILEGES ON clientsdb.* TO 'app'@'%'",
	}, splitStatements(script))

	assert.Empty(t, splitStatements("-- nothing here\n\n"))
}

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv("DB_TYPE", "")
	t.Setenv("DB_IMAGE", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_DATABASE", "")
	opts := OptionsFromEnv()
	assert.Equal(t, "mariadb", opts.DBType)
	assert.Equal(t, "mariadb:11", opts.Image)
	assert.Equal(t, "3306", opts.Port)
	assert.Equal(t, "clientsdb", opts.Database)

	t.Setenv("DB_TYPE", "postgres")
	opts = OptionsFromEnv()
	assert.Equal(t, "postgres:17", opts.Image)
	assert.Equal(t, "5432", opts.Port)
	assert.Equal(t, opts.Database, initEnv(opts)["POSTGRES_DB"])
}
