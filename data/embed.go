package data

import (
	_ "embed"
)

// InitdbMariaDBAppUser creates the application database and user.
//
//go:embed initdb/mariadb/001-app-user.sql
var InitdbMariaDBAppUser string
