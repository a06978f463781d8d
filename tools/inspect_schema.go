package main

import (
	"fmt"
	"log"

	"github.com/localnerve/clientsdb/internal/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type sqliteObject struct {
	Type string
	Name string
	SQL  string
}

func main() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatal(err)
	}

	// Auto-migrate to see what GORM creates, including the join table
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	var objects []sqliteObject
	err = db.Raw("SELECT type, name, sql FROM sqlite_master WHERE type IN ('table', 'index') AND sql IS NOT NULL ORDER BY tbl_name, type DESC, name").
		Scan(&objects).Error
	if err != nil {
		log.Fatal(err)
	}

	for _, obj := range objects {
		fmt.Printf("\n=== %s: %s ===\n", obj.Type, obj.Name)
		fmt.Println(obj.SQL)
	}
}
