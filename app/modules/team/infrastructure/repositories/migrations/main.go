package teammigrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()

func init() {
	// Each migration takes its ID from the file name that registers it.
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
}
