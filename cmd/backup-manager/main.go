// backup-manager takes timestamped dumps of a MySQL database with mysqldump
// and keeps a bounded set of them according to a retention policy.
//
// Usage:
//
//	# Back up the configured database and apply retention
//	backup-manager backup
//
//	# Back up a specific database
//	backup-manager backup shopdb
//
//	# Apply retention without taking a backup
//	backup-manager prune
//
//	# List the stored backup artifacts
//	backup-manager list
//
//	# Show version information
//	backup-manager version
//
// Configuration is read from /etc/backup-manager/config.yaml (override with
// --config), then from environment variables. A .env file in the working
// directory is picked up automatically.
package main

import (
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	Execute()
}
