package config

import (
	"github.com/spf13/viper"
)

// Config carries everything the process reads from the environment.
type Config struct {
	AppPort       string
	StorageDriver string
	SQLitePath    string
	DatabaseDSN   string
	MongoURI      string
	MongoDB       string
	SeedFile      string
	ForceReseed   bool
	RabbitMQURL   string
}

// Load reads the configuration from environment variables, falling back to
// defaults that suit local development. An empty RabbitMQURL disables
// eventing; FORCE_RESEED wipes and reloads the store from the seed file on
// startup.
func Load() Config {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("STORAGE_DRIVER", "sqlite")
	viper.SetDefault("SQLITE_PATH", "inventory.db")
	viper.SetDefault("DATABASE_DSN", "")
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DB", "gudang")
	viper.SetDefault("SEED_FILE", "inventory_data.json")
	viper.SetDefault("FORCE_RESEED", false)
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv()

	return Config{
		AppPort:       viper.GetString("APP_PORT"),
		StorageDriver: viper.GetString("STORAGE_DRIVER"),
		SQLitePath:    viper.GetString("SQLITE_PATH"),
		DatabaseDSN:   viper.GetString("DATABASE_DSN"),
		MongoURI:      viper.GetString("MONGO_URI"),
		MongoDB:       viper.GetString("MONGO_DB"),
		SeedFile:      viper.GetString("SEED_FILE"),
		ForceReseed:   viper.GetBool("FORCE_RESEED"),
		RabbitMQURL:   viper.GetString("RABBITMQ_URL"),
	}
}
