package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	HostIP           string // IP both servers bind to
	AdvertiseIP      string // IP announced to peers; defaults to HostIP
	RESTPort         int    // Port for the REST API
	UDPPort          int    // Port hosts listen on for peers
	GinMode          string // Mode for the Gin framework (e.g., release, debug, test)
	ControlToken     string // Shared token for mutating routes; empty disables the check
	RedisAddr        string // Rendezvous directory address; empty keeps it in memory
	RedisPassword    string
	RedisDB          int
	RendezvousPrefix string // Key prefix of host announcements
	RendezvousTTL    int    // Seconds an announcement lives
	MongoURI         string // Match result store; empty keeps results in memory
	DBName           string // Name of the database
	GameConfigFile   string // JSON file the game config is loaded from and saved to
	ReplayDir        string // Directory replays are written to; empty disables recording
	PeerID           string // Fixed local peer ID; generated when empty
}

// Load reads the configuration from the environment, after loading a .env
// file if one exists. Missing required variables are fatal.
func Load() Config {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	hostIP := mustGetEnv("HOST_IP")
	return Config{
		HostIP:           hostIP,
		AdvertiseIP:      getEnvWithDefault("ADVERTISE_IP", hostIP),
		RESTPort:         mustGetEnvAsInt("REST_PORT"),
		UDPPort:          mustGetEnvAsInt("UDP_PORT"),
		GinMode:          getEnvWithDefault("GIN_MODE", "release"),
		ControlToken:     getEnvWithDefault("CONTROL_TOKEN", ""),
		RedisAddr:        getEnvWithDefault("REDIS_ADDR", ""),
		RedisPassword:    getEnvWithDefault("REDIS_PASSWORD", ""),
		RedisDB:          getEnvAsIntWithDefault("REDIS_DB", 0),
		RendezvousPrefix: getEnvWithDefault("RENDEZVOUS_PREFIX", "snake-duel"),
		RendezvousTTL:    getEnvAsIntWithDefault("RENDEZVOUS_TTL", 600),
		MongoURI:         getEnvWithDefault("MONGO_URI", ""),
		DBName:           getEnvWithDefault("DB_NAME", "snake_duel"),
		GameConfigFile:   getEnvWithDefault("GAME_CONFIG_FILE", ""),
		ReplayDir:        getEnvWithDefault("REPLAY_DIR", ""),
		PeerID:           getEnvWithDefault("PEER_ID", ""),
	}
}

// mustGetEnv retrieves the value of an environment variable or logs a fatal error if not set.
func mustGetEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		log.Fatalf("[APP] [FATAL] Environment variable %s is not set", key)
	}
	return value
}

// mustGetEnvAsInt retrieves the value of an environment variable as an integer or logs a fatal error if not set or cannot be parsed.
func mustGetEnvAsInt(key string) int {
	valueStr := mustGetEnv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsIntWithDefault is getEnvWithDefault for integers. A value that does
// not parse is fatal, like a missing required variable.
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}
