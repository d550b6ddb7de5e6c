package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

type Config struct {
	Port       string
	AppName    string
	AppVersion string
	LogFile    string

	StoreDriver string // sqlite | mongo
	DBDSN       string
	MongoURI    string
	MongoDB     string
	SeedDemo    bool

	BookingsURL     string
	OutboundTimeout time.Duration

	Discovery            string // static | dns
	Peers                map[string]string
	DNSDomain            string
	UsersService         string
	NotificationsService string

	KafkaBrokers []string
	KafkaTopic   string
}

func Load() (Config, error) {
	cfg := Config{
		Port:                 getEnv("PORT", "8080"),
		AppName:              getEnv("APP_NAME", "accommodations"),
		AppVersion:           getEnv("APP_VERSION", "dev"),
		LogFile:              os.Getenv("LOG_FILE"),
		StoreDriver:          strings.ToLower(getEnv("STORE_DRIVER", "sqlite")),
		DBDSN:                getEnv("DB_DSN", "accommodations.db"),
		MongoURI:             getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:              getEnv("MONGO_DB", "accommodations"),
		BookingsURL:          getEnv("BOOKINGS_URL", "http://localhost:8080/v1/bookings"),
		Discovery:            strings.ToLower(getEnv("DISCOVERY", "static")),
		DNSDomain:            os.Getenv("DNS_DOMAIN"),
		UsersService:         getEnv("USERS_SERVICE", "users"),
		NotificationsService: getEnv("NOTIFICATIONS_SERVICE", "notifications"),
		KafkaTopic:           getEnv("KAFKA_TOPIC", "accommodations.events"),
	}

	seed, err := parseBoolEnv("SEED_DEMO", true)
	if err != nil {
		return Config{}, err
	}
	cfg.SeedDemo = seed

	timeout, err := parseDurationEnv("OUTBOUND_TIMEOUT", 5*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.OutboundTimeout = timeout

	peers, err := ParsePeers(os.Getenv("PEERS"))
	if err != nil {
		return Config{}, err
	}
	cfg.Peers = peers

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	switch cfg.StoreDriver {
	case "sqlite", "mongo":
	default:
		return Config{}, fmt.Errorf("invalid STORE_DRIVER %q", cfg.StoreDriver)
	}
	switch cfg.Discovery {
	case "static", "dns":
	default:
		return Config{}, fmt.Errorf("invalid DISCOVERY %q", cfg.Discovery)
	}

	log.Printf("[config] PORT=%s STORE_DRIVER=%s DB_DSN=%s DISCOVERY=%s BOOKINGS_URL=%s KAFKA_BROKERS=%v LOG_FILE=%s",
		cfg.Port, cfg.StoreDriver, cfg.DBDSN, cfg.Discovery, cfg.BookingsURL, cfg.KafkaBrokers, cfg.LogFile)
	return cfg, nil
}

// ParsePeers reads "name=host:port,name2=host:port" into a map.
func ParsePeers(raw string) (map[string]string, error) {
	peers := map[string]string{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, addr, ok := strings.Cut(part, "=")
		name, addr = strings.TrimSpace(name), strings.TrimSpace(addr)
		if !ok || name == "" || addr == "" {
			return nil, fmt.Errorf("invalid PEERS entry %q", part)
		}
		peers[name] = addr
	}
	return peers, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "yes", "y", "on":
		return true, nil
	case "0", "f", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s boolean: %q", key, raw)
	}
}
