package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the parking service.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Port: The port for the parking API server.
// - MonitoringPort: The port for the health and metrics server.
// - StorageType: Where spots are kept (memory, postgres).
// - Location: Which location source feeds readings and how.
// - Maps: Google Maps credentials for geolocation, gate resolution and directions.
// - Proximity: The gate and the distance model.
// - Database: Configuration settings for the PostgreSQL database.
type Config struct {
	Env            string          `yaml:"env"`             // Env is the current environment: local, development, production.
	Port           int             `yaml:"api.port"`        // Port is the parking API server port.
	MonitoringPort int             `yaml:"monitoring.port"` // MonitoringPort serves /healthz and /metrics.
	StorageType    string          `yaml:"storage.type"`    // StorageType selects the spot repository.
	Location       LocationConfig  `yaml:"location"`        // Location configures the reading source.
	Maps           MapsConfig      `yaml:"maps"`            // Maps holds Google Maps settings.
	Proximity      ProximityConfig `yaml:"proximity"`       // Proximity configures the gate.
	Database       PostgresConfig  `yaml:"postgres"`        // Database holds the postgres database configuration
}

// LocationConfig selects and tunes the location source.
type LocationConfig struct {
	SourceType string        `yaml:"source"`   // static, push or google.
	Interval   time.Duration `yaml:"interval"` // Emission or polling interval.
	Timeout    time.Duration `yaml:"timeout"`  // Per-request timeout for polling sources.
}

// MapsConfig holds the Google Maps credentials.
type MapsConfig struct {
	APIKey    string `yaml:"api_key"`    // APIKey enables geolocation, geocoding and directions links.
	RateLimit int    `yaml:"rate_limit"` // RateLimit is the client requests-per-second cap.
}

// ProximityConfig describes the gate and the sphere used for distances.
type ProximityConfig struct {
	GateName      string  `yaml:"gate.name"`      // GateName labels the reference point.
	GateAddress   string  `yaml:"gate.address"`   // GateAddress, when set, is geocoded instead of using lat/lng.
	GateLatitude  float64 `yaml:"gate.latitude"`  // GateLatitude of the reference point.
	GateLongitude float64 `yaml:"gate.longitude"` // GateLongitude of the reference point.
	GateRadiusKm  float64 `yaml:"gate_radius_km"` // GateRadiusKm is the suggestion radius around the gate.
	EarthRadiusKm float64 `yaml:"earth_radius_km"`
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`                        // Host is the database server address.
	Port     string `yaml:"port"     env-default:"5432"` // Port is the database server port.
	User     string `yaml:"user"`                        // User is the database user.
	Password string `yaml:"password"`                    // Password is the database user's password.
	Name     string `yaml:"db_name"`                     // Name is the name of the database.
}

// MustLoad builds the configuration from defaults, an optional YAML file referenced by
// SKYPARK_CONFIG_PATH, a .env file and the environment, in increasing priority.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SKYPARK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	bindDatabaseEnv(v)

	if path, ok := os.LookupEnv("SKYPARK_CONFIG_PATH"); ok && path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			panic("failed to read configuration file")
		}
	}

	apiPort, err := strconv.Atoi(v.GetString("api.port"))
	if err != nil {
		panic("failed to parse port for api server from configuration")
	}

	monitoringPort, err := strconv.Atoi(v.GetString("monitoring.port"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	interval, err := time.ParseDuration(v.GetString("location.interval"))
	if err != nil {
		panic("failed to parse location interval from configuration")
	}

	timeout, err := time.ParseDuration(v.GetString("location.timeout"))
	if err != nil {
		panic("failed to parse location timeout from configuration")
	}

	rateLimit, err := strconv.Atoi(v.GetString("maps.rate_limit"))
	if err != nil {
		panic("failed to parse maps rate limit from configuration, must be an integer types")
	}

	gateRadius := mustPositiveFloat(v, "proximity.gate_radius_km", "failed to parse gate radius from configuration")
	earthRadius := mustPositiveFloat(v, "proximity.earth_radius_km", "failed to parse earth radius from configuration")

	gateLat, errLat := strconv.ParseFloat(v.GetString("proximity.gate.latitude"), 64)
	gateLng, errLng := strconv.ParseFloat(v.GetString("proximity.gate.longitude"), 64)
	if errLat != nil || errLng != nil {
		panic("failed to parse gate coordinates from configuration")
	}

	return &Config{
		Env:            v.GetString("env"),
		Port:           apiPort,
		MonitoringPort: monitoringPort,
		StorageType:    v.GetString("storage.type"),
		Location: LocationConfig{
			SourceType: v.GetString("location.source"),
			Interval:   interval,
			Timeout:    timeout,
		},
		Maps: MapsConfig{
			APIKey:    v.GetString("maps.api_key"),
			RateLimit: rateLimit,
		},
		Proximity: ProximityConfig{
			GateName:      v.GetString("proximity.gate.name"),
			GateAddress:   v.GetString("proximity.gate.address"),
			GateLatitude:  gateLat,
			GateLongitude: gateLng,
			GateRadiusKm:  gateRadius,
			EarthRadiusKm: earthRadius,
		},
		Database: PostgresConfig{
			Host:     v.GetString("postgres.host"),
			Port:     v.GetString("postgres.port"),
			User:     v.GetString("postgres.user"),
			Password: v.GetString("postgres.password"),
			Name:     v.GetString("postgres.db_name"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "production")
	v.SetDefault("api.port", "8000")
	v.SetDefault("monitoring.port", "8080")
	v.SetDefault("storage.type", "memory")
	v.SetDefault("location.source", "push")
	v.SetDefault("location.interval", "5s")
	v.SetDefault("location.timeout", "5s")
	v.SetDefault("maps.api_key", "")
	v.SetDefault("maps.rate_limit", "10")
	v.SetDefault("proximity.gate.name", "Lanseria Airport")
	v.SetDefault("proximity.gate.address", "")
	v.SetDefault("proximity.gate.latitude", "-26.133")
	v.SetDefault("proximity.gate.longitude", "27.938")
	v.SetDefault("proximity.gate_radius_km", "0.5")
	v.SetDefault("proximity.earth_radius_km", "6371")
	v.SetDefault("postgres.port", "5432")
}

// bindDatabaseEnv keeps the unprefixed DB_* variable names shared with other services.
func bindDatabaseEnv(v *viper.Viper) {
	_ = v.BindEnv("postgres.host", "DB_HOST")
	_ = v.BindEnv("postgres.port", "DB_PORT")
	_ = v.BindEnv("postgres.user", "DB_USERNAME")
	_ = v.BindEnv("postgres.password", "DB_PASSWORD")
	_ = v.BindEnv("postgres.db_name", "DB_NAME")
}

func mustPositiveFloat(v *viper.Viper, key, msg string) float64 {
	value, err := strconv.ParseFloat(v.GetString(key), 64)
	if err != nil || value <= 0 {
		panic(msg)
	}

	return value
}
