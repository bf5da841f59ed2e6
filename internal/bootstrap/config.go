package bootstrap

import (
	"errors"
	"fmt"
	"github.com/kahvecikaan/shopping-list/internal/domain"
	"github.com/spf13/viper"
	"strings"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	// cfgKeyConnectionString is the static configuration fallback.
	cfgKeyConnectionString = "connection_strings.default"

	defaultSSLMode = "disable"
)

// Getenv looks up an environment variable. os.Getenv satisfies it.
type Getenv func(key string) string

// Resolver produces a connection string from one configuration source.
// An empty result with a nil error means the source had nothing to offer.
type Resolver struct {
	Name    string
	Resolve func() (string, error)
}

// DefaultResolvers returns the connection string sources in priority order:
// individual parts, the composite env var, then config.yaml in configDir.
func DefaultResolvers(getenv Getenv, configDir string) []Resolver {
	return []Resolver{
		{Name: "environment parts", Resolve: func() (string, error) { return fromParts(getenv), nil }},
		{Name: "DATABASE_CONNECTION_STRING", Resolve: func() (string, error) {
			return strings.TrimSpace(getenv("DATABASE_CONNECTION_STRING")), nil
		}},
		{Name: "config.yaml", Resolve: func() (string, error) { return fromStaticConfig(configDir) }},
	}
}

// ResolveConnectionString walks resolvers in order and returns the first
// non-empty connection string along with the name of the source that gave it.
func ResolveConnectionString(resolvers []Resolver) (string, string, error) {
	for _, r := range resolvers {
		dsn, err := r.Resolve()
		if err != nil {
			return "", r.Name, fmt.Errorf("resolve connection string from %s: %w", r.Name, err)
		}
		if dsn != "" {
			return dsn, r.Name, nil
		}
	}

	return "", "", domain.ErrNotConfigured
}

// fromParts assembles a lib/pq key/value DSN. All five parts must be set.
func fromParts(getenv Getenv) string {
	host := getenv("host")
	port := getenv("port")
	dbname := getenv("dbname")
	user := getenv("username")
	password := getenv("password")

	if host == "" || port == "" || dbname == "" || user == "" || password == "" {
		return ""
	}

	sslmode := getenv("DB_SSLMODE")
	if sslmode == "" {
		sslmode = defaultSSLMode
	}

	return fmt.Sprintf("host=%s port=%s dbname=%s user=%s password=%s sslmode=%s",
		quoteDSNValue(host), quoteDSNValue(port), quoteDSNValue(dbname),
		quoteDSNValue(user), quoteDSNValue(password), quoteDSNValue(sslmode))
}

// quoteDSNValue escapes a value for the lib/pq key/value format.
func quoteDSNValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// fromStaticConfig reads config.yaml from configDir. A missing file is not
// an error.
func fromStaticConfig(configDir string) (string, error) {
	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("read config: %w", err)
	}

	return strings.TrimSpace(v.GetString(cfgKeyConnectionString)), nil
}
