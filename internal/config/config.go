package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types

	"github.com/joho/godotenv" // godotenv loads a local .env file when present
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Mail settings are optional so that the server can
// run without outbound email in development; the mailer degrades to a logged
// no-op when the Mailjet credentials are empty.
type Config struct {
	Env              string // application environment (e.g. "dev", "prod")
	Port             string // HTTP port to listen on
	DBUser           string // database username
	DBPass           string // database password (optional)
	DBHost           string // database host address
	DBPort           string // database port number
	DBName           string // database name
	JWTSecret        string // secret used to sign JWTs
	AccessTTLMin     int    // access token time-to-live in minutes (1440 = 1 day)
	ResetTokenTTLMin int    // password-reset token time-to-live in minutes
	BcryptCost       int    // bcrypt cost for password hashing
	AppBaseURL       string // base URL used when building password-reset links
	MailjetAPIKey    string // Mailjet public API key (optional)
	MailjetSecretKey string // Mailjet private API key (optional)
	MailFromEmail    string // sender address for transactional mail
	MailFromName     string // sender display name for transactional mail
}

// Load reads configuration values from environment variables and returns a
// Config.  A .env file is loaded first when one exists so that local
// development does not require exporting every variable.  Required variables
// are enforced by must() and missing values cause the program to exit.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}
	return Config{
		Env:              must("APP_ENV"),
		Port:             must("APP_PORT"),
		DBUser:           must("DB_USER"),
		DBPass:           os.Getenv("DB_PASS"), // empty password allowed
		DBHost:           must("DB_HOST"),
		DBPort:           must("DB_PORT"),
		DBName:           must("DB_NAME"),
		JWTSecret:        must("JWT_SECRET"),
		AccessTTLMin:     intOr("ACCESS_TOKEN_TTL_MIN", 1440),
		ResetTokenTTLMin: intOr("RESET_TOKEN_TTL_MIN", 30),
		BcryptCost:       intOr("BCRYPT_COST", 10),
		AppBaseURL:       getenv("APP_BASE_URL", "http://localhost:5173"),
		MailjetAPIKey:    os.Getenv("MAILJET_API_KEY"),
		MailjetSecretKey: os.Getenv("MAILJET_SECRET_KEY"),
		MailFromEmail:    getenv("MAIL_FROM_EMAIL", "no-reply@propertyvision.local"),
		MailFromName:     getenv("MAIL_FROM_NAME", "Property Vision"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// intOr retrieves an integer environment variable, falling back to def when
// the variable is unset.  A value that cannot be parsed is fatal: a typo in
// a TTL or bcrypt cost should never silently become zero.
func intOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
