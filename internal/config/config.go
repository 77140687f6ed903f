package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"coursehub/internal/mappers"
)

type Config struct {
	// App
	AppEnv   string
	HTTPAddr string

	// CMS
	CMSBaseURL           string
	CMSTimeout           time.Duration
	CMSRoleIDs           string
	CMSServiceIdentifier string
	CMSServicePassword   string

	// Session / CSRF
	SessionKey    string
	SessionName   string
	SessionSecure bool
	CSRFKey       string

	// SFTP
	SFTPHost                  string
	SFTPPort                  int
	SFTPUser                  string
	SFTPPass                  string
	SFTPDir                   string
	SFTPInsecureIgnoreHostKey bool
	SFTPKnownHosts            string
}

// Load reads the environment, after loading ENV_FILE (default ".env") when
// that file exists. Variables already set win over the file.
func Load() Config {
	loadDotEnv(getenv("ENV_FILE", ".env"))

	return Config{
		// App
		AppEnv:   strings.ToLower(getenv("APP_ENV", "development")),
		HTTPAddr: getenv("HTTP_ADDR", ":8080"),

		// CMS
		CMSBaseURL:           strings.TrimRight(getenv("CMS_BASE_URL", "http://localhost:1337"), "/"),
		CMSTimeout:           time.Duration(getenvInt("CMS_TIMEOUT_SECONDS", 30)) * time.Second,
		CMSRoleIDs:           os.Getenv("CMS_ROLE_IDS"),
		CMSServiceIdentifier: os.Getenv("CMS_SERVICE_IDENTIFIER"),
		CMSServicePassword:   os.Getenv("CMS_SERVICE_PASSWORD"),

		// Session / CSRF
		SessionKey:    os.Getenv("SESSION_KEY"),
		SessionName:   getenv("SESSION_NAME", "coursehub-session"),
		SessionSecure: getenvBool("SESSION_SECURE", false),
		CSRFKey:       os.Getenv("CSRF_KEY"),

		// SFTP
		SFTPHost:                  os.Getenv("SFTP_HOST"),
		SFTPPort:                  getenvInt("SFTP_PORT", 22),
		SFTPUser:                  os.Getenv("SFTP_USER"),
		SFTPPass:                  os.Getenv("SFTP_PASS"),
		SFTPDir:                   getenv("SFTP_DIR", "/inbound"),
		SFTPInsecureIgnoreHostKey: getenvBool("SFTP_INSECURE_IGNORE_HOSTKEY", true),
		SFTPKnownHosts:            os.Getenv("SFTP_KNOWN_HOSTS"),
	}
}

// Production reports whether APP_ENV is "production" (or "prod").
func (c Config) Production() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

// RoleIDs parses CMS_ROLE_IDS; empty means the stock ids.
func (c Config) RoleIDs() (mappers.RoleIDs, error) {
	return mappers.ParseRoleIDs(c.CMSRoleIDs)
}

func loadDotEnv(path string) {
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("config: stat %s: %v", path, err)
		}
		return
	}
	if err := godotenv.Load(path); err != nil {
		log.Printf("config: load %s: %v", path, err)
	}
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
