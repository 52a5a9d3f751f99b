package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"

	"github.com/kabadi/intake-service/internal/utils"
)

type Config struct {
	OrganizationName string
	AppName          string
	BrandName        string
	Env              string
	AppPort          string
	AppUrl           string
	DBUrl            string

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string

	SendgridAPIKey string
	NotifyFrom     string
	NotifyTo       []string
	NotifyTimeout  time.Duration

	S3Endpoint        string
	S3Region          string
	S3Bucket          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3PublicBaseURL   string

	APIRateLimit    int
	APIRateWindow   time.Duration
	ShutdownTimeout time.Duration

	// Feature-flag snapshots
	LDFlag_SendgridSandboxMode          bool
	LDFlag_CORSHighSecurity             bool
	LDFlag_NewsletterRateLimitPerMinute int
}

const (
	OrganizationName    = utils.OrganizationName
	LDConnectionTimeout = 5 * time.Second

	defaultAppName             = "intake-service"
	defaultPort                = "5000"
	defaultNotifyTimeout       = 15 * time.Second
	defaultNewsletterPerMinute = 10
	defaultAPIRateLimit        = 300
	defaultAPIRateWindow       = 15 * time.Minute
)

// build-time overrides, set with -ldflags
var (
	AppName             string
	LDServerContextKey  string
	LDServerContextKind string
)

// LoadConfig reads an optional .env file, then the environment, then
// snapshots feature flags when LD_SDK_KEY is set.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		utils.Logger.WithError(err).Warn("Failed to load .env file")
	}

	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Invalid configuration")
	}
	utils.Logger.Info("Loading config for app: ", cfg.AppName)

	if sdkKey := os.Getenv("LD_SDK_KEY"); sdkKey != "" {
		loadFlags(cfg, sdkKey)
	} else {
		utils.Logger.Debug("LD_SDK_KEY not set; using default feature flags")
	}

	utils.Logger.Infof("Loaded config for %s (%s)", cfg.AppName, cfg.Env)
	return cfg
}

// FromEnv builds a Config from getenv with flag defaults applied.
func FromEnv(getenv func(string) string) (*Config, error) {
	appName := AppName
	if appName == "" {
		appName = defaultAppName
	}

	env := getenv("ENV")
	if env == "" {
		env = utils.EnvDevelopment
	}

	appURL := getenv("APP_URL_FROM_ANYWHERE")
	if env == utils.EnvProduction && appURL == "" {
		return nil, fmt.Errorf("APP_URL_FROM_ANYWHERE must be set when ENV=%s", env)
	}

	port := firstNonEmpty(getenv("APP_PORT"), getenv("PORT"), defaultPort)
	if _, err := strconv.Atoi(port); err != nil {
		return nil, fmt.Errorf("APP_PORT must be numeric, got %q", port)
	}

	notifyTimeout := defaultNotifyTimeout
	if raw := getenv("NOTIFY_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("NOTIFY_TIMEOUT must be a positive duration, got %q", raw)
		}
		notifyTimeout = d
	}

	smtpUser := getenv("SMTP_USER")

	return &Config{
		OrganizationName: OrganizationName,
		AppName:          appName,
		BrandName:        firstNonEmpty(getenv("APP_NAME"), OrganizationName),
		Env:              env,
		AppPort:          port,
		AppUrl:           appURL,
		DBUrl:            getenv("DATABASE_URL"),

		SMTPHost:     getenv("SMTP_HOST"),
		SMTPPort:     getenv("SMTP_PORT"),
		SMTPUser:     smtpUser,
		SMTPPassword: getenv("SMTP_PASS"),

		SendgridAPIKey: getenv("SENDGRID_API_KEY"),
		NotifyFrom:     firstNonEmpty(getenv("NOTIFY_FROM"), smtpUser),
		NotifyTo:       utils.SplitCSV(getenv("NOTIFY_TO")),
		NotifyTimeout:  notifyTimeout,

		S3Endpoint:        getenv("S3_ENDPOINT"),
		S3Region:          getenv("S3_REGION"),
		S3Bucket:          getenv("S3_BUCKET"),
		S3AccessKeyID:     getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: getenv("S3_SECRET_ACCESS_KEY"),
		S3PublicBaseURL:   getenv("S3_PUBLIC_BASE_URL"),

		APIRateLimit:    defaultAPIRateLimit,
		APIRateWindow:   defaultAPIRateWindow,
		ShutdownTimeout: 20 * time.Second,

		LDFlag_NewsletterRateLimitPerMinute: defaultNewsletterPerMinute,
	}, nil
}

// IsProduction gates the development-only endpoints.
func (c *Config) IsProduction() bool { return c.Env == utils.EnvProduction }

func loadFlags(cfg *Config, sdkKey string) {
	ldClient, err := ld.MakeClient(sdkKey, LDConnectionTimeout)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to create LaunchDarkly client")
	}
	defer ldClient.Close()
	if !ldClient.Initialized() {
		utils.Logger.Warn("LaunchDarkly client failed to initialize; using flag defaults")
		return
	}

	kind := firstNonEmpty(LDServerContextKind, "service")
	key := firstNonEmpty(LDServerContextKey, cfg.AppName)
	ctx := ldcontext.NewWithKind(ldcontext.Kind(kind), key)

	sandbox, err := ldClient.BoolVariation("sendgrid_sandbox_mode", ctx, false)
	if err != nil {
		utils.Logger.WithError(err).Warn("Error retrieving sendgrid_sandbox_mode flag")
	}
	utils.Logger.Debugf("sendgrid_sandbox_mode flag: %t", sandbox)

	corsHigh, err := ldClient.BoolVariation("cors_high_security", ctx, false)
	if err != nil {
		utils.Logger.WithError(err).Warn("Error retrieving cors_high_security flag")
	}
	utils.Logger.Debugf("cors_high_security flag: %t", corsHigh)

	perMinute, err := ldClient.IntVariation("newsletter_rate_limit_per_minute", ctx, defaultNewsletterPerMinute)
	if err != nil || perMinute <= 0 {
		utils.Logger.WithError(err).Warn("Invalid newsletter_rate_limit_per_minute flag; using default")
		perMinute = defaultNewsletterPerMinute
	}
	utils.Logger.Debugf("newsletter_rate_limit_per_minute flag: %d", perMinute)

	cfg.LDFlag_SendgridSandboxMode = sandbox
	cfg.LDFlag_CORSHighSecurity = corsHigh
	cfg.LDFlag_NewsletterRateLimitPerMinute = perMinute
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (c *Config) Close() {}
