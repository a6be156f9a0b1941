package config

import (
	"os"
	"strings"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string

	// SMSProvider selects the outbound gateway: "twilio" or "sns".
	SMSProvider      string
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	TwilioBaseURL    string
	SNSRegion        string

	WelcomeMessage string
	AdminJWTSecret string
	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Subscribers string
	Broadcasts  string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Subscribers: getEnv("DYNAMO_TABLE_SUBSCRIBERS", "subscribers"),
			Broadcasts:  getEnv("DYNAMO_TABLE_BROADCASTS", "broadcasts"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "launch-api-exports"),

		SMSProvider:      getEnv("SMS_PROVIDER", "twilio"),
		TwilioAccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber: getEnv("TWILIO_PHONE_NUMBER", ""),
		TwilioBaseURL:    getEnv("TWILIO_BASE_URL", "https://api.twilio.com"),
		SNSRegion:        getEnv("SNS_REGION", "us-east-1"),

		WelcomeMessage: getEnv("WELCOME_MESSAGE",
			"Thank you for subscribing! We will notify you when we launch."),
		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
