package config

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/pem"
	"os"

	"github.com/golang-jwt/jwt/v5"

	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
)

type Config struct {
	OrganizationName string
	AppName          string
	AppPort          string
	AppUrl           string

	// Database
	DBUrl string

	// Twilio / SendGrid for outbound notifications. Empty values disable the
	// channel instead of failing startup.
	TwilioAccountSID    string
	TwilioAuthToken     string
	TwilioFromPhone     string
	SendGridAPIKey      string
	SendgridFromEmail   string
	SendgridSandboxMode bool

	// Auth
	RSAPrivateKey *rsa.PrivateKey
	RSAPublicKey  *rsa.PublicKey
}

const OrganizationName = "Plumbtix"

func LoadConfig() *Config {
	appName := os.Getenv("APP_NAME")
	if appName == "" {
		appName = "plumbtix-api"
	}

	utils.Logger.Info("Loading config for app: ", appName)

	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		utils.Logger.Fatal("APP_PORT env var is missing")
	}
	appUrl := os.Getenv("APP_URL")
	if appUrl == "" {
		utils.Logger.Fatal("APP_URL env var is missing")
	}
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		utils.Logger.Fatal("DB_URL env var is missing")
	}

	privB64 := os.Getenv("RSA_PRIVATE_KEY_BASE64")
	if privB64 == "" {
		utils.Logger.Fatal("RSA_PRIVATE_KEY_BASE64 env var is missing")
	}
	privPEM, err := base64.StdEncoding.DecodeString(privB64)
	if err != nil {
		utils.Logger.WithError(err).Fatal("RSA_PRIVATE_KEY_BASE64 is not valid base64")
	}
	if block, _ := pem.Decode(privPEM); block == nil {
		utils.Logger.Fatal("Failed to decode PEM block for private key")
	}
	privKey, err := jwt.ParseRSAPrivateKeyFromPEM(privPEM)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA private key")
	}

	pubB64 := os.Getenv("RSA_PUBLIC_KEY_BASE64")
	if pubB64 == "" {
		utils.Logger.Fatal("RSA_PUBLIC_KEY_BASE64 env var is missing")
	}
	pubPEM, err := base64.StdEncoding.DecodeString(pubB64)
	if err != nil {
		utils.Logger.WithError(err).Fatal("RSA_PUBLIC_KEY_BASE64 is not valid base64")
	}
	if block, _ := pem.Decode(pubPEM); block == nil {
		utils.Logger.Fatal("Failed to decode PEM block for public key")
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA public key")
	}

	cfg := &Config{
		OrganizationName:    OrganizationName,
		AppName:             appName,
		AppPort:             appPort,
		AppUrl:              appUrl,
		DBUrl:               dbURL,
		TwilioAccountSID:    os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:     os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromPhone:     os.Getenv("TWILIO_FROM_PHONE"),
		SendGridAPIKey:      os.Getenv("SENDGRID_API_KEY"),
		SendgridFromEmail:   os.Getenv("SENDGRID_FROM_EMAIL"),
		SendgridSandboxMode: os.Getenv("SENDGRID_SANDBOX_MODE") == "true",
		RSAPrivateKey:       privKey,
		RSAPublicKey:        pubKey,
	}

	if cfg.SendGridAPIKey == "" {
		utils.Logger.Warn("SENDGRID_API_KEY not set; email delivery disabled")
	}
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" {
		utils.Logger.Warn("Twilio credentials not set; SMS delivery disabled")
	}

	return cfg
}
