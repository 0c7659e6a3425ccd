package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eol-ict/onlyoo-backend/internal/logger"
	"github.com/eol-ict/onlyoo-backend/internal/utils"
)

// Config is loaded from an optional YAML file and then overridden by
// environment variables, so container deployments need only the env.
type Config struct {
	Port         string     `yaml:"port"`
	JWTSecretKey string     `yaml:"jwt_secret_key"`
	TokenTTL     int        `yaml:"token_ttl_seconds"`
	SMTP         SMTPConfig `yaml:"smtp"`
	Mail         MailConfig `yaml:"mail"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type MailConfig struct {
	From        string `yaml:"from"`
	PreviewTo   string `yaml:"preview_to"`
	AgreementTo string `yaml:"agreement_to"`
}

func (c Config) AccessTTL() time.Duration {
	return time.Duration(c.TokenTTL) * time.Second
}

// Load reads the YAML file at path (missing file is not an error) and
// applies env overrides on top.
func Load(path string, log *logger.Logger) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if uErr := yaml.Unmarshal(data, &cfg); uErr != nil {
				return Config{}, uErr
			}
		} else if !os.IsNotExist(err) {
			return Config{}, err
		}
	}

	cfg.Port = utils.GetEnv("PORT", defaultStr(cfg.Port, "8080"), log)
	cfg.JWTSecretKey = utils.GetEnv("JWT_SECRET_KEY", defaultStr(cfg.JWTSecretKey, "defaultsecret"), log)
	cfg.TokenTTL = utils.GetEnvAsInt("ACCESS_TOKEN_TTL", defaultInt(cfg.TokenTTL, 86400), log)

	cfg.SMTP.Host = utils.GetEnv("SMTP_HOST", cfg.SMTP.Host, log)
	cfg.SMTP.Port = utils.GetEnvAsInt("SMTP_PORT", defaultInt(cfg.SMTP.Port, 25), log)
	cfg.SMTP.User = utils.GetEnv("SMTP_USER", cfg.SMTP.User, log)
	cfg.SMTP.Password = utils.GetEnv("SMTP_PASS", cfg.SMTP.Password, log)

	cfg.Mail.From = utils.GetEnv("SMTP_FROM", defaultStr(cfg.Mail.From, cfg.SMTP.User), log)
	cfg.Mail.PreviewTo = utils.GetEnv("MAIL_PREVIEW_TO", defaultStr(cfg.Mail.PreviewTo, cfg.Mail.From), log)
	cfg.Mail.AgreementTo = utils.GetEnv("MAIL_AGREEMENT_TO", defaultStr(cfg.Mail.AgreementTo, cfg.Mail.PreviewTo), log)

	return cfg, nil
}

func defaultStr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func defaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
