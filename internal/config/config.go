package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Configはアプリ全体の設定。値はすべて環境変数から入れる（ソースに秘密情報を置かない）。
type Config struct {
	Port  string `env:"PORT" envDefault:"8080"`
	GoEnv string `env:"GO_ENV" envDefault:"dev"` // dev/prod

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"` // json/text

	// DATABASE_URL があれば最優先で使う
	DatabaseURL string   `env:"DATABASE_URL"`
	Postgres    Postgres `envPrefix:"POSTGRES_"`

	JWTSecret string `env:"JWT_SECRET,required"`

	// 管理画面パスコードのbcryptハッシュ
	AdminPasscodeHash string        `env:"ADMIN_PASSCODE_HASH,required"`
	AdminTokenTTL     time.Duration `env:"ADMIN_TOKEN_TTL" envDefault:"12h"`

	FEURL string `env:"FE_URL" envDefault:"http://localhost:3000"` // CORS

	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`

	Razorpay Razorpay `envPrefix:"RAZORPAY_"`
	Mail     Mail     `envPrefix:"MAIL_"`
	Pincode  Pincode  `envPrefix:"PINCODE_"`
}

type Postgres struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"postgres"`
	Password string `env:"PASSWORD"`
	DB       string `env:"DB" envDefault:"app"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
}

type Razorpay struct {
	KeyID         string `env:"KEY_ID"`
	KeySecret     string `env:"KEY_SECRET"`
	WebhookSecret string `env:"WEBHOOK_SECRET,required"`
	Currency      string `env:"CURRENCY" envDefault:"INR"`
}

type Mail struct {
	Host     string `env:"HOST" envDefault:"smtp.gmail.com"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM"`
	// 通知の宛先（店舗オーナー）
	StoreOwner string `env:"STORE_OWNER,required"`
	StoreName  string `env:"STORE_NAME" envDefault:"Fittara Store"`
}

type Pincode struct {
	BaseURL       string        `env:"BASE_URL" envDefault:"https://api.postalpincode.in"`
	Timeout       time.Duration `env:"TIMEOUT" envDefault:"5s"`
	RatePerSecond float64       `env:"RATE_PER_SECOND" envDefault:"5"`
}

// Loadは.env（あれば）と環境変数から設定を読む
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parseは環境変数だけから読む（テスト用に分けている）
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}

	//必須チェック
	if cfg.DatabaseURL == "" && cfg.Postgres.Password == "" {
		return Config{}, fmt.Errorf("DATABASE_URL or POSTGRES_PASSWORD is required")
	}
	if len(cfg.Razorpay.WebhookSecret) < 8 {
		return Config{}, fmt.Errorf("RAZORPAY_WEBHOOK_SECRET is too short")
	}
	if cfg.Mail.From == "" {
		cfg.Mail.From = cfg.Mail.Username
	}
	switch cfg.LogFormat {
	case "json", "text":
	default:
		return Config{}, fmt.Errorf("LOG_FORMAT must be json or text")
	}

	return cfg, nil
}

// DSNはgormに渡す接続文字列
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Postgres.User, c.Postgres.Password),
		Host:   fmt.Sprintf("%s:%d", c.Postgres.Host, c.Postgres.Port),
		Path:   "/" + c.Postgres.DB,
	}
	q := u.Query()
	q.Set("sslmode", c.Postgres.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

func (c Config) IsProd() bool {
	return c.GoEnv == "prod"
}
