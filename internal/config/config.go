package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	Auth        Auth     `envPrefix:"AUTH_"`
	Shipping    Shipping `envPrefix:"SHIPPING_"`

	BaseURL     string `env:"BASE_URL"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"storefront.db"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

type Auth struct {
	// HMAC secret used to sign access tokens.
	JWTSecret     string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	TokenTTLHours int    `env:"TOKEN_TTL_HOURS" envDefault:"24"`
}

type Shipping struct {
	// Carrier rate API. Lookups that fail or time out fall back to the
	// static rate table, they never fail the checkout request.
	BaseAPIURL     string `env:"BASE_API_URL"`
	TimeoutSeconds int    `env:"TIMEOUT_SECONDS" envDefault:"5"`
}
