package config

type Config struct {
	App      AppConfig      `env-prefix:"APP_"`
	HTTP     HTTPConfig     `env-prefix:"HTTP_"`
	Database DatabaseConfig `env-prefix:"DB_"`
}

type AppConfig struct {
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
	Pretty   bool   `env:"PRETTY" env-default:"false"`
}

type HTTPConfig struct {
	Addr string `env:"ADDR" env-default:":8081"`
}

type DatabaseConfig struct {
	Port     string `env:"PORT" env-default:"5432"`
	Host     string `env:"HOST" env-default:"localhost"`
	Name     string `env:"NAME" env-default:"notesync"`
	User     string `env:"USER" env-default:"user"`
	Password string `env:"PASSWORD"`
}
