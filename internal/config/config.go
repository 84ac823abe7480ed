package config

import (
	"flag"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// SettingsEnv Переменная окружения с путем к базовому файлу сайтов.
const SettingsEnv = "IMAGEPROXY_SETTINGS"

type Config struct {
	RunAddress     string
	ConfigFile     string
	LogLevel       string
	LogOutput      string
	RateLimit      float64
	RateBurst      int64
	AllowedOrigins []string
	ResizeWorkers  int
	TrustForwarded bool
}

// ResizeQueueSize Длина очереди ресайза: по 20 задач на воркера.
func (c *Config) ResizeQueueSize() int {
	return c.ResizeWorkers * 20
}

// InitConfig Инициализация структуры, содержащей конфигурацию сервера, полученную из флагов или
// переменных окружения.
func InitConfig() *Config {
	return ParseConfig(flag.CommandLine, os.Args[1:], os.LookupEnv)
}

// ParseConfig Разбирает флаги из args, затем переопределяет значения переменными окружения.
func ParseConfig(fs *flag.FlagSet, args []string, lookupEnv func(string) (string, bool)) *Config {
	config := &Config{}

	var origins string

	fs.StringVar(&config.RunAddress, "a", "127.0.0.1:8080", "HTTP server address and port")
	fs.StringVar(&config.ConfigFile, "c", "", "Sites config file (.toml, .yaml or .yml)")
	fs.StringVar(&config.LogLevel, "ll", "Debug", "Log level for logging (example: Debug, Info, Warn, Error)")
	fs.StringVar(&config.LogOutput, "lo", "stdout", "Log output: stdout, stderr or path to file")
	fs.Float64Var(&config.RateLimit, "rl", 0, "Requests per second per client, 0 disables rate limiting")
	fs.Int64Var(&config.RateBurst, "rb", 20, "Burst size for rate limiting")
	fs.StringVar(&origins, "ao", "", "Comma separated list of allowed CORS origins")
	fs.IntVar(&config.ResizeWorkers, "rw", runtime.NumCPU(), "Number of concurrent resize workers")
	fs.BoolVar(&config.TrustForwarded, "tf", false, "Trust X-Forwarded-For for rate limiting (only behind own reverse proxy)")
	_ = fs.Parse(args)

	if value, ok := lookupEnv("RUN_ADDRESS"); ok {
		config.RunAddress = value
	}

	if value, ok := lookupEnv("IMAGEPROXY_CONFIG"); ok {
		config.ConfigFile = value
	}

	if value, ok := lookupEnv("LOG_LEVEL"); ok {
		config.LogLevel = value
	}

	if value, ok := lookupEnv("LOG_OUTPUT"); ok {
		config.LogOutput = value
	}

	if value, ok := lookupEnv("RATE_LIMIT"); ok {
		if rate, err := strconv.ParseFloat(value, 64); err == nil {
			config.RateLimit = rate
		}
	}

	if value, ok := lookupEnv("RATE_BURST"); ok {
		if burst, err := strconv.ParseInt(value, 10, 64); err == nil {
			config.RateBurst = burst
		}
	}

	if value, ok := lookupEnv("RESIZE_WORKERS"); ok {
		if workers, err := strconv.Atoi(value); err == nil {
			config.ResizeWorkers = workers
		}
	}

	if config.ResizeWorkers < 1 {
		config.ResizeWorkers = 1
	}

	if value, ok := lookupEnv("TRUST_FORWARDED"); ok {
		if trust, err := strconv.ParseBool(value); err == nil {
			config.TrustForwarded = trust
		}
	}

	if value, ok := lookupEnv("ALLOWED_ORIGINS"); ok {
		origins = value
	}

	config.AllowedOrigins = splitList(origins)

	return config
}

// SettingsFiles Файлы сайтов в порядке чтения: сначала из IMAGEPROXY_SETTINGS, затем явно указанный.
func (c *Config) SettingsFiles(lookupEnv func(string) (string, bool)) []string {
	var files []string

	if value, ok := lookupEnv(SettingsEnv); ok && value != "" {
		files = append(files, value)
	}

	if c.ConfigFile != "" {
		files = append(files, c.ConfigFile)
	}

	return files
}

func splitList(s string) []string {
	var res []string

	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			res = append(res, part)
		}
	}

	return res
}
