package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type ServerConfig struct {
	Env     string // local, dev, prod
	Address string
}

type DatabaseConfig struct {
	PostgresConn string
}

type JWTConfig struct {
	Secret                  string
	AccessExpirationMinutes int
	RefreshExpirationDays   int
}

// RaffleConfig фиксирует продуктовый вариант розыгрыша.
// Исходные варианты расходятся в стартовом балансе и лимите выигрышей,
// поэтому выбор делается конфигом, а не в коде.
type RaffleConfig struct {
	StartingBalance int  // монет новому пользователю
	DrawCost        int  // плоская цена попытки; 0 отключает валюту
	SingleWin       bool // true: один приз на пользователя навсегда
	GrantMaxPerTx   int  // потолок одного гранта/ревока
	BalanceCeiling  int  // абсолютный потолок баланса, 0 без потолка
	AdminNicknames  []string
}

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Raffle   RaffleConfig
}

const envFile = ".env.local"

func MustLoad() *Config {
	_ = godotenv.Load(envFile)

	return &Config{
		Server: ServerConfig{
			Env:     getEnv("ENV", "local"),
			Address: getEnv("ADDRESS", ":8080"),
		},
		Database: DatabaseConfig{
			PostgresConn: mustGetEnv("POSTGRES_CONN"),
		},
		JWT: JWTConfig{
			Secret:                  mustGetEnv("JWT_SECRET"),
			AccessExpirationMinutes: getEnvInt("ACCESS_EXPIRATION_MINUTES", 15),
			RefreshExpirationDays:   getEnvInt("REFRESH_EXPIRATION_DAYS", 7),
		},
		Raffle: RaffleConfig{
			StartingBalance: getEnvInt("STARTING_BALANCE", 1),
			DrawCost:        getEnvInt("DRAW_COST", 1),
			SingleWin:       getEnv("WIN_POLICY", "single") != "unlimited",
			GrantMaxPerTx:   getEnvInt("GRANT_MAX_PER_TX", 100),
			BalanceCeiling:  getEnvInt("BALANCE_CEILING", 1000),
			AdminNicknames:  splitList(os.Getenv("ADMIN_NICKNAMES")),
		},
	}
}

func mustGetEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic("missing required env: " + key)
	}
	return v
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic("invalid " + key + ": " + err.Error())
	}
	return n
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
