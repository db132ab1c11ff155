package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Port           string
	DBDSN          string
	LogFile        string
	PaymentDelayMs int
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "patitas.db"
	} // sqlite file in project root
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./patitas.log"
	}
	delay := 500 // simulated gateway latency
	if v := os.Getenv("PAYMENT_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			delay = n
		}
	}

	cfg := Config{Port: port, DBDSN: dsn, LogFile: logFile, PaymentDelayMs: delay}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s PAYMENT_DELAY_MS=%d", cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.PaymentDelayMs)
	return cfg
}
