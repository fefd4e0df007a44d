package main

import "time"

type Config struct {
	Host                 string        `env:"HOST"`
	Port                 int           `env:"PORT,default=3000"`
	DebugPort            *int          `env:"DEBUG_PORT"`
	StaticDir            string        `env:"STATIC_DIR,default=./public"`
	LogLevel             string        `env:"LOG_LEVEL,default=info"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=64"`
	ReportInterval       time.Duration `env:"REPORT_INTERVAL,default=30s"`
}
