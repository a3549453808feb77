package config

import "time"

type Config struct {
	Service *ServiceConfig
	Mongo   *MongoConfig
	Auth    *AuthConfig
	Logger  *LoggerConfig
}

type ServiceConfig struct {
	Name string
	Env  string
	Addr string
}

type MongoConfig struct {
	URI              string
	Database         string
	MinPoolSize      uint64
	MaxPoolSize      uint64
	ConnectTimeout   time.Duration
	OperationTimeout time.Duration
}

type AuthConfig struct {
	Secret   string
	TokenTTL time.Duration
}

type LoggerConfig struct {
	Level  string
	Format string
}
