package config

import (
	"os"

	"github.com/go-yaml/yaml"

	"github.com/uclaacm/bruinbot/internal/domain"
)

type Config struct {
	Discord Discord         `yaml:"discord"`
	SES     SES             `yaml:"ses"`
	Server  Server          `yaml:"server"`
	Policy  domain.Settings `yaml:"policy"`
}

type Discord struct {
	Token         string `yaml:"token"`
	GuildID       string `yaml:"guildID"`
	ServerName    string `yaml:"serverName"`
	CommandPrefix string `yaml:"commandPrefix"`
}

type SES struct {
	Region string `yaml:"region"`
	Sender string `yaml:"sender"`
}

type Server struct {
	PostgresDsn   string `yaml:"postgresDsn"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisDB       int    `yaml:"redisDB"`
	MemcachedAddr string `yaml:"memcachedAddr"`
	AdminAddr     string `yaml:"adminAddr"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`
}

func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	if config.Discord.CommandPrefix == "" {
		config.Discord.CommandPrefix = "!"
	}
	if config.Discord.ServerName == "" {
		config.Discord.ServerName = "ACM at UCLA"
	}
	if config.Policy.Roles.Verified == "" {
		config.Policy.Roles.Verified = "Verified"
	}

	return config, nil
}
