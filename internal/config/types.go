package config

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Station  StationConfig  `yaml:"station"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type StationConfig struct {
	// ID is the default station context used when the -station-id flag is
	// not given. May be empty: the display then shows an empty view.
	ID string `yaml:"id"`
	// Exchange is the fanout exchange carrying order change notifications.
	Exchange string `yaml:"exchange"`
}
