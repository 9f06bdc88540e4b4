package configuration

type Configuration struct {
	HttpAddr          string `usage:"HTTP address"`
	LogLevel          string `usage:"log level [debug|info|warn|error]"`
	ApiKey            string `usage:"API key, empty disables authentication"`
	ApiSecret         string `usage:"API secret"`
	EnableCompression bool   `usage:"gzip responses when the client accepts it"`
	RateLimit         int    `usage:"requests per second allowed per client, 0 disables the limit"`
	RateBurst         int    `usage:"requests a client can send at once above the rate"`
	Manifest          string `usage:"yaml file with the tables to create at boot"`
	Version           bool   `usage:"show version and exit"`
	ShowBanner        bool   `usage:"show big banner"`
	ShowConfig        bool   `usage:"print config"`
}

func Default() Configuration {
	return Configuration{
		HttpAddr:          "127.0.0.1:8080",
		LogLevel:          "info",
		EnableCompression: true,
		RateLimit:         0,
		RateBurst:         50,
		ShowBanner:        true,
		ShowConfig:        false,
	}
}
