package config

// Version information, set at build time

var Version = "development"
var CommitHash = "development"
var BuildTimestamp = "0000-00-00T00:00:00Z"

// Names

var DefaultNamePrefix = "FAYDAPASS_"
var FlowCookieName = "faydapass-flow"
var ServiceName = "FaydaPass KYC API"

// Provider defaults, these match the production Fayda eSignet deployment

var DefaultAuthorizationEndpoint = "https://esignet.ida.fayda.et/authorize"
var DefaultTokenEndpoint = "https://esignet.ida.fayda.et/v1/esignet/oauth/v2/token"
var DefaultUserinfoEndpoint = "https://esignet.ida.fayda.et/v1/esignet/oidc/userinfo"
var DefaultScopes = []string{"openid", "profile", "email", "phone", "address"}
var DefaultACRValues = []string{"mosip:idp:acr:generated-code", "mosip:idp:acr:biometrics", "mosip:idp:acr:static-code"}

const ClientAssertionType = "urn:ietf:params:oauth:client-assertion-type:jwt-bearer"
const APIProviderFayda = "fayda"

// Main app config

type Config struct {
	AppURL       string             `description:"The base URL of the front end, used for callback redirects." yaml:"appUrl" validate:"required,url"`
	DatabasePath string             `description:"The path to the verification database." yaml:"databasePath" validate:"required"`
	Server       ServerConfig       `description:"Server configuration." yaml:"server"`
	Fayda        FaydaConfig        `description:"Fayda eSignet client configuration." yaml:"fayda"`
	Flow         FlowConfig         `description:"Authorization flow storage configuration." yaml:"flow"`
	Redis        RedisConfig        `description:"Redis configuration for the redis flow store." yaml:"redis"`
	Log          LogConfig          `description:"Logging configuration." yaml:"log"`
	Experimental ExperimentalConfig `description:"Experimental features, use with caution." yaml:"experimental"`
}

type ServerConfig struct {
	Port           int      `description:"The port on which the server listens." yaml:"port" validate:"required"`
	Address        string   `description:"The address on which the server listens." yaml:"address" validate:"required"`
	TrustedProxies []string `description:"Comma-separated list of trusted proxy addresses." yaml:"trustedProxies"`
}

type FaydaConfig struct {
	ClientID              string   `description:"OAuth client ID registered with Fayda eSignet." yaml:"clientId" validate:"required"`
	RedirectURI           string   `description:"Redirect URI registered with Fayda eSignet." yaml:"redirectUri" validate:"required,url"`
	AuthorizationEndpoint string   `description:"Authorization endpoint URL." yaml:"authorizationEndpoint" validate:"required,url"`
	TokenEndpoint         string   `description:"Token endpoint URL." yaml:"tokenEndpoint" validate:"required,url"`
	UserinfoEndpoint      string   `description:"Userinfo endpoint URL." yaml:"userinfoEndpoint" validate:"required,url"`
	PrivateKey            string   `description:"Base64 encoded private JWK used to sign client assertions." yaml:"privateKey"`
	PrivateKeyFile        string   `description:"Path to a file containing the base64 encoded private JWK." yaml:"privateKeyFile"`
	KeyID                 string   `description:"Key ID registered with the provider, defaults to the kid of the JWK." yaml:"keyId"`
	Scopes                []string `description:"Comma-separated list of scopes to request." yaml:"scopes" validate:"required,min=1"`
	UILocales             string   `description:"Value of the ui_locales authorization parameter." yaml:"uiLocales"`
	ACRValues             []string `description:"Comma-separated list of acr_values understood by the provider." yaml:"acrValues"`
	EnforceNonce          bool     `description:"Reject ID tokens whose nonce does not match the authorization request." yaml:"enforceNonce"`
	Timeout               int      `description:"Timeout in seconds for calls to the provider." yaml:"timeout" validate:"min=1"`
}

type FlowConfig struct {
	Store        string `description:"Flow store backend (memory or redis)." yaml:"store" validate:"oneof=memory redis"`
	TTL          int    `description:"Lifetime in seconds of an authorization flow." yaml:"ttl" validate:"min=60"`
	SecureCookie bool   `description:"Send the flow cookie only over HTTPS." yaml:"secureCookie"`
}

type RedisConfig struct {
	Address   string `description:"Redis server address." yaml:"address"`
	Password  string `description:"Redis password." yaml:"password"`
	DB        int    `description:"Redis database number." yaml:"db"`
	KeyPrefix string `description:"Prefix for all flow keys." yaml:"keyPrefix"`
}

type LogConfig struct {
	Level   string     `description:"Log level (trace, debug, info, warn, error)." yaml:"level"`
	Json    bool       `description:"Enable JSON formatted logs." yaml:"json"`
	Streams LogStreams `description:"Configuration for specific log streams." yaml:"streams"`
}

type LogStreams struct {
	HTTP  LogStreamConfig `description:"HTTP request logging." yaml:"http"`
	App   LogStreamConfig `description:"Application logging." yaml:"app"`
	Audit LogStreamConfig `description:"Audit logging of verification events." yaml:"audit"`
}

type LogStreamConfig struct {
	Enabled bool   `description:"Enable this log stream." yaml:"enabled"`
	Level   string `description:"Log level for this stream, uses the global level if empty." yaml:"level"`
}

type ExperimentalConfig struct {
	ConfigFile string `description:"Path to a YAML or TOML config file." yaml:"configFile"`
}

func NewDefaultConfiguration() *Config {
	return &Config{
		DatabasePath: "./faydapass.db",
		Server: ServerConfig{
			Port:    3000,
			Address: "0.0.0.0",
		},
		Fayda: FaydaConfig{
			AuthorizationEndpoint: DefaultAuthorizationEndpoint,
			TokenEndpoint:         DefaultTokenEndpoint,
			UserinfoEndpoint:      DefaultUserinfoEndpoint,
			Scopes:                DefaultScopes,
			UILocales:             "en",
			ACRValues:             DefaultACRValues,
			EnforceNonce:          true,
			Timeout:               30,
		},
		Flow: FlowConfig{
			Store: "memory",
			TTL:   600,
		},
		Redis: RedisConfig{
			Address:   "localhost:6379",
			KeyPrefix: "faydapass:flow:",
		},
		Log: LogConfig{
			Level: "info",
			Json:  false,
			Streams: LogStreams{
				HTTP:  LogStreamConfig{Enabled: true},
				App:   LogStreamConfig{Enabled: true},
				Audit: LogStreamConfig{Enabled: true},
			},
		},
	}
}

// API responses and queries

type ErrorQuery struct {
	Message string `url:"message"`
	Restart string `url:"restart"`
}
