package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"estateadmin/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DefaultPaths struct {
	ConfigDir   string
	LogPathApp  string
	LogPathMail string
	DBPath      string
	ScreensFile string
	LogLevel    string
}

type Configuration struct {
	Database struct {
		Path string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"database" yaml:"database"`
	Server struct {
		Port       string        `mapstructure:"port" yaml:"port"`
		LogPath    string        `mapstructure:"log_path" yaml:"log_path"`
		SessionTTL time.Duration `mapstructure:"session_ttl" yaml:"session_ttl"`
		CookieName string        `mapstructure:"cookie_name" yaml:"cookie_name"`
	} `mapstructure:"server" yaml:"server"`
	Backend struct {
		BaseURL  string        `mapstructure:"base_url" yaml:"base_url"`
		Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
		CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
	} `mapstructure:"backend" yaml:"backend"`
	Mail struct {
		Host     string `mapstructure:"host" yaml:"host"`
		Port     int    `mapstructure:"port" yaml:"port"`
		Username string `mapstructure:"username" yaml:"username"`
		Password string `mapstructure:"password" yaml:"password"`
		From     string `mapstructure:"from" yaml:"from"`
		SiteURL  string `mapstructure:"site_url" yaml:"site_url"`
		LogoURL  string `mapstructure:"logo_url" yaml:"logo_url"`
		LogPath  string `mapstructure:"log_path" yaml:"log_path"`
	} `mapstructure:"mail" yaml:"mail"`
	Screens struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"screens" yaml:"screens"`
	Logging struct {
		Level      string `mapstructure:"level" yaml:"level"`
		MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
		MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
		MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
		Compress   bool   `mapstructure:"compress" yaml:"compress"`
	} `mapstructure:"logging" yaml:"logging"`
}

var AppConfig Configuration

func expandTilde(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// ExpandTilde replaces a leading "~" with the user's home directory.
func ExpandTilde(path string) (string, error) {
	return expandTilde(path)
}

func GetDefaultConfigPaths() DefaultPaths {
	var paths DefaultPaths
	userConfigDirBase, err := os.UserConfigDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not get user config dir: %v. Using current directory.\n", err)
		userConfigDirBase = "."
	}

	paths.ConfigDir = filepath.Join(userConfigDirBase, "estateadmin")
	logDir := filepath.Join(paths.ConfigDir, "logs")

	paths.LogPathApp = filepath.Join(logDir, "app.log")
	paths.LogPathMail = filepath.Join(logDir, "mail.log")
	paths.DBPath = filepath.Join(paths.ConfigDir, "estateadmin.db")
	paths.ScreensFile = filepath.Join(paths.ConfigDir, "screens.toml")
	paths.LogLevel = "INFO"
	return paths
}

// Default returns the configuration used when no file or environment overrides it.
// `config generate` writes this value out as YAML.
func Default() Configuration {
	d := GetDefaultConfigPaths()
	var c Configuration
	c.Database.Path = d.DBPath
	c.Server.Port = "8780"
	c.Server.LogPath = d.LogPathApp
	c.Server.SessionTTL = 12 * time.Hour
	c.Server.CookieName = "estateadmin_session"
	c.Backend.BaseURL = "http://localhost:8000/api"
	c.Backend.Timeout = 15 * time.Second
	c.Backend.CacheTTL = 30 * time.Second
	c.Mail.Host = "smtp.gmail.com"
	c.Mail.Port = 587
	c.Mail.From = "DMCI Homes <no-reply@dmcihomes.com>"
	c.Mail.SiteURL = "https://dmci-agent-website.vercel.app"
	c.Mail.LogoURL = "https://dmci-agent-website.vercel.app/logo.png"
	c.Mail.LogPath = d.LogPathMail
	c.Screens.File = d.ScreensFile
	c.Logging.Level = d.LogLevel
	c.Logging.MaxSizeMB = 10
	c.Logging.MaxBackups = 5
	c.Logging.MaxAgeDays = 30
	c.Logging.Compress = true
	return c
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("database.path", def.Database.Path)
	v.SetDefault("server.port", def.Server.Port)
	v.SetDefault("server.log_path", def.Server.LogPath)
	v.SetDefault("server.session_ttl", def.Server.SessionTTL)
	v.SetDefault("server.cookie_name", def.Server.CookieName)
	v.SetDefault("backend.base_url", def.Backend.BaseURL)
	v.SetDefault("backend.timeout", def.Backend.Timeout)
	v.SetDefault("backend.cache_ttl", def.Backend.CacheTTL)
	v.SetDefault("mail.host", def.Mail.Host)
	v.SetDefault("mail.port", def.Mail.Port)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", def.Mail.From)
	v.SetDefault("mail.site_url", def.Mail.SiteURL)
	v.SetDefault("mail.logo_url", def.Mail.LogoURL)
	v.SetDefault("mail.log_path", def.Mail.LogPath)
	v.SetDefault("screens.file", def.Screens.File)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.max_size_mb", def.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", def.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", def.Logging.MaxAgeDays)
	v.SetDefault("logging.compress", def.Logging.Compress)
}

// loadEnvFiles reads .env and .env.local from the working directory and, when a
// config file is given, from its directory. Missing files are ignored and values
// already present in the environment are never overwritten.
func loadEnvFiles(cfgFile string) {
	envFiles := []string{".env", ".env.local"}
	dirs := []string{"."}
	if cfgFile != "" {
		dirs = append(dirs, filepath.Dir(cfgFile))
	} else {
		dirs = append(dirs, GetDefaultConfigPaths().ConfigDir)
	}
	for _, dir := range dirs {
		for _, name := range envFiles {
			if err := godotenv.Load(filepath.Join(dir, name)); err != nil {
				continue
			}
		}
	}
}

func Init(cfgFile string, flagAppLogPath, flagMailLogPath, flagLogLevel string) error {
	v := viper.New()
	setDefaults(v)

	defaults := GetDefaultConfigPaths()
	if cfgFile != "" {
		expandedCfgFile, err := expandTilde(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in config file path '%s': %v. Trying original path.\n", cfgFile, err)
			expandedCfgFile = cfgFile
		}
		cfgFile = expandedCfgFile
		v.SetConfigFile(cfgFile)
		v.SetConfigType("yaml")
	} else {
		v.AddConfigPath(defaults.ConfigDir)
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	loadEnvFiles(cfgFile)

	v.AutomaticEnv()
	v.SetEnvPrefix("ESTATEADMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	configUsedMsg := "Using default/environment configuration."
	readErr := v.ReadInConfig()
	if readErr == nil {
		configUsedMsg = fmt.Sprintf("Using config file: %s", v.ConfigFileUsed())
	} else {
		if _, ok := readErr.(viper.ConfigFileNotFoundError); ok {
			if cfgFile != "" {
				fmt.Fprintf(os.Stderr, "Warning: Config file specified by flag (%s) not found: %v\n", cfgFile, readErr)
			}
		} else if os.IsNotExist(readErr) {
			fmt.Fprintf(os.Stderr, "Warning: Config file %s does not exist. Using defaults/environment variables.\n", cfgFile)
		} else {
			fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", v.ConfigFileUsed(), readErr)
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: Error unmarshalling configuration: %v\n", err)
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	AppConfig = cfg

	if flagAppLogPath != "" {
		AppConfig.Server.LogPath = flagAppLogPath
	}
	if flagMailLogPath != "" {
		AppConfig.Mail.LogPath = flagMailLogPath
	}
	if flagLogLevel != "" {
		AppConfig.Logging.Level = strings.ToUpper(flagLogLevel)
	}

	for _, p := range []*string{&AppConfig.Database.Path, &AppConfig.Server.LogPath, &AppConfig.Mail.LogPath, &AppConfig.Screens.File} {
		expanded, err := expandTilde(*p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in '%s': %v.\n", *p, err)
			continue
		}
		*p = expanded
	}
	AppConfig.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(AppConfig.Backend.BaseURL), "/")

	if err := os.MkdirAll(defaults.ConfigDir, 0750); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not create main config directory %s: %v\n", defaults.ConfigDir, err)
	}

	rot := logger.Rotation{
		MaxSizeMB:  AppConfig.Logging.MaxSizeMB,
		MaxBackups: AppConfig.Logging.MaxBackups,
		MaxAgeDays: AppConfig.Logging.MaxAgeDays,
		Compress:   AppConfig.Logging.Compress,
	}
	if err := logger.InitGlobalLoggersWithRotation(AppConfig.Server.LogPath, AppConfig.Mail.LogPath, AppConfig.Logging.Level, rot); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: Failed to initialize global loggers with final config: %v\n", err)
		return fmt.Errorf("failed to initialize global loggers with final config: %w", err)
	}

	logger.Info(configUsedMsg)
	if readErr != nil && cfgFile != "" {
		logger.Error("Error occurred reading specified config file '%s': %v", cfgFile, readErr)
	}
	if flagAppLogPath != "" || flagMailLogPath != "" || flagLogLevel != "" {
		logger.Info("Log path/level flags may have overridden config file/defaults.")
	}

	if AppConfig.Backend.BaseURL == "" {
		logger.Error("backend.base_url is not configured. Every list screen will fail to load.")
	} else {
		logger.Info("Backend API configured: %s", AppConfig.Backend.BaseURL)
	}
	if AppConfig.Mail.Username == "" {
		logger.Warn("mail.username is empty. SMTP sends will be attempted without authentication.")
	}

	logger.Debug("Final AppConfig initialized (mail password redacted): server=%+v backend=%+v", AppConfig.Server, AppConfig.Backend)
	return nil
}
