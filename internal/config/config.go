package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	MCP      MCPConfig      `mapstructure:"mcp"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	Mode         string `mapstructure:"mode"` // debug, release, test
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

// DatabaseConfig SQLite 数据库配置
type DatabaseConfig struct {
	Path            string `mapstructure:"path"`              // 数据库文件路径，:memory: 表示内存库
	MaxOpenConns    int    `mapstructure:"max_open_conns"`    // 最大连接数
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 秒
	AutoMigrate     bool   `mapstructure:"auto_migrate"`      // 是否自动迁移表结构
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, /path/to/log
}

// MCPConfig 工具调用配置
type MCPConfig struct {
	// 执行模式: real(仅真实工具), placeholder(仅占位符), hybrid(真实优先降级占位符)
	Mode string `mapstructure:"mode"`

	// 真实工具单次调用超时（秒），0 表示不限制
	RealCallTimeout int `mapstructure:"real_call_timeout"`

	// 占位符工具超时（秒）
	PlaceholderTimeout int `mapstructure:"placeholder_timeout"`

	// 文件系统工具的根目录，所有读写被限制在该目录下
	FilesystemRoot string `mapstructure:"filesystem_root"`

	Search SearchConfig `mapstructure:"search"`
}

// SearchConfig 搜索工具配置
type SearchConfig struct {
	Endpoint string `mapstructure:"endpoint"` // 搜索 API 端点
	APIKey   string `mapstructure:"api_key"`  // API 密钥，为空时搜索工具不可用
	Timeout  int    `mapstructure:"timeout"`  // 秒
}

// RealCallTimeoutDuration 真实工具调用超时
func (c *MCPConfig) RealCallTimeoutDuration() time.Duration {
	if c.RealCallTimeout <= 0 {
		return 0
	}
	return time.Duration(c.RealCallTimeout) * time.Second
}

// PlaceholderTimeoutDuration 占位符工具超时，默认 10 秒
func (c *MCPConfig) PlaceholderTimeoutDuration() time.Duration {
	if c.PlaceholderTimeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.PlaceholderTimeout) * time.Second
}

var globalConfig *Config

// Load 加载配置
// env: 环境名称（dev, prod, test）
// configPath: 配置文件路径（可选）
func Load(env string, configPath string) (*Config, error) {
	v := viper.New()

	if configPath == "" {
		v.SetConfigName(env) // dev.yaml, prod.yaml
		v.AddConfigPath("./config")
		v.AddConfigPath("../config")
		v.AddConfigPath("../../config")
	} else {
		v.SetConfigFile(configPath)
	}

	v.SetConfigType("yaml")

	// 环境变量优先于配置文件，嵌套键用下划线：APP_MCP_MODE
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// 未显式指定路径时允许缺省配置文件，仅靠默认值和环境变量启动
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	globalConfig = &cfg
	return &cfg, nil
}

// setDefaults 设置缺省值，保证最小配置文件也可启动
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)

	v.SetDefault("database.path", "./aurawell.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 3600)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output_path", "stdout")

	v.SetDefault("mcp.mode", "hybrid")
	v.SetDefault("mcp.real_call_timeout", 30)
	v.SetDefault("mcp.placeholder_timeout", 10)
	v.SetDefault("mcp.filesystem_root", "./workspace")
	v.SetDefault("mcp.search.endpoint", "https://api.search.brave.com/res/v1/web/search")
	v.SetDefault("mcp.search.timeout", 15)
}

// Get 获取全局配置
func Get() *Config {
	if globalConfig == nil {
		panic("配置未初始化，请先调用 Load()")
	}
	return globalConfig
}
