package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix 环境变量前缀, 例如 SHEETCLEAN_INPUT
const EnvPrefix = "SHEETCLEAN"

// Config 结构体定义了一次运行的配置
type Config struct {
	Input  string `json:"input" envconfig:"INPUT"`   // 输入文件, .csv 或 .xlsx
	Output string `json:"output" envconfig:"OUTPUT"` // 输出文件
	Format string `json:"format" envconfig:"FORMAT"` // 输出格式, csv 或 xlsx

	LogName    string `json:"log_name" envconfig:"LOG_NAME"`         // 日志文件, 为空时只输出到控制台
	LogLevel   string `json:"log_level" envconfig:"LOG_LEVEL"`       // debug, info, warning, error
	LogMaxSize int64  `json:"log_max_size" envconfig:"LOG_MAX_SIZE"` // 日志文件轮转大小(字节), 0 表示不轮转

	Watch         bool     `json:"watch" envconfig:"WATCH"`                   // 输入文件变化时重新处理
	CheckInterval Duration `json:"check_interval" envconfig:"CHECK_INTERVAL"` // 定时重新处理的间隔, 0 表示不定时
}

// Default 返回未提供任何配置时使用的默认值
func Default() *Config {
	return &Config{
		Input:    "data.csv",
		Output:   "data_clean.csv",
		Format:   "csv",
		LogLevel: "info",
	}
}

// LoadConfig 读取配置: 默认值 <- JSON 配置文件(可选) <- 环境变量
func LoadConfig(jsonFile string) (*Config, error) {
	cfg := Default()

	if jsonFile != "" {
		data, err := readFile(jsonFile)
		if err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		if err := parseConfig(data, cfg); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("解析环境变量失败: %w", err)
	}
	return cfg, nil
}

func readFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("无法读取文件 %s: %w", filePath, err)
	}
	return data, nil
}

func parseConfig(data []byte, cfg *Config) error {
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("解析Config失败: %w", err)
	}
	return nil
}

// Validate 在运行前检查输入、输出和格式
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("input path is empty")
	}
	if c.Output == "" {
		return fmt.Errorf("output path is empty")
	}
	switch strings.ToLower(c.Format) {
	case "csv", "xlsx":
	default:
		return fmt.Errorf("output format %q is not supported, use csv or xlsx", c.Format)
	}
	if c.CheckInterval < 0 {
		return fmt.Errorf("check interval %s is negative", time.Duration(c.CheckInterval))
	}
	return nil
}

// Duration 是time.Duration的自定义包装类型
// 用于支持JSON序列化和反序列化
type Duration time.Duration

// UnmarshalJSON 实现json.Unmarshaler接口
// 用于从JSON字符串解析Duration
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return d.Decode(s)
}

// MarshalJSON 实现json.Marshaler接口
// 用于将Duration序列化为JSON字符串
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Decode 实现envconfig.Decoder接口
func (d *Duration) Decode(value string) error {
	dur, err := time.ParseDuration(value)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// String 实现fmt.Stringer接口
func (d Duration) String() string {
	return time.Duration(d).String()
}
