package xnearconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Format 定义配置文件格式。
type Format string

const (
	// FormatYAML YAML 格式（推荐用于 K8s ConfigMap）。
	FormatYAML Format = "yaml"

	// FormatJSON JSON 格式。
	FormatJSON Format = "json"
)

const delim = "."

// Loader 持有已加载的配置，支持并发读取与重载。
type Loader struct {
	path    string
	format  Format
	isBytes bool

	mu       sync.RWMutex
	settings Settings
}

// Load 从文件加载配置。
// 根据文件扩展名自动检测格式（.yaml/.yml 或 .json）。
// 文件中未出现的字段保持 DefaultSettings 的默认值。
func Load(path string) (*Loader, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}

	l := &Loader{path: path, format: format}
	if err := l.Reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// LoadBytes 从字节数据加载配置，需要显式指定格式。
// 适用于 K8s ConfigMap 场景。返回的 Loader 不支持重载与监视。
func LoadBytes(data []byte, format Format) (*Loader, error) {
	if !isValidFormat(format) {
		return nil, ErrUnsupportedFormat
	}

	settings, err := parse(data, format)
	if err != nil {
		return nil, err
	}

	return &Loader{format: format, isBytes: true, settings: settings}, nil
}

// Settings 返回当前配置的快照。
func (l *Loader) Settings() Settings {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.settings
}

// Path 返回配置文件路径，从字节数据创建时为空字符串。
func (l *Loader) Path() string {
	return l.path
}

// Format 返回配置格式。
func (l *Loader) Format() Format {
	return l.format
}

// Reload 重新读取并解析配置文件。
// 解析或校验失败时保留旧配置。
func (l *Loader) Reload() error {
	if l.isBytes {
		return ErrNotReloadable
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	settings, err := parse(data, l.format)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.settings = settings
	l.mu.Unlock()
	return nil
}

// =============================================================================
// 内部辅助函数
// =============================================================================

// parse 解析配置数据：默认值打底，文件内容逐字段覆盖。
func parse(data []byte, format Format) (Settings, error) {
	settings := DefaultSettings()
	if len(data) == 0 {
		return settings, nil
	}

	var parser koanf.Parser
	switch format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return Settings{}, ErrUnsupportedFormat
	}

	k := koanf.New(delim)
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return Settings{}, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}

	// 时长字段支持 "10m"、"1h" 等字符串格式
	if err := k.UnmarshalWithConf("", &settings, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           &settings,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return Settings{}, fmt.Errorf("%w: %w", ErrUnmarshalFailed, err)
	}

	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// detectFormat 根据文件扩展名检测配置格式。
func detectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %s", ErrUnsupportedFormat, ext)
	}
}

// isValidFormat 检查格式是否有效。
func isValidFormat(format Format) bool {
	switch format {
	case FormatYAML, FormatJSON:
		return true
	default:
		return false
	}
}
