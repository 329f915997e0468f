package config

import (
	"bytes"
	"encoding/base64"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides: "database.url" can be set
// with SMARTOTP_DATABASE_URL.
const EnvPrefix = "SMARTOTP"

// Viper implements Config with github.com/spf13/viper.
type Viper struct {
	v *viper.Viper
}

// NewViper reads pathFile (type inferred from its extension), enables
// environment overrides and reloads the file when it changes on disk.
func NewViper(pathFile string) (*Viper, error) {
	v := newViper()

	ext := filepath.Ext(pathFile)
	v.AddConfigPath(filepath.Dir(pathFile))
	v.SetConfigName(strings.TrimSuffix(filepath.Base(pathFile), ext))
	v.SetConfigType(strings.TrimPrefix(ext, "."))

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		slog.Info("config file changed", "path", e.Name, "op", e.Op.String())
	})
	v.WatchConfig()

	return &Viper{v: v}, nil
}

// NewViperFromBytes reads configuration of configType ("yaml", "json", ...)
// from memory.
func NewViperFromBytes(configType string, data []byte) (*Viper, error) {
	if strings.TrimSpace(configType) == "" {
		return nil, errors.New("config: type is required")
	}

	v := newViper()
	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return &Viper{v: v}, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

func (vc *Viper) GetBool(key string) bool              { return vc.v.GetBool(key) }
func (vc *Viper) GetString(key string) string          { return vc.v.GetString(key) }
func (vc *Viper) GetInt(key string) int                { return vc.v.GetInt(key) }
func (vc *Viper) GetInt64(key string) int64            { return vc.v.GetInt64(key) }
func (vc *Viper) GetUint(key string) uint              { return vc.v.GetUint(key) }
func (vc *Viper) GetFloat64(key string) float64        { return vc.v.GetFloat64(key) }
func (vc *Viper) GetDuration(key string) time.Duration { return vc.v.GetDuration(key) }

func (vc *Viper) GetSecond(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * time.Second
}

func (vc *Viper) GetBinary(key string) []byte {
	data, err := base64.StdEncoding.DecodeString(vc.v.GetString(key))
	if err != nil {
		return nil
	}

	return data
}

func (vc *Viper) GetArray(key string) []string {
	parts := strings.Split(vc.v.GetString(key), ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}

// Close satisfies io.Closer; viper holds nothing that needs releasing.
func (vc *Viper) Close() error {
	return nil
}
