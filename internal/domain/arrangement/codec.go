package arrangement

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// Codec encodes arrangements for one file format
type Codec interface {
	Name() string
	Marshal(a Arrangement) ([]byte, error)
	Unmarshal(data []byte, a *Arrangement) error
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(a Arrangement) ([]byte, error) {
	return sonic.ConfigStd.MarshalIndent(a, "", "  ")
}

func (jsonCodec) Unmarshal(data []byte, a *Arrangement) error {
	return sonic.ConfigStd.Unmarshal(data, a)
}

type yamlCodec struct{}

func (yamlCodec) Name() string { return "yaml" }

func (yamlCodec) Marshal(a Arrangement) ([]byte, error) {
	return yaml.Marshal(a)
}

func (yamlCodec) Unmarshal(data []byte, a *Arrangement) error {
	return yaml.Unmarshal(data, a)
}

type tomlCodec struct{}

func (tomlCodec) Name() string { return "toml" }

func (tomlCodec) Marshal(a Arrangement) ([]byte, error) {
	return toml.Marshal(a)
}

func (tomlCodec) Unmarshal(data []byte, a *Arrangement) error {
	return toml.Unmarshal(data, a)
}

// CodecFor picks a codec from the file extension
func CodecFor(path string) (Codec, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return jsonCodec{}, nil
	case ".yaml", ".yml":
		return yamlCodec{}, nil
	case ".toml":
		return tomlCodec{}, nil
	default:
		return nil, fmt.Errorf("arrangement: unsupported file extension %q", ext)
	}
}
