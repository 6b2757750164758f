package registry

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v2"

	"secdebug/internal/layout"
)

// SchemaMajor is the registry file major version this build understands.
const SchemaMajor = "v1"

type fileClass struct {
	Stride uint32   `yaml:"stride"`
	Keys   []string `yaml:"keys"`
}

type fileView struct {
	Name string   `yaml:"name"`
	Proc string   `yaml:"proc"`
	Size int      `yaml:"size"`
	Keys []string `yaml:"keys"`
}

type fileAppend struct {
	Mode  string `yaml:"mode"`
	Sep   string `yaml:"sep"`
	Width int    `yaml:"width"`
}

type file struct {
	Version        string                `yaml:"version"`
	Classes        []fileClass           `yaml:"classes"`
	Views          []fileView            `yaml:"views"`
	Append         map[string]fileAppend `yaml:"append"`
	OrderExclude   []string              `yaml:"order_exclude"`
	OrderOnce      []string              `yaml:"order_once"`
	AllowDuplicate []string              `yaml:"allow_duplicate"`
}

// LoadFile reads a registry from a YAML file.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open registry")
	}
	defer f.Close()
	r, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "registry %s", path)
	}
	return r, nil
}

// Load decodes a registry from YAML. The result still needs SelfCheck.
func Load(rd io.Reader) (*Registry, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, errors.Wrap(err, "read registry")
	}
	var f file
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, errors.Wrap(err, "unable to parse registry")
	}

	if !semver.IsValid(f.Version) {
		return nil, errors.Errorf("invalid registry version %q", f.Version)
	}
	if semver.Major(f.Version) != SchemaMajor {
		return nil, errors.Errorf("registry version %s not compatible with %s", f.Version, SchemaMajor)
	}

	r := &Registry{
		Version:        f.Version,
		Append:         make(map[string]AppendRule, len(f.Append)),
		OrderExclude:   setOf(f.OrderExclude...),
		OrderOnce:      setOf(f.OrderOnce...),
		AllowDuplicate: setOf(f.AllowDuplicate...),
	}
	for _, fc := range f.Classes {
		c, ok := layout.ClassForStride(fc.Stride)
		if !ok {
			return nil, errors.Errorf("no slot class with stride %d", fc.Stride)
		}
		r.Classes[c] = append(r.Classes[c], fc.Keys...)
	}
	for _, fv := range f.Views {
		if fv.Name == "" {
			return nil, errors.New("view without a name")
		}
		v := View{Name: fv.Name, Proc: fv.Proc, Size: fv.Size, Keys: fv.Keys}
		if v.Size <= 0 {
			v.Size = DefaultViewSize
		}
		r.Views = append(r.Views, v)
	}
	for k, fa := range f.Append {
		rule, err := parseAppend(fa)
		if err != nil {
			return nil, errors.Wrapf(err, "append rule for %s", k)
		}
		r.Append[k] = rule
	}
	return r, nil
}

func parseAppend(fa fileAppend) (AppendRule, error) {
	switch fa.Mode {
	case "tail":
		return AppendRule{Mode: AppendTail}, nil
	case "prepend":
		sep := fa.Sep
		if sep == "" {
			sep = ","
		}
		return AppendRule{Mode: AppendPrepend, Sep: sep}, nil
	case "hexor":
		w := fa.Width
		if w <= 0 {
			w = 8
		}
		if w > 16 {
			return AppendRule{}, errors.Errorf("hexor width %d exceeds 16 digits", w)
		}
		return AppendRule{Mode: AppendHexOr, Width: w}, nil
	default:
		return AppendRule{}, errors.Errorf("unknown append mode %q", fa.Mode)
	}
}
