package app

import (
	"flag"
	"strconv"
	"strings"
)

// Config represents the command-line parameters shared by the binaries.
type Config struct {
	Run       string
	Namespace string
	Seed      int64
	Describe  bool

	Scale int
	TPS   int

	Sets KVList
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Run: "life", Namespace: "ros2_js_examples", Scale: 6, TPS: 60}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Run, "run", c.Run, "comma-separated programs to launch")
	fs.StringVar(&c.Namespace, "ns", c.Namespace, "namespace for nodes and relative topics")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed passed to every program (0 keeps each program's own)")
	fs.BoolVar(&c.Describe, "describe", c.Describe, "print program parameters and exit")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier (viewer)")
	fs.IntVar(&c.TPS, "tps", c.TPS, "frames per second (viewer)")
	fs.Var(&c.Sets, "set", "program parameter as key=value or program.key=value (repeatable)")
}

// Programs returns the requested program names, trimmed and de-duplicated.
func (c *Config) Programs() []string {
	var out []string
	seen := map[string]bool{}
	for _, name := range strings.Split(c.Run, ",") {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// ProgramConfig builds the key/value map for one program. Unqualified -set
// entries apply to every program; "program.key" entries only to the named
// one and win over unqualified ones.
func (c *Config) ProgramConfig(program string) map[string]string {
	cfg := map[string]string{}
	if c.Seed != 0 {
		cfg["seed"] = strconv.FormatInt(c.Seed, 10)
	}
	var scoped [][2]string
	for _, kv := range c.Sets {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if prefix, rest, qualified := strings.Cut(key, "."); qualified {
			if prefix == program {
				scoped = append(scoped, [2]string{rest, value})
			}
			continue
		}
		cfg[key] = value
	}
	for _, kv := range scoped {
		cfg[kv[0]] = kv[1]
	}
	return cfg
}

// KVList collects repeated key=value flags.
type KVList []string

func (l *KVList) String() string {
	return strings.Join(*l, ",")
}

// Set implements flag.Value.
func (l *KVList) Set(value string) error {
	*l = append(*l, value)
	return nil
}
