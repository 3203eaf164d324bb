package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/pkg/errors"

	"github.com/autobrr/discordhook/pkg/logger"
	"github.com/autobrr/discordhook/pkg/stringutils"
)

const (
	Delimiter       = "."
	EnvPrefix       = "DISCORDHOOK__"
	DefaultFileName = "discordhook.json"

	defaultTimeoutSeconds = 30
)

// Settings is the effective configuration after merging defaults, the config
// file, environment variables and explicit command-line overrides.
type Settings struct {
	WebhookURL string
	Username   string
	AvatarURL  string
	Timeout    time.Duration
}

// Overrides carries explicitly supplied command-line values. A nil field means
// the flag was absent; a pointer to an empty string means the flag was supplied
// empty and still overrides lower layers.
type Overrides struct {
	WebhookURL *string
	Username   *string
	AvatarURL  *string
	Timeout    *int
}

type fileConfig struct {
	WebhookURL       string `koanf:"webhook_url"`
	DefaultUsername  string `koanf:"default_username"`
	DefaultAvatarURL string `koanf:"default_avatar_url"`
	Timeout          int    `koanf:"timeout"`
}

/* Vars */

var (
	cfgPath = ""

	// Internal
	log = logger.GetLogger("cfg")
)

// ErrNoWebhookURL is returned when no webhook URL could be resolved from the
// config file, environment or flags.
var ErrNoWebhookURL = errors.New("no webhook url found in config file, environment or flags")

/* Public */

// Resolve merges all configuration layers into a Settings value. Layer order,
// lowest to highest: defaults, config file, environment, overrides.
//
// A missing config file is not an error (the webhook URL may still come from
// the environment or a flag); a malformed one is. explicitPath marks whether
// the file path was supplied by the user rather than defaulted, so a typoed
// path is at least visible in the log.
func Resolve(configFilePath string, explicitPath bool, o Overrides) (*Settings, error) {
	cfgPath = configFilePath

	k := koanf.New(Delimiter)

	// defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"timeout": defaultTimeoutSeconds,
	}, Delimiter), nil); err != nil {
		return nil, errors.Wrap(err, "load defaults")
	}

	// config file
	if _, err := os.Stat(configFilePath); err == nil {
		if err := k.Load(file.Provider(configFilePath), json.Parser()); err != nil {
			return nil, errors.Wrapf(err, "load config file %q", configFilePath)
		}
	} else if os.IsNotExist(err) {
		if explicitPath {
			log.Warnf("Config file not found: %q", configFilePath)
		}
	} else {
		return nil, errors.Wrapf(err, "stat config file %q", configFilePath)
	}

	// environment variables, e.g. DISCORDHOOK__WEBHOOK_URL
	if err := k.Load(env.Provider(EnvPrefix, Delimiter, func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env")
	}

	fc := fileConfig{}
	if err := k.Unmarshal("", &fc); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	s := &Settings{
		WebhookURL: fc.WebhookURL,
		Username:   fc.DefaultUsername,
		AvatarURL:  fc.DefaultAvatarURL,
		Timeout:    time.Duration(fc.Timeout) * time.Second,
	}

	// command line always wins
	if o.WebhookURL != nil {
		s.WebhookURL = *o.WebhookURL
	}
	if o.Username != nil {
		s.Username = *o.Username
	}
	if o.AvatarURL != nil {
		s.AvatarURL = *o.AvatarURL
	}
	if o.Timeout != nil {
		s.Timeout = time.Duration(*o.Timeout) * time.Second
	}

	if s.Timeout <= 0 {
		s.Timeout = defaultTimeoutSeconds * time.Second
	}

	if s.WebhookURL == "" {
		return nil, ErrNoWebhookURL
	}

	return s, nil
}

func ShowUsing() {
	log.Infof("Using %s = %q", stringutils.LeftJust("CONFIG", " ", 10), cfgPath)
}
