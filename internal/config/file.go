package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var e164 = regexp.MustCompile(`^\+[1-9][0-9]{1,14}$`)

// Subscription lists the phone numbers following one team.
type Subscription struct {
	Team    int      `koanf:"team"`
	Numbers []string `koanf:"numbers"`
}

// fileConfig mirrors the YAML document.
type fileConfig struct {
	EarliestNotificationTime string         `koanf:"earliest_notification_time"`
	Timezone                 string         `koanf:"timezone"`
	Subscriptions            []Subscription `koanf:"subscriptions"`
}

// loadFile layers the YAML file and NOTIFIER_ env overrides.
func loadFile(path string) (fileConfig, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fileConfig{}, fmt.Errorf("load %s: %w", path, err)
	}

	envProvider := env.Provider(envFilePrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envFilePrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return fileConfig{}, fmt.Errorf("load env overrides: %w", err)
	}

	var fc fileConfig
	if err := k.UnmarshalWithConf("", &fc, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fileConfig{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return fc, nil
}

// normalizeSubscriptions validates entries and merges repeated teams in
// order, dropping duplicate numbers and entries without numbers.
func normalizeSubscriptions(subs []Subscription) ([]Subscription, error) {
	var out []Subscription
	index := make(map[int]int)
	for i, sub := range subs {
		if sub.Team <= 0 {
			return nil, fmt.Errorf("%w: entry %d: team id %d must be positive", ErrInvalidSubscription, i, sub.Team)
		}
		for _, number := range sub.Numbers {
			number = strings.TrimSpace(number)
			if !e164.MatchString(number) {
				return nil, fmt.Errorf("%w: team %d: %q is not an E.164 phone number", ErrInvalidSubscription, sub.Team, number)
			}
			pos, ok := index[sub.Team]
			if !ok {
				out = append(out, Subscription{Team: sub.Team})
				pos = len(out) - 1
				index[sub.Team] = pos
			}
			if !contains(out[pos].Numbers, number) {
				out[pos].Numbers = append(out[pos].Numbers, number)
			}
		}
	}
	return out, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
