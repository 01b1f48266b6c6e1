package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

// Capabilities recognised in the user section. Anything else is ignored.
const (
	CapInventoryEdit   = "inventory.edit"
	CapInventoryDelete = "inventory.delete"
)

type Application struct {
	API  API  `koanf:"api"`
	User User `koanf:"user"`
	Log  Log  `koanf:"log"`
}

type API struct {
	BaseURL        string `koanf:"baseurl"`
	Token          string `koanf:"token"`
	TimeoutSeconds int    `koanf:"timeoutseconds"`
}

type User struct {
	Capabilities   []string `koanf:"capabilities"`
	DefaultProject string   `koanf:"defaultproject"`
}

type Log struct {
	File  string `koanf:"file"`
	Level string `koanf:"level"`
}

// HasCapability reports whether the configured user holds the named capability.
func (u User) HasCapability(name string) bool {
	for _, c := range u.Capabilities {
		if c == name {
			return true
		}
	}
	return false
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		API: API{
			BaseURL:        "http://localhost:8080/api/v1",
			TimeoutSeconds: 30,
		},
		User: User{
			Capabilities: []string{CapInventoryEdit, CapInventoryDelete},
		},
		Log: Log{
			Level: "info",
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "BEEJA_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "BEEJA_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
