package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/skillrate/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

// clearEnv removes a variable for the test's duration. t.Setenv registers the
// restore; the unset keeps scenarios independent.
func clearEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t, "SKILLRATE_CONFIG")
	clearEnv(t, "SKILLRATE_ADDR")

	Convey("Given nothing configured in the environment", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then the defaults come back validated", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.Generators, ShouldResemble, []string{config.GeneratorOpponentAdjusted})
		})
	})
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t, "SKILLRATE_CONFIG")
	t.Setenv("SKILLRATE_ADDR", ":7777")
	t.Setenv("SKILLRATE_LOG_LEVEL", "debug")

	Convey("Given environment overrides", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then the overrides win over defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7777")
			So(cfg.LogLevel, ShouldEqual, "debug")
			So(cfg.MaxRatingsLimit, ShouldEqual, 100)
		})
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "addr: \":8088\"\nprior: 0.6\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	clearEnv(t, "SKILLRATE_ADDR")
	t.Setenv("SKILLRATE_CONFIG", path)

	Convey("Given a YAML file referenced by SKILLRATE_CONFIG", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then file values override defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":8088")
			So(cfg.Prior, ShouldEqual, 0.6)
		})
	})
}

func TestLoadEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("addr: \":8088\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SKILLRATE_CONFIG", path)
	t.Setenv("SKILLRATE_ADDR", ":9999")

	Convey("Given both a file and an environment override", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then the environment wins", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9999")
		})
	})
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t, "SKILLRATE_ADDR")
	t.Setenv("SKILLRATE_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	Convey("Given a dangling SKILLRATE_CONFIG path", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then loading fails with the load sentinel", func() {
			So(err, ShouldWrap, config.ErrLoadConfig)
		})
	})
}

func TestLoadInvalidOverride(t *testing.T) {
	clearEnv(t, "SKILLRATE_CONFIG")
	t.Setenv("SKILLRATE_GENERATORS", "psychic")

	Convey("Given an override naming an unknown generator", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then validation rejects the loaded config", func() {
			So(err, ShouldWrap, config.ErrInvalidConfig)
		})
	})
}
