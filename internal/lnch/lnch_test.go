//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lnch

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/e-gun/GinzaGoServer/internal/str"
	"github.com/e-gun/GinzaGoServer/internal/vv"
	"github.com/e-gun/GinzaGoServer/internal/wit"
)

func TestApplySwitches(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		todo  int
		check func(c *str.CurrentConfiguration) bool
		fails bool
	}{
		{"port and workers", []string{"-sp", "8200", "-wc", "3"}, RUNSERVER,
			func(c *str.CurrentConfiguration) bool { return c.HostPort == 8200 && c.WorkerCount == 3 }, false},
		{"sources", []string{"-src", "a.xml", "-tr", "b.xml", "-ix", "snap.db"}, RUNSERVER,
			func(c *str.CurrentConfiguration) bool {
				return c.Source == "a.xml" && c.Translation == "b.xml" && c.IndexSnapshot == "snap.db"
			}, false},
		{"postgres", []string{"-pg", `{"Pass": "pw", "DBName": "other"}`}, RUNSERVER,
			func(c *str.CurrentConfiguration) bool {
				return c.UsePostgres && c.PGLogin.Pass == "pw" && c.PGLogin.DBName == "other" && c.PGLogin.User == vv.DEFAULTPSQLUSER
			}, false},
		{"flags", []string{"-bw", "-gz", "-q", "-gl", "4"}, RUNSERVER,
			func(c *str.CurrentConfiguration) bool { return c.BlackAndWhite && c.Gzip && c.QuietStart && c.LogLevel == 4 }, false},
		{"help beats version", []string{"-v", "-h"}, PRINTHELP, nil, false},
		{"version", []string{"-v"}, PRINTVERSION, nil, false},
		{"missing value", []string{"-sp"}, RUNSERVER, nil, true},
		{"not a number", []string{"-wc", "many"}, RUNSERVER, nil, true},
		{"bad credentials", []string{"-pg", "{"}, RUNSERVER, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := BuildDefaultConfig()
			todo, err := ApplySwitches(cfg, tt.args)
			if (err != nil) != tt.fails {
				t.Fatalf("err = %v", err)
			}
			if tt.fails {
				return
			}
			if todo != tt.todo {
				t.Errorf("todo = %d, want %d", todo, tt.todo)
			}
			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("config = %+v", cfg)
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, vv.CONFIGBASIC)
	if err := os.WriteFile(fn, []byte(`{"Source": "other.xml", "HostPort": 9000}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := BuildDefaultConfig()
	if err := LoadConfigFile(cfg, fn); err != nil {
		t.Fatal(err)
	}
	if cfg.Source != "other.xml" || cfg.HostPort != 9000 || cfg.Translation != vv.DEFAULTTRANSLATION || cfg.ConfigFile != fn {
		t.Errorf("config = %+v", cfg)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"Source": `), 0644); err != nil {
		t.Fatal(err)
	}
	before := *cfg
	if err := LoadConfigFile(cfg, bad); err == nil {
		t.Error("half a file accepted")
	}
	if !reflect.DeepEqual(before, *cfg) {
		t.Error("a failed load changed the config")
	}

	if got, ok := LookForConfigFile([]string{"-gl", "1", "-c", fn}); !ok || got != fn {
		t.Errorf("LookForConfigFile() = %q %v", got, ok)
	}
}

func TestApplyDotEnv(t *testing.T) {
	fn := filepath.Join(t.TempDir(), vv.DOTENVFILE)
	body := vv.ENVPGPASS + "=secret\n" + vv.ENVSOURCE + "=fromfile.xml\n"
	if err := os.WriteFile(fn, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(vv.ENVSOURCE, "fromenv.xml")

	cfg := BuildDefaultConfig()
	if err := ApplyDotEnv(cfg, fn); err != nil {
		t.Fatal(err)
	}
	if cfg.PGLogin.Pass != "secret" {
		t.Errorf("pass = %q", cfg.PGLogin.Pass)
	}
	if cfg.Source != "fromenv.xml" {
		t.Errorf("the environment should beat the file: %q", cfg.Source)
	}

	if err := ApplyDotEnv(cfg, filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("missing .env not reported")
	}
}

func TestHelpText(t *testing.T) {
	cfg := BuildDefaultConfig()
	cfg.HostPort = 8765
	h := HelpText(cfg)
	if !strings.Contains(h, "8765") || !strings.Contains(h, vv.DEFAULTSOURCE) || strings.Contains(h, "{{") {
		t.Errorf("help text not filled in:\n%s", h)
	}
}

func TestDefaultColumns(t *testing.T) {
	reg := wit.New([]str.Witness{{ID: "B"}, {ID: "A"}})
	if got := DefaultColumns(reg); !reflect.DeepEqual(got, []string{"B", "A"}) {
		t.Errorf("DefaultColumns() = %v", got)
	}
	if DefaultColumns(nil) != nil {
		t.Error("nil registry")
	}
}
