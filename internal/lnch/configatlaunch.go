//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lnch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"text/template"

	"github.com/e-gun/GinzaGoServer/internal/mm"
	"github.com/e-gun/GinzaGoServer/internal/str"
	"github.com/e-gun/GinzaGoServer/internal/vv"
	"github.com/joho/godotenv"
)

var (
	Msg = mm.NewMessageMaker(vv.MYNAME, vv.SHORTNAME, vv.VERSION)
)

// what the command line asked for besides settings
const (
	RUNSERVER = iota
	PRINTHELP
	PRINTVERSION
)

// ConfigAtLaunch - defaults, then the JSON file, then .env, then the command line; -h and -v exit here
func ConfigAtLaunch(args []string) *str.CurrentConfiguration {
	const (
		FAIL1 = "ConfigAtLaunch() could not make sense of the command line: %s"
		FAIL5 = "Refusing to set a workercount greater than NumCPU: %d > %d ---> setting workercount value to NumCPU: %d"
		LOADD = "'%s' loaded"
	)

	cfg := BuildDefaultConfig()

	if fn, ok := LookForConfigFile(args); ok {
		if err := LoadConfigFile(cfg, fn); err != nil {
			Msg.CRIT(err.Error())
		} else {
			Msg.TMI(fmt.Sprintf(LOADD, fn))
		}
	}

	if err := ApplyDotEnv(cfg, vv.DOTENVFILE); err != nil && !errors.Is(err, fs.ErrNotExist) {
		Msg.WARN(err.Error())
	}

	todo, err := ApplySwitches(cfg, args)
	if err != nil {
		Msg.MAND(fmt.Sprintf(FAIL1, err.Error()))
		Msg.ExitOrHang(1)
	}

	ConfigureMessaging(cfg)

	switch todo {
	case PRINTHELP:
		fmt.Println(Msg.Styled(Msg.Color(HelpText(cfg))))
		os.Exit(0)
	case PRINTVERSION:
		PrintVersion(*cfg)
		PrintBuildInfo(*cfg)
		os.Exit(0)
	}

	if cfg.WorkerCount > runtime.NumCPU() {
		Msg.CRIT(fmt.Sprintf(FAIL5, cfg.WorkerCount, runtime.NumCPU(), runtime.NumCPU()))
		cfg.WorkerCount = runtime.NumCPU()
	}
	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = 1
	}

	return cfg
}

// BuildDefaultConfig - return a CurrentConfiguration filled out with various default values
func BuildDefaultConfig() *str.CurrentConfiguration {
	var c str.CurrentConfiguration
	c.BlackAndWhite = vv.BLACKANDWHITE
	c.EchoLog = vv.DEFAULTECHOLOGLEVEL
	c.Gzip = vv.USEGZIP
	c.HostIP = vv.SERVEDFROMHOST
	c.HostPort = vv.SERVEDFROMPORT
	c.LogLevel = vv.DEFAULTGOLOGLEVEL
	c.ManualGC = false
	c.ProfileCPU = false
	c.ProfileMEM = false
	c.QuietStart = false
	c.Source = vv.DEFAULTSOURCE
	c.Translation = vv.DEFAULTTRANSLATION
	c.UsePostgres = false
	c.WorkerCount = runtime.NumCPU()

	c.PGLogin = str.PostgresLogin{
		Host:   vv.DEFAULTPSQLHOST,
		Port:   vv.DEFAULTPSQLPORT,
		User:   vv.DEFAULTPSQLUSER,
		Pass:   "",
		DBName: vv.DEFAULTPSQLDB,
	}

	return &c
}

// LookForConfigFile - "-c file" wins; then the working directory; then ~/.config/
func LookForConfigFile(args []string) (string, bool) {
	for i, a := range args {
		if a == "-c" && i+1 < len(args) {
			return args[i+1], true
		}
	}

	if _, err := os.Stat(vv.CONFIGBASIC); err == nil {
		return vv.CONFIGBASIC, true
	}

	h, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	alt := fmt.Sprintf(vv.CONFIGALTAPTH, h) + vv.CONFIGBASIC
	if _, err = os.Stat(alt); err == nil {
		return alt, true
	}
	return "", false
}

// LoadConfigFile - fields absent from the JSON keep whatever cfg already had
func LoadConfigFile(cfg *str.CurrentConfiguration, fn string) error {
	const (
		FAIL3 = `Could not parse the information in '%s'. Skipping and attempting to use built-in defaults instead. The minimum is: %s`
	)

	loadedcfg, err := os.Open(fn)
	if err != nil {
		return err
	}
	defer loadedcfg.Close()

	// decode into a copy so that a half-read file changes nothing
	confc := *cfg
	if err = json.NewDecoder(loadedcfg).Decode(&confc); err != nil {
		return fmt.Errorf(FAIL3+": %w", fn, vv.MINCONFIG, err)
	}
	confc.ConfigFile = fn
	*cfg = confc
	return nil
}

// ApplyDotEnv - GINZA_* values from a .env file; a variable already set in the environment beats the file
func ApplyDotEnv(cfg *str.CurrentConfiguration, fn string) error {
	vals, err := godotenv.Read(fn)
	if err != nil {
		return err
	}

	pick := func(k string) (string, bool) {
		if v, ok := os.LookupEnv(k); ok {
			return v, true
		}
		v, ok := vals[k]
		return v, ok
	}

	if v, ok := pick(vv.ENVPGPASS); ok {
		cfg.PGLogin.Pass = v
	}
	if v, ok := pick(vv.ENVSOURCE); ok && v != "" {
		cfg.Source = v
	}
	if v, ok := pick(vv.ENVTRANSLATION); ok {
		cfg.Translation = v
	}
	return nil
}

// ApplySwitches - the command line; returns what to do besides configure
func ApplySwitches(cfg *str.CurrentConfiguration, args []string) (int, error) {
	const (
		FAIL1 = "Could not parse your information as a valid collection of credentials. Use the following template:"
		FAIL2 = `"{\"Pass\": \"YOURPASSWORDHERE\" ,\"Host\": \"127.0.0.1\", \"Port\": 5432, \"DBName\": \"ginzaDB\" ,\"User\": \"ginza_rd\"}"`
		NOVAL = "%s needs a value"
		NONUM = "%s needs a number, not '%s'"
	)

	todo := RUNSERVER

	next := func(i int) (string, error) {
		if i+1 >= len(args) {
			return "", fmt.Errorf(NOVAL, args[i])
		}
		return args[i+1], nil
	}

	num := func(i int) (int, error) {
		v, err := next(i)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf(NONUM, args[i], v)
		}
		return n, nil
	}

	var err error
	for i, a := range args {
		switch a {
		case "-bw":
			cfg.BlackAndWhite = true
		case "-c":
			// already consumed by LookForConfigFile()
			_, err = next(i)
		case "-el":
			cfg.EchoLog, err = num(i)
		case "-gc":
			cfg.ManualGC = true
		case "-gl":
			cfg.LogLevel, err = num(i)
		case "-gz":
			cfg.Gzip = true
		case "-h":
			todo = PRINTHELP
		case "-ix":
			cfg.IndexSnapshot, err = next(i)
		case "-pc":
			cfg.ProfileCPU = true
		case "-pg":
			var js string
			js, err = next(i)
			if err != nil {
				break
			}
			pl := cfg.PGLogin
			if err = json.Unmarshal([]byte(js), &pl); err != nil {
				Msg.MAND(FAIL1)
				Msg.CRIT(FAIL2)
				break
			}
			cfg.PGLogin = pl
			cfg.UsePostgres = true
		case "-pm":
			cfg.ProfileMEM = true
		case "-q":
			cfg.QuietStart = true
		case "-ri":
			cfg.IndexRestore, err = next(i)
		case "-sa":
			cfg.HostIP, err = next(i)
		case "-sp":
			cfg.HostPort, err = num(i)
		case "-src":
			cfg.Source, err = next(i)
		case "-tr":
			cfg.Translation, err = next(i)
		case "-v":
			if todo == RUNSERVER {
				todo = PRINTVERSION
			}
		case "-wc":
			cfg.WorkerCount, err = num(i)
		default:
			// values and anything unknown
		}
		if err != nil {
			return todo, err
		}
	}
	return todo, nil
}

// HelpText - HELPTEXTTEMPLATE filled in from cfg
func HelpText(cfg *str.CurrentConfiguration) string {
	const (
		FAIL7 = "HelpText() failed to execute help text template"
		FAIL8 = "Cannot find current working directory"
	)

	cwd, err := os.Getwd()
	if err != nil {
		Msg.CRIT(FAIL8)
		cwd = "(unknown)"
	}

	cf := cfg.ConfigFile
	if cf == "" {
		cf = vv.CONFIGBASIC
	}

	m := map[string]interface{}{
		"conffile": cf,
		"cpus":     runtime.NumCPU(),
		"cwd":      cwd,
		"echoll":   cfg.EchoLog,
		"env":      vv.DOTENVFILE,
		"ggsll":    cfg.LogLevel,
		"host":     cfg.HostIP,
		"port":     cfg.HostPort,
		"projurl":  vv.PROJURL,
		"src":      cfg.Source,
		"tr":       cfg.Translation,
		"workers":  cfg.WorkerCount,
	}

	t := template.Must(template.New("").Parse(vv.HELPTEXTTEMPLATE))

	var b bytes.Buffer
	if ee := t.Execute(&b, m); ee != nil {
		Msg.CRIT(FAIL7)
	}
	return b.String()
}
