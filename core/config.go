package core

import (
	"fmt"
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Conf is the app-wide configuration, set by NewConfig.
var Conf *Config

type (
	Config struct {
		AppName    string
		SchoolName string
		Env        string // DEV (default) | TEST | QA | PROD
		Debug      bool
		TestMode   bool
		Build      string
		SecretKey  string

		DefaultFromEmail mail.Address
		AdminEmail       mail.Address
		SendgridApiKey   string
		RollbarToken     string

		Server     ServerConfig
		Database   DatabaseConfig
		Attendance AttendanceConfig
	}

	ServerConfig struct {
		Host                      string
		DebugHost                 string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          string
		DisableTLS    bool
	}

	// AttendanceConfig holds the daily marking windows as "HH:MM" wall-clock
	// bounds. Parsing happens once at startup; a malformed value is fatal.
	AttendanceConfig struct {
		TeacherSignIn  WindowTimes
		StudentHalfDay WindowTimes
		StudentFullDay WindowTimes
	}

	WindowTimes struct {
		Start string
		End   string
	}
)

func (c DatabaseConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("appName", "Shule")
	v.SetDefault("schoolName", "Mlina Education Center")
	v.SetDefault("debug", true)
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "w3k!y5#ngumu$ane-kabisa(usijaribu)hata=kidogo&bro")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("adminEmail", "admin@localhost")

	v.SetDefault("serverHost", "0.0.0.0:8000")
	v.SetDefault("serverDebugHost", "0.0.0.0:4000")
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("jwtExpirationDelta", 12*time.Hour)
	v.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)

	v.SetDefault("databaseEngine", "postgres")
	v.SetDefault("databaseName", "shule")
	v.SetDefault("databaseUser", "shule")
	v.SetDefault("databasePassword", "")
	v.SetDefault("databaseAdminUser", "")
	v.SetDefault("databaseAdminPassword", "")
	v.SetDefault("databaseHost", "localhost")
	v.SetDefault("databasePort", "5432")
	v.SetDefault("databaseDisableTLS", true)

	// marking windows; closed intervals on both ends
	v.SetDefault("teacherSignInStart", "07:00")
	v.SetDefault("teacherSignInEnd", "08:10")
	v.SetDefault("studentHalfDayStart", "12:00")
	v.SetDefault("studentHalfDayEnd", "14:00")
	v.SetDefault("studentFullDayStart", "16:00")
	v.SetDefault("studentFullDayEnd", "16:30")

	env := os.Getenv("ENV")
	var testMode bool
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		testMode = true
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	Conf = &Config{
		AppName:          v.GetString("appName"),
		SchoolName:       v.GetString("schoolName"),
		Env:              env,
		Debug:            v.GetBool("debug"),
		TestMode:         testMode,
		Build:            v.GetString("build"),
		SecretKey:        v.GetString("secretKey"),
		DefaultFromEmail: mail.Address{Name: v.GetString("appName"), Address: v.GetString("defaultFromEmail")},
		AdminEmail:       mail.Address{Address: v.GetString("adminEmail")},
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:                      v.GetString("serverHost"),
			DebugHost:                 v.GetString("serverDebugHost"),
			ShutdownTimeout:           v.GetDuration("serverShutdownTimeout"),
			JWTExpirationDelta:        v.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("jwtRefreshExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("databaseEngine"),
			Name:          v.GetString("databaseName"),
			User:          v.GetString("databaseUser"),
			Password:      v.GetString("databasePassword"),
			AdminUser:     v.GetString("databaseAdminUser"),
			AdminPassword: v.GetString("databaseAdminPassword"),
			Host:          v.GetString("databaseHost"),
			Port:          v.GetString("databasePort"),
			DisableTLS:    v.GetBool("databaseDisableTLS"),
		},
		Attendance: AttendanceConfig{
			TeacherSignIn:  WindowTimes{Start: v.GetString("teacherSignInStart"), End: v.GetString("teacherSignInEnd")},
			StudentHalfDay: WindowTimes{Start: v.GetString("studentHalfDayStart"), End: v.GetString("studentHalfDayEnd")},
			StudentFullDay: WindowTimes{Start: v.GetString("studentFullDayStart"), End: v.GetString("studentFullDayEnd")},
		},
	}
	return Conf
}
