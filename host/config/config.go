// Package config loads the imuble-host settings from flags, environment and
// a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"imuble/app"
)

const DefaultAppName = "imuble"
const DefaultConfigName = "config"
const DefaultEnvPrefix = "IMUBLE"

const (
	BusSPI = "spi"
	BusI2C = "i2c"
)

const DefaultBusMode = BusSPI
const DefaultSPIBus = 0
const DefaultSPIHz = 4000000
const DefaultCSPin = -1
const DefaultI2CBus = 1
const DefaultI2CHz = 400000
const DefaultI2CAddress = 0x6B
const DefaultLEDPin = -1
const DefaultSerialDevice = "/dev/ttyACM0"
const DefaultSerialBaud = 115200

var userHomeDir, _ = os.UserHomeDir()
var DefaultConfig = path.Join(userHomeDir, ".config", DefaultAppName, DefaultConfigName+".yaml")
var DefaultConfigSearchPath0 = path.Join(userHomeDir, ".config", DefaultAppName)

const DefaultConfigSearchPath1 = "/etc/" + DefaultAppName
const DefaultConfigSearchPath2 = "./"

type BusOpt struct {
	Mode    string `yaml:"mode" mapstructure:"mode"`
	SPIBus  uint8  `yaml:"spi_bus" mapstructure:"spi_bus"`
	SPIHz   uint32 `yaml:"spi_hz" mapstructure:"spi_hz"`
	CSPin   int    `yaml:"cs_pin" mapstructure:"cs_pin"` // -1: spidev drives CS
	I2CBus  uint8  `yaml:"i2c_bus" mapstructure:"i2c_bus"`
	I2CHz   uint32 `yaml:"i2c_hz" mapstructure:"i2c_hz"`
	Address uint16 `yaml:"address" mapstructure:"address"`
}

type IntervalOpt struct {
	LED    time.Duration `yaml:"led" mapstructure:"led"`
	Env    time.Duration `yaml:"env" mapstructure:"env"`
	Motion time.Duration `yaml:"motion" mapstructure:"motion"`
}

type SerialOpt struct {
	Device string `yaml:"device" mapstructure:"device"`
	Baud   int    `yaml:"baud" mapstructure:"baud"`
}

type HostOpt struct {
	DeviceName string      `yaml:"device_name" mapstructure:"device_name"`
	Bus        BusOpt      `yaml:"bus" mapstructure:"bus"`
	LEDPin     int         `yaml:"led_pin" mapstructure:"led_pin"` // -1: no LED
	Intervals  IntervalOpt `yaml:"intervals" mapstructure:"intervals"`
	Serial     SerialOpt   `yaml:"serial" mapstructure:"serial"`
	Debug      bool        `yaml:"debug" mapstructure:"debug"`
}

type HostDesc struct {
	Opt   HostOpt
	Viper *viper.Viper
}

func NewHostDesc() HostDesc {
	return HostDesc{
		Opt:   NewHostOpt(),
		Viper: nil,
	}
}

func NewHostOpt() HostOpt {
	defaults := app.DefaultConfig()
	return HostOpt{
		DeviceName: defaults.DeviceName,
		Bus: BusOpt{
			Mode:    DefaultBusMode,
			SPIBus:  DefaultSPIBus,
			SPIHz:   DefaultSPIHz,
			CSPin:   DefaultCSPin,
			I2CBus:  DefaultI2CBus,
			I2CHz:   DefaultI2CHz,
			Address: DefaultI2CAddress,
		},
		LEDPin: DefaultLEDPin,
		Intervals: IntervalOpt{
			LED:    msDuration(defaults.Intervals.LED),
			Env:    msDuration(defaults.Intervals.Env),
			Motion: msDuration(defaults.Intervals.Motion),
		},
		Serial: SerialOpt{
			Device: DefaultSerialDevice,
			Baud:   DefaultSerialBaud,
		},
		Debug: false,
	}
}

func msDuration(ms uint32) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func setDefaults(v *viper.Viper) {
	o := NewHostOpt()
	v.SetDefault("device_name", o.DeviceName)
	v.SetDefault("bus.mode", o.Bus.Mode)
	v.SetDefault("bus.spi_bus", o.Bus.SPIBus)
	v.SetDefault("bus.spi_hz", o.Bus.SPIHz)
	v.SetDefault("bus.cs_pin", o.Bus.CSPin)
	v.SetDefault("bus.i2c_bus", o.Bus.I2CBus)
	v.SetDefault("bus.i2c_hz", o.Bus.I2CHz)
	v.SetDefault("bus.address", o.Bus.Address)
	v.SetDefault("led_pin", o.LEDPin)
	v.SetDefault("intervals.led", o.Intervals.LED)
	v.SetDefault("intervals.env", o.Intervals.Env)
	v.SetDefault("intervals.motion", o.Intervals.Motion)
	v.SetDefault("serial.device", o.Serial.Device)
	v.SetDefault("serial.baud", o.Serial.Baud)
	v.SetDefault("debug", o.Debug)
}

// bindFlag binds key to the named flag when the command defines it
func bindFlag(v *viper.Viper, cmd *cobra.Command, key, flag string) {
	if f := cmd.Flags().Lookup(flag); f != nil {
		_ = v.BindPFlag(key, f)
	}
}

func (o *HostDesc) Parse(cmd *cobra.Command) error {
	vipCfg := viper.New()
	setDefaults(vipCfg)

	if configFileCmd, err := cmd.Flags().GetString("config"); err == nil && configFileCmd != "" {
		vipCfg.SetConfigFile(configFileCmd)
	} else {
		configFileEnv := os.Getenv(DefaultEnvPrefix + "_CONFIG")
		if configFileEnv != "" {
			vipCfg.SetConfigFile(configFileEnv)
		} else {
			vipCfg.SetConfigName(DefaultConfigName)
			vipCfg.SetConfigType("yaml")
			vipCfg.AddConfigPath(DefaultConfigSearchPath0)
			vipCfg.AddConfigPath(DefaultConfigSearchPath1)
			vipCfg.AddConfigPath(DefaultConfigSearchPath2)
		}
	}

	vipCfg.SetEnvPrefix(DefaultEnvPrefix)
	vipCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vipCfg.AutomaticEnv()

	bindFlag(vipCfg, cmd, "bus.mode", "bus")
	bindFlag(vipCfg, cmd, "device_name", "name")
	bindFlag(vipCfg, cmd, "serial.device", "device")
	bindFlag(vipCfg, cmd, "debug", "debug")

	if err := vipCfg.ReadInConfig(); err == nil {
		log.Debugln("using config file:", vipCfg.ConfigFileUsed())
	} else {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
		log.Debugln("no config file, using defaults")
	}

	if err := vipCfg.Unmarshal(&o.Opt); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	if err := o.Opt.Validate(); err != nil {
		return err
	}

	o.Viper = vipCfg
	return nil
}

func (o *HostDesc) PostParse() {
	if o.Opt.Debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// Validate checks values viper cannot type-check
func (o HostOpt) Validate() error {
	switch o.Bus.Mode {
	case BusSPI, BusI2C:
	default:
		return fmt.Errorf("bus.mode %q: want %q or %q", o.Bus.Mode, BusSPI, BusI2C)
	}
	for key, d := range map[string]time.Duration{
		"intervals.led":    o.Intervals.LED,
		"intervals.env":    o.Intervals.Env,
		"intervals.motion": o.Intervals.Motion,
	} {
		if d < time.Millisecond {
			return fmt.Errorf("%s %v: must be at least 1ms", key, d)
		}
	}
	return nil
}

// AppConfig converts to the application settings
func (o HostOpt) AppConfig() app.Config {
	return app.Config{
		DeviceName: o.DeviceName,
		Intervals: app.Intervals{
			LED:    uint32(o.Intervals.LED / time.Millisecond),
			Env:    uint32(o.Intervals.Env / time.Millisecond),
			Motion: uint32(o.Intervals.Motion / time.Millisecond),
		},
		Debug: o.Debug,
	}
}

// DumpOption writes opt as YAML to outputPath, refusing to replace an
// existing file unless overwrite is set
func DumpOption(opt interface{}, outputPath string, overwrite bool) error {
	if _, err := os.Stat(outputPath); err == nil && !overwrite {
		return fmt.Errorf("%s exists, pass --yes to overwrite", outputPath)
	}
	buf, err := yaml.Marshal(opt)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(path.Dir(outputPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(outputPath, buf, 0644)
}

// InitCfg prepares a config file for the application
func InitCfg(cmd *cobra.Command, _ []string) error {
	printFlag, _ := cmd.Flags().GetBool("print")
	outputPath, _ := cmd.Flags().GetString("output")
	overwriteFlag, _ := cmd.Flags().GetBool("yes")

	desc := NewHostDesc()
	if err := desc.Parse(cmd); err != nil {
		log.Errorln(err)
		return err
	}

	if printFlag {
		configBuffer, _ := yaml.Marshal(desc.Opt)
		fmt.Fprintln(cmd.OutOrStdout(), string(configBuffer))
		return nil
	}
	if err := DumpOption(desc.Opt, outputPath, overwriteFlag); err != nil {
		return err
	}
	log.Infoln("wrote", outputPath)
	return nil
}
