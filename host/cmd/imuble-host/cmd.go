package main

import (
	"github.com/spf13/cobra"

	"imuble/host/config"
)

var RootCmd = &cobra.Command{
	Use:   "imuble-host",
	Short: "LSM6DS3 BLE motion sensor peripheral",
	Long:  "LSM6DS3 BLE motion sensor peripheral for Linux boards, and a telemetry monitor for the firmware",
}

func commonFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "default configuration path")
	cmd.Flags().Bool("debug", false, "toggle debug logging")
}

func ServeCmdFlags(cmd *cobra.Command) {
	commonFlags(cmd)
	cmd.Flags().String("bus", config.DefaultBusMode, "sensor bus, spi or i2c")
	cmd.Flags().StringP("name", "n", "", "advertised device name")
}

var ServeCmd = &cobra.Command{
	Use: "serve",
	SuggestFor: []string{
		"ru", "ser",
	},
	Short: "serve advertises the sensor service and publishes IMU readings",
	Long: `serve opens the LSM6DS3, advertises the BlueST sensor service and
publishes temperature and motion while a central is connected.
The configuration is read in the following order:
1. path specified in --config flag
2. path defined in IMUBLE_CONFIG environment variable
3. default location $HOME/.config/imuble/config.yaml, /etc/imuble/config.yaml, current directory
The parameters in the configuration file will be overwritten by the following order:
1. command line arguments
2. environment variables, e.g. IMUBLE_BUS_MODE=i2c
`,
	Example: `  imuble-host serve --config=/path/to/config.yaml
  imuble-host serve --bus i2c --debug`,
	RunE: ServeCmdRunE,
}

func MonitorCmdFlags(cmd *cobra.Command) {
	commonFlags(cmd)
	cmd.Flags().StringP("device", "d", "", "serial device of the firmware console")
}

var MonitorCmd = &cobra.Command{
	Use: "monitor",
	SuggestFor: []string{
		"mon", "watch",
	},
	Short: "monitor decodes telemetry from a firmware build",
	Long: `monitor opens the firmware's USB console and logs every mirrored
characteristic update, status report and log line.
Motion updates are logged at debug level.
`,
	Example: `  imuble-host monitor -d /dev/ttyACM0 --debug`,
	RunE:    MonitorCmdRunE,
}

func ProbeCmdFlags(cmd *cobra.Command) {
	commonFlags(cmd)
	cmd.Flags().String("bus", config.DefaultBusMode, "sensor bus, spi or i2c")
}

var ProbeCmd = &cobra.Command{
	Use: "probe",
	SuggestFor: []string{
		"pro", "pr", "prob",
	},
	Short: "probe checks that an LSM6DS3 answers on the configured bus",
	Long: `probe opens the configured bus, reads WHO_AM_I and prints one reading
of every channel.
`,
	Example: `  imuble-host probe --bus i2c`,
	RunE:    ProbeCmdRunE,
}

func InitCmdFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "configuration to start from")
	cmd.Flags().Bool("print", false, "print config to stdout")
	cmd.Flags().BoolP("yes", "y", false, "overwrite")
	cmd.Flags().StringP("output", "o", config.DefaultConfig, "specify output path")
}

var InitCmd = &cobra.Command{
	Use: "init",
	SuggestFor: []string{
		"ini", "in",
	},
	Short: "init create a configuration template",
	Long: `init create a configuration template.
If --print flag is present, the configuration will be printed to stdout.
If --output / -o flag is present, the configuration will be saved to the path specified
Otherwise init will output configuration file to $HOME/.config/imuble/config.yaml
If --yes / -y flag is present, an existing file will be overwritten
`,
	Example: `  imuble-host init --print
  imuble-host init -o /path/to/config.yaml -y`,
	RunE: config.InitCfg,
}

func getRootCmd() *cobra.Command {
	ServeCmdFlags(ServeCmd)
	RootCmd.AddCommand(ServeCmd)

	MonitorCmdFlags(MonitorCmd)
	RootCmd.AddCommand(MonitorCmd)

	ProbeCmdFlags(ProbeCmd)
	RootCmd.AddCommand(ProbeCmd)

	InitCmdFlags(InitCmd)
	RootCmd.AddCommand(InitCmd)

	return RootCmd
}
