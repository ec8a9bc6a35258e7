package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"tinygo.org/x/bluetooth"

	"imuble/app"
	"imuble/ble"
	"imuble/core"
	"imuble/host/config"
	"imuble/host/linuxbus"
	"imuble/host/monitor"
	"imuble/host/serial"
	"imuble/lsm6ds3"
)

func loadConfig(cmd *cobra.Command) (config.HostOpt, error) {
	desc := config.NewHostDesc()
	if err := desc.Parse(cmd); err != nil {
		return desc.Opt, err
	}
	desc.PostParse()
	return desc.Opt, nil
}

// coreLogger routes core.Logger lines, e.g. "[APP] WARN text", into logrus
func coreLogger(line string) {
	entry := log.WithField("src", "core")
	switch {
	case strings.Contains(line, "] ERROR "):
		entry.Errorln(line)
	case strings.Contains(line, "] WARN "):
		entry.Warnln(line)
	case strings.Contains(line, "] DEBUG "):
		entry.Debugln(line)
	default:
		entry.Infoln(line)
	}
}

func openSensor(opt config.HostOpt) (*lsm6ds3.Device, error) {
	if err := linuxbus.Register(linuxbus.DefaultNames()); err != nil {
		return nil, err
	}

	var tr lsm6ds3.Transport
	switch opt.Bus.Mode {
	case config.BusI2C:
		bus, err := core.OpenI2C(core.I2CBusID(opt.Bus.I2CBus), opt.Bus.I2CHz)
		if err != nil {
			return nil, err
		}
		tr = lsm6ds3.NewI2C(bus, opt.Bus.Address)
	default:
		bus, err := core.OpenSPI(core.SPIConfig{BusID: core.SPIBusID(opt.Bus.SPIBus), Mode: core.SPIMode3, Rate: opt.Bus.SPIHz})
		if err != nil {
			return nil, err
		}
		cs := lsm6ds3.NoChipSelect
		var csArg uint16
		if opt.Bus.CSPin >= 0 {
			pin, err := core.NewDigitalOut(core.GPIOPin(opt.Bus.CSPin), true, true)
			if err != nil {
				return nil, fmt.Errorf("chip select: %w", err)
			}
			cs, csArg = pin, uint16(opt.Bus.CSPin)
		}
		tr = lsm6ds3.NewSPI(bus, cs, csArg)
	}

	imu := lsm6ds3.New(tr)
	if err := imu.Begin(); err != nil {
		return nil, fmt.Errorf("imu begin on %s: %w", opt.Bus.Mode, err)
	}
	return imu, nil
}

func ServeCmdRunE(cmd *cobra.Command, _ []string) error {
	opt, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	core.SetDebugWriter(coreLogger)
	core.SetDebugEnabled(opt.Debug)

	imu, err := openSensor(opt)
	if err != nil {
		return err
	}
	log.WithField("bus", opt.Bus.Mode).Infoln("imu ready")

	var led *core.DigitalOut
	if opt.LEDPin >= 0 {
		if led, err = core.NewDigitalOut(core.GPIOPin(opt.LEDPin), false, false); err != nil {
			return fmt.Errorf("led: %w", err)
		}
		defer led.Shutdown()
	}

	radio := ble.NewPeripheral(bluetooth.DefaultAdapter, opt.DeviceName)
	if err := radio.Enable(); err != nil {
		return fmt.Errorf("enable BLE stack: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	demo := app.NewSensorDemo(opt.AppConfig(), core.NewEventQueue(), imu, radio, led, nil)
	log.WithField("name", opt.DeviceName).Infoln("advertising")
	err = demo.Start(ctx)
	if stopErr := radio.StopAdvertising(); stopErr != nil {
		log.WithError(stopErr).Debugln("stop advertising")
	}

	stats := demo.Stats()
	log.WithFields(log.Fields{
		"env":      stats.EnvUpdates,
		"motion":   stats.MotionUpdates,
		"skipped":  stats.Skipped,
		"connects": stats.Connects,
	}).Infoln("stopped")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func MonitorCmdRunE(cmd *cobra.Command, _ []string) error {
	opt, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	cfg := serial.DefaultConfig(opt.Serial.Device)
	cfg.Baud = opt.Serial.Baud
	m, err := monitor.Open(cfg, log.StandardLogger())
	if err != nil {
		return err
	}
	defer m.Close()
	log.WithField("device", cfg.Device).Infoln("monitoring")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = m.Run(ctx)
	stats, invalid := m.Stats()
	log.WithFields(log.Fields{
		"frames":    stats.Frames,
		"lost":      stats.Lost,
		"resyncs":   stats.Resyncs,
		"discarded": stats.Discarded,
		"invalid":   invalid,
	}).Infoln("decoder stats")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func ProbeCmdRunE(cmd *cobra.Command, _ []string) error {
	opt, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	imu, err := openSensor(opt)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if c, ok := imu.Transport().(*lsm6ds3.Core); ok {
		h := c.Handle()
		fmt.Fprintf(out, "LSM6DS3 found on %s (arg %#x)\n", h.Mode, h.Arg)
	}

	temp, err := imu.ReadTempC()
	if err != nil {
		return fmt.Errorf("read temperature: %w", err)
	}
	fmt.Fprintf(out, "temp   %.2f C\n", temp)

	accel := []func() (float32, error){imu.ReadFloatAccelX, imu.ReadFloatAccelY, imu.ReadFloatAccelZ}
	gyro := []func() (float32, error){imu.ReadFloatGyroX, imu.ReadFloatGyroY, imu.ReadFloatGyroZ}
	for _, ch := range []struct {
		name  string
		unit  string
		reads []func() (float32, error)
	}{{"accel", "g", accel}, {"gyro", "dps", gyro}} {
		var v [3]float32
		for i, read := range ch.reads {
			if v[i], err = read(); err != nil {
				return fmt.Errorf("read %s: %w", ch.name, err)
			}
		}
		fmt.Fprintf(out, "%-6s %8.3f %8.3f %8.3f %s\n", ch.name, v[0], v[1], v[2], ch.unit)
	}
	return nil
}
