// Package app is the sensor demo: it samples the LSM6DS3 on fixed periods
// and publishes the readings through the BlueST characteristics while a
// central is connected.
package app

import (
	"context"
	"errors"
	"sync/atomic"

	"imuble/core"
	"imuble/lsm6ds3"
	"imuble/protocol"
	"imuble/sensorservice"
)

// Radio is the BLE stack as seen by the application
type Radio interface {
	sensorservice.Stack
	SetConnectHandler(handler func(connected bool))
	ConfigureAdvertising() error
	StartAdvertising() error
}

// Stats counts what the application has done since Init
type Stats struct {
	EnvUpdates    uint32
	MotionUpdates uint32
	Skipped       uint32 // updates skipped because a sensor read failed
	SensorErrors  uint32 // hard read errors
	AllOnes       uint32 // all-ones reads
	NotifyFailed  uint32 // characteristic writes that failed
	Connects      uint32
	Dropped       uint32 // connection events lost because the queue was full
}

// SensorDemo owns the event queue, the sensor, the service, the LED and the
// connection state. All of its methods except the connect handler installed
// by Init must run on the queue's goroutine.
type SensorDemo struct {
	Config Config

	queue     *core.EventQueue
	imu       *lsm6ds3.Device
	radio     Radio
	service   *sensorservice.Service
	led       *core.DigitalOut
	telemetry *Telemetry
	log       core.Logger

	connected bool
	temp      int16
	accel     [3]int16
	gyro      [3]int16

	// all-ones streak
	absent       bool
	absentStreak uint32

	stats   Stats
	dropped atomic.Uint32

	// Built once so the connect handler can post them without allocating
	onConnect    func()
	onDisconnect func()
}

// NewSensorDemo wires the parts together. led and telemetry may be nil.
func NewSensorDemo(cfg Config, queue *core.EventQueue, imu *lsm6ds3.Device, radio Radio, led *core.DigitalOut, telemetry *Telemetry) *SensorDemo {
	applyDefaults(&cfg)
	d := &SensorDemo{
		Config:    cfg,
		queue:     queue,
		imu:       imu,
		radio:     radio,
		led:       led,
		telemetry: telemetry,
		log:       core.Logger{Prefix: "APP"},
	}
	d.onConnect = func() { d.OnConnect(true) }
	d.onDisconnect = d.OnDisconnect
	return d
}

// Init registers the service, starts advertising and schedules the periodic
// callbacks. It does not dispatch them.
func (d *SensorDemo) Init() error {
	d.radio.SetConnectHandler(d.handleConnect)

	svc, err := sensorservice.NewService(d.radio, d.temp, d.accel, d.gyro)
	if err != nil {
		d.log.Error("add service failed", err)
		return err
	}
	d.service = svc

	if err := d.radio.ConfigureAdvertising(); err != nil {
		d.log.Error("configure advertising failed", err)
		return err
	}
	if err := d.radio.StartAdvertising(); err != nil {
		d.log.Error("start advertising failed", err)
		core.RecordEvent(core.EvtAdvertise, 1, 0, 0)
		return err
	}
	core.RecordEvent(core.EvtAdvertise, 0, 0, 0)
	d.log.Info("advertising as " + d.Config.DeviceName)

	d.queue.CallEvery(millis(d.Config.Intervals.LED), d.Blink)
	d.queue.CallEvery(millis(d.Config.Intervals.Env), d.UpdateEnv)
	d.queue.CallEvery(millis(d.Config.Intervals.Motion), d.UpdateMotion)
	return nil
}

// Start runs Init and then dispatches the queue until ctx is done
func (d *SensorDemo) Start(ctx context.Context) error {
	if err := d.Init(); err != nil {
		return err
	}
	return d.queue.Run(ctx)
}

// handleConnect is called by the BLE stack from its own context
func (d *SensorDemo) handleConnect(connected bool) {
	fn := d.onDisconnect
	if connected {
		fn = d.onConnect
	}
	if !d.queue.Post(fn) {
		d.dropped.Add(1)
	}
}

// OnConnect marks the link up when ok
func (d *SensorDemo) OnConnect(ok bool) {
	if !ok {
		return
	}
	d.connected = true
	d.stats.Connects++
	core.RecordEvent(core.EvtConnect, 0, d.stats.Connects, 0)
	d.log.Info("central connected")
}

// OnDisconnect marks the link down and advertises again
func (d *SensorDemo) OnDisconnect() {
	d.connected = false
	core.RecordEvent(core.EvtDisconnect, 0, 0, 0)
	d.log.Info("central disconnected")

	if err := d.radio.StartAdvertising(); err != nil {
		core.RecordEvent(core.EvtAdvertise, 1, 0, 0)
		d.log.Error("restart advertising failed", err)
		return
	}
	core.RecordEvent(core.EvtAdvertise, 0, 0, 0)
}

// Connected reports whether a central is connected
func (d *SensorDemo) Connected() bool {
	return d.connected
}

// Stats returns the application counters
func (d *SensorDemo) Stats() Stats {
	s := d.stats
	s.Dropped = d.dropped.Load()
	return s
}

// Blink toggles the status LED
func (d *SensorDemo) Blink() {
	if d.led == nil {
		return
	}
	if err := d.led.Toggle(); err != nil {
		d.log.Error("led", err)
	}
}

// UpdateEnv publishes the temperature in tenths of a degree C
func (d *SensorDemo) UpdateEnv() {
	if d.telemetry != nil {
		d.telemetry.Status(d.linkStatus())
	}
	if !d.connected {
		return
	}

	tempC, err := d.imu.ReadTempC()
	if !d.sensorOK(err) {
		return
	}
	d.temp = int16(tempC * 10)
	d.stats.EnvUpdates++
	d.notify(d.service.UpdateTemperature(d.temp), 0)

	if d.telemetry != nil {
		env := d.service.Env()
		d.telemetry.Slot(protocol.MsgEnv, env[:])
	}
}

// UpdateMotion publishes raw accelerometer and gyroscope counts, axes
// ordered {Y, X, Z}
func (d *SensorDemo) UpdateMotion() {
	if !d.connected {
		return
	}

	updated := false
	accel, err := d.readAccel()
	if d.sensorOK(err) {
		d.accel = accel
		d.notify(d.service.UpdateAccel(accel), 1)
		updated = true
	}
	gyro, err := d.readGyro()
	if d.sensorOK(err) {
		d.gyro = gyro
		d.notify(d.service.UpdateGyro(gyro), 1)
		updated = true
	}
	if !updated {
		return
	}
	d.stats.MotionUpdates++

	if d.telemetry != nil {
		motion := d.service.Motion()
		d.telemetry.Slot(protocol.MsgMotion, motion[:])
	}
}

func (d *SensorDemo) readAccel() (a [3]int16, err error) {
	if a[0], err = d.imu.ReadRawAccelY(); err != nil {
		return
	}
	if a[1], err = d.imu.ReadRawAccelX(); err != nil {
		return
	}
	a[2], err = d.imu.ReadRawAccelZ()
	return
}

func (d *SensorDemo) readGyro() (g [3]int16, err error) {
	if g[0], err = d.imu.ReadRawGyroY(); err != nil {
		return
	}
	if g[1], err = d.imu.ReadRawGyroX(); err != nil {
		return
	}
	g[2], err = d.imu.ReadRawGyroZ()
	return
}

// sensorOK applies the read error policy and reports whether the update
// may go ahead. Hard errors are logged every time; an all-ones streak is
// logged once when it starts and once when it ends.
func (d *SensorDemo) sensorOK(err error) bool {
	if err == nil {
		if d.absent {
			core.RecordEvent(core.EvtSensorRecovered, 0, d.absentStreak, 0)
			d.log.Info("sensor back after " + core.Utoa(d.absentStreak) + " all-ones reads")
			d.absent = false
			d.absentStreak = 0
		}
		return true
	}

	d.stats.Skipped++
	if lsm6ds3.IsWarning(err) {
		d.stats.AllOnes++
		d.absentStreak++
		if !d.absent {
			d.absent = true
			core.RecordEvent(core.EvtSensorAbsent, uint8(lsm6ds3.AllOnesWarning), 0, 0)
			d.log.Warn("sensor absent (all-ones read)")
		}
		return false
	}

	d.stats.SensorErrors++
	var reg uint32
	var e *lsm6ds3.Error
	if errors.As(err, &e) {
		reg = uint32(e.Reg)
	}
	core.RecordEvent(core.EvtSensorError, uint8(lsm6ds3.StatusOf(err)), reg, 0)
	d.log.Error("sensor read failed", err)
	return false
}

func (d *SensorDemo) notify(err error, char uint8) {
	if err == nil {
		return
	}
	d.stats.NotifyFailed++
	core.RecordEvent(core.EvtNotifyFailed, char, d.stats.NotifyFailed, 0)
	d.log.Debug("characteristic write failed: " + err.Error())
}

func (d *SensorDemo) linkStatus() protocol.LinkStatus {
	return protocol.LinkStatus{
		Connected:  d.connected,
		AllOnes:    uint32(d.imu.AllOnesCounter),
		NonSuccess: uint32(d.imu.NonSuccessCounter),
		Skipped:    d.stats.Skipped,
	}
}
