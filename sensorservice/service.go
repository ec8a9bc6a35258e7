// Package sensorservice encodes LSM6DS3 readings into the BlueST
// environmental and motion characteristics and pushes them through a BLE
// stack.
package sensorservice

import (
	"errors"

	"github.com/google/uuid"
)

// Flags are characteristic properties
type Flags uint8

const (
	FlagRead Flags = 1 << iota
	FlagNotify
)

// CharacteristicConfig describes one characteristic to register
type CharacteristicConfig struct {
	UUID  uuid.UUID
	Flags Flags
	Value []byte // initial value
}

// Characteristic is a registered characteristic value
type Characteristic interface {
	Write(p []byte) (n int, err error)
}

// Stack is the part of a BLE stack the service needs. AddService returns
// one Characteristic per config, in order.
type Stack interface {
	AddService(service uuid.UUID, chars []CharacteristicConfig) ([]Characteristic, error)
}

var errCharacteristicCount = errors.New("sensorservice: stack returned wrong number of characteristics")

// Service owns the value slots and the registered characteristics
type Service struct {
	values ValueBytes
	env    Characteristic
	motion Characteristic
}

// NewService encodes the initial readings and registers the service with
// stack
func NewService(stack Stack, temp int16, accel, gyro [3]int16) (*Service, error) {
	s := &Service{}
	s.values.UpdateTemp(temp)
	s.values.UpdateAccel(accel)
	s.values.UpdateGyro(gyro)

	chars, err := stack.AddService(ServiceUUID, []CharacteristicConfig{
		{UUID: EnvironmentalUUID, Flags: FlagRead | FlagNotify, Value: s.values.Env[:]},
		{UUID: MotionUUID, Flags: FlagNotify, Value: s.values.Motion[:]},
	})
	if err != nil {
		return nil, err
	}
	if len(chars) != 2 {
		return nil, errCharacteristicCount
	}
	s.env, s.motion = chars[0], chars[1]
	return s, nil
}

// UpdateTemperature encodes t (tenths of a degree C) and writes the env slot
func (s *Service) UpdateTemperature(t int16) error {
	s.values.UpdateTemp(t)
	_, err := s.env.Write(s.values.Env[:])
	return err
}

// UpdateAccel encodes accel ({Y, X, Z} raw counts) and writes the motion slot
func (s *Service) UpdateAccel(accel [3]int16) error {
	s.values.UpdateAccel(accel)
	_, err := s.motion.Write(s.values.Motion[:])
	return err
}

// UpdateGyro encodes gyro ({Y, X, Z} raw counts) and writes the motion slot
func (s *Service) UpdateGyro(gyro [3]int16) error {
	s.values.UpdateGyro(gyro)
	_, err := s.motion.Write(s.values.Motion[:])
	return err
}

// Env returns a copy of the env slot
func (s *Service) Env() [EnvSize]byte {
	return s.values.Env
}

// Motion returns a copy of the motion slot
func (s *Service) Motion() [MotionSize]byte {
	return s.values.Motion
}
