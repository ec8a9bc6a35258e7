package sensorservice

import "github.com/google/uuid"

// BlueST feature UUIDs
var (
	ServiceUUID       = uuid.MustParse("00000000-0001-11e1-9ab4-0002a5d5c51b")
	EnvironmentalUUID = uuid.MustParse("00140000-0001-11e1-ac36-0002a5d5c51b")
	MotionUUID        = uuid.MustParse("00e00000-0001-11e1-ac36-0002a5d5c51b")
)
