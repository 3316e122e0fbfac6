package errcode

// Code is a stable diagnostic identifier for a boot-cycle failure.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable). Every abort path in the boot
// orchestrator logs exactly one of these before sleeping.
const (
	OK Code = "ok"

	// Transient: logged, then retried on the next scheduled boot.
	BusStuck      Code = "bus_stuck"
	SensorInit    Code = "sensor_init"
	SensorRead    Code = "sensor_read"
	SensorTimeout Code = "sensor_timeout"
	WiFiTimeout   Code = "wifi_timeout"
	NTPTimeout    Code = "ntp_timeout"
	MQTTConnect   Code = "mqtt_connect"
	PublishFailed Code = "publish_failed"

	// Data quality: reading out of the configured valid range.
	InvalidReading Code = "invalid_reading"

	// State integrity: persisted record failed checksum/magic.
	StateCorrupt Code = "state_corrupt"

	// Fatal for this boot: battery below the operating threshold.
	LowBattery Code = "low_battery"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}
