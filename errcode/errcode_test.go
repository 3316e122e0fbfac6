package errcode

import (
	"errors"
	"testing"
)

func TestCodeIsError(t *testing.T) {
	var err error = SensorTimeout
	if err.Error() != "sensor_timeout" {
		t.Errorf("Error() = %q", err.Error())
	}
	if Of(err) != SensorTimeout {
		t.Errorf("Of(code) = %v", Of(err))
	}
}

func TestOfWrapped(t *testing.T) {
	cause := errors.New("i2c nak")
	err := &E{C: SensorInit, Op: "probe", Err: cause}

	if Of(err) != SensorInit {
		t.Errorf("Of(E) = %v, want sensor_init", Of(err))
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped cause lost")
	}
}

func TestOfFallbacks(t *testing.T) {
	if Of(nil) != OK {
		t.Error("Of(nil) != OK")
	}
	if Of(errors.New("plain")) != Error {
		t.Error("Of(plain) != Error")
	}
}
