package uplink

import (
	"encoding/json"
	"math"

	"airnode-go/services/sensor"
)

// Payload is the wire form of one published reading. Floats are rounded to
// two decimals; anything finer is ADC noise and bloats the message.
type Payload struct {
	DeviceID    string  `json:"device_id"`
	CO2         uint16  `json:"co2"`
	Temperature float32 `json:"temperature"`
	Humidity    float32 `json:"humidity"`
	Voltage     float32 `json:"voltage"`
	Timestamp   int64   `json:"timestamp,omitempty"`
}

// Encode renders a reading as the JSON message body. A zero Timestamp (NTP
// failed this cycle) is omitted so the backend can stamp on arrival instead.
func Encode(deviceID string, r sensor.Reading) ([]byte, error) {
	return json.Marshal(Payload{
		DeviceID:    deviceID,
		CO2:         r.CO2,
		Temperature: round2(r.Temperature),
		Humidity:    round2(r.Humidity),
		Voltage:     round2(r.Voltage),
		Timestamp:   r.Timestamp,
	})
}

func round2(v float32) float32 {
	return float32(math.Round(float64(v)*100) / 100)
}
