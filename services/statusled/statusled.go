// Package statusled blinks the board LED on notable events: a high-CO2
// reading or an aborted cycle. Purely advisory; it subscribes to the event
// bus and can be left out of a build without touching the boot path.
package statusled

import (
	"time"

	"airnode-go/bus"
	"airnode-go/errcode"
	"airnode-go/services/power"
	"airnode-go/services/sensor"
)

// Pin is the LED output.
type Pin interface {
	Set(high bool)
}

type Service struct {
	pin     Pin
	warnCO2 uint16
	pulse   time.Duration

	readings *bus.Subscription
	failures *bus.Subscription
	done     chan struct{}
	stopped  chan struct{}
}

// New wires the service to the event bus. pulse is the on/off half-period of
// a blink; zero selects a default.
func New(pin Pin, warnCO2 uint16, pulse time.Duration, events *bus.Bus) *Service {
	if pulse <= 0 {
		pulse = 150 * time.Millisecond
	}
	return &Service{
		pin:      pin,
		warnCO2:  warnCO2,
		pulse:    pulse,
		readings: events.Subscribe(power.TopicReading),
		failures: events.Subscribe(power.TopicEmergency),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Start runs the blink loop until Stop.
func (s *Service) Start() {
	go s.run()
}

// Stop ends the loop and leaves the LED off.
func (s *Service) Stop() {
	close(s.done)
	<-s.stopped
	s.readings.Unsubscribe()
	s.failures.Unsubscribe()
	s.pin.Set(false)
}

func (s *Service) run() {
	defer close(s.stopped)
	for {
		select {
		case msg := <-s.readings.Channel():
			if r, ok := msg.Payload.(sensor.Reading); ok && r.CO2 >= s.warnCO2 {
				s.blink(3)
			}
		case msg := <-s.failures.Channel():
			if _, ok := msg.Payload.(errcode.Code); ok {
				s.blink(5)
			}
		case <-s.done:
			return
		}
	}
}

func (s *Service) blink(times int) {
	for i := 0; i < times; i++ {
		s.pin.Set(true)
		time.Sleep(s.pulse)
		s.pin.Set(false)
		time.Sleep(s.pulse)
	}
}
