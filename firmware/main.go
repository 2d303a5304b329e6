//go:build tinygo

//go:generate tinygo flash -target=xiao

package main

import (
	"machine"
	"time"

	"tinygo.org/x/drivers/buzzer"

	"github.com/itohio/stepcoach/firmware/protocol"
)

var (
	adcRight machine.ADC
	adcLeft  machine.ADC
	uart     = machine.UART0
	beeper   buzzer.Device

	averager = protocol.Averager{Window: NUM_SAMPLES}
	parser   protocol.Parser
	line     [32]byte

	// Buzzer state
	beeping bool
	volume  int
	pwmTick int
	pinOn   bool

	lastADCRead time.Time
)

func main() {
	PIN_BUZZER.Configure(machine.PinConfig{Mode: machine.PinOutput})
	beeper = buzzer.New(PIN_BUZZER)
	beeper.Off()

	PIN_RIGHT_FSR.Configure(machine.PinConfig{Mode: machine.PinInput})
	PIN_LEFT_FSR.Configure(machine.PinConfig{Mode: machine.PinInput})

	adcRight = machine.ADC{Pin: PIN_RIGHT_FSR}
	adcLeft = machine.ADC{Pin: PIN_LEFT_FSR}

	adcConfig := machine.ADCConfig{
		Reference:  ADC_REFERENCE_MV,
		Resolution: ADC_RESOLUTION,
	}
	adcRight.Configure(adcConfig)
	adcLeft.Configure(adcConfig)

	uart.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	lastADCRead = time.Now()

	for {
		now := time.Now()

		processSerial()

		if now.Sub(lastADCRead) >= SAMPLE_INTERVAL_MS*time.Millisecond {
			readSensors(now)
			lastADCRead = now
		}

		driveBuzzer()

		time.Sleep(LOOP_DELAY_US * time.Microsecond)
	}
}

// readSensors reads both sensors back to back and emits a line once the
// averaging window is full.
func readSensors(now time.Time) {
	// machine.ADC.Get always returns a 16-bit scaled value
	right := protocol.Scale(adcRight.Get(), 16)
	left := protocol.Scale(adcLeft.Get(), 16)

	r, l, ok := averager.Add(right, left)
	if !ok {
		return
	}
	out := protocol.AppendLine(line[:0], now.UnixNano()/1000, r, l)
	uart.Write(out)
}

func processSerial() {
	for uart.Buffered() > 0 {
		data, err := uart.ReadByte()
		if err != nil {
			break
		}

		cmd, ok := parser.Feed(data)
		if !ok {
			continue
		}

		switch cmd.Kind {
		case protocol.KindBeep:
			beeping = cmd.Value == 1
		case protocol.KindVolume:
			volume = cmd.Value
		}
	}
}

// driveBuzzer gates the buzzer at the PWM duty for the current volume.
// Volume 0 keeps it silent even while beeping.
func driveBuzzer() {
	on := beeping && protocol.DutyOn(pwmTick, PWM_PERIOD, volume)
	pwmTick = (pwmTick + 1) % PWM_PERIOD

	if on == pinOn {
		return
	}
	pinOn = on
	if on {
		beeper.On()
	} else {
		beeper.Off()
	}
}
