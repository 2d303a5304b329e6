//go:build tinygo

package main

import "machine"

const (
	// Sampling configuration
	SAMPLE_INTERVAL_MS = 1 // ADC read interval in milliseconds (same for both sensors)
	NUM_SAMPLES        = 5 // Number of samples to average per output line

	// ADC configuration
	ADC_REFERENCE_MV = 3300 // Reference voltage in millivolts (3.3V)
	ADC_RESOLUTION   = 12   // ADC resolution in bits (12-bit = 0-4095)

	// Force sensitive resistors, each to GND with a pull-up to 3.3V
	PIN_RIGHT_FSR = machine.A1
	PIN_LEFT_FSR  = machine.A2

	// Piezo buzzer
	PIN_BUZZER = machine.D7

	// Software PWM for the buzzer: LOOP_DELAY_US per tick, PWM_PERIOD ticks
	// per cycle gives a 2 kHz tone.
	LOOP_DELAY_US = 50
	PWM_PERIOD    = 10

	// Serial configuration
	// Line format: "unix_micros,right,left\n", at most ~28 bytes.
	// 200 lines/sec * 28 bytes = 5,600 bytes/sec, half of what 115200 8N1 carries.
	UART_BAUD_RATE = 115200
)
