package main

import (
	"machine"
	"time"
)

// Each channel sits on its own PWM slice: GP0/2/4/6/8 map to slices 0-4.
var channelPins = [NumChannels]channelPin{
	{machine.PWM0, machine.GP0}, // red
	{machine.PWM1, machine.GP2}, // amber
	{machine.PWM2, machine.GP4}, // green
	{machine.PWM3, machine.GP6}, // blue
	{machine.PWM4, machine.GP8}, // white
}

func main() {
	// Give the host a moment to open the port before we talk.
	time.Sleep(500 * time.Millisecond)

	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})

	leds, err := newAnalogString(channelPins)
	if err != nil {
		panic(err)
	}

	NewDevice(WrapSerial(uart), leds).Run()
}
