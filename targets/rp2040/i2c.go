//go:build (rp2040 || rp2350) && expander

package main

import "machine"

// expanderBusHz is the MCP23017 fast-mode clock
const expanderBusHz = 400000

// ConfigureI2C0 initializes I2C0 on its default pins (SDA=GP4, SCL=GP5)
// and returns it for use by TinyGo drivers
func ConfigureI2C0(frequencyHz uint32) (*machine.I2C, error) {
	i2c := machine.I2C0
	err := i2c.Configure(machine.I2CConfig{
		Frequency: frequencyHz,
		SDA:       machine.I2C0_SDA_PIN,
		SCL:       machine.I2C0_SCL_PIN,
	})
	if err != nil {
		return nil, err
	}
	return i2c, nil
}
