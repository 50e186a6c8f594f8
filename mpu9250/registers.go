// Copyright 2016 by Thorsten von Eicken, see LICENSE file

package mpu9250

const (
	REG_SMPLRT_DIV        = 0x19
	REG_CONFIG            = 0x1A
	REG_GYRO_CONFIG       = 0x1B
	REG_ACCEL_CONFIG      = 0x1C
	REG_ACCEL_CONFIG2     = 0x1D
	REG_FIFO_EN           = 0x23
	REG_INT_PIN_CFG       = 0x37
	REG_INT_ENABLE        = 0x38
	REG_INT_STATUS        = 0x3A
	REG_ACCEL_XOUT_H      = 0x3B
	REG_TEMP_OUT_H        = 0x41
	REG_GYRO_XOUT_H       = 0x43
	REG_SIGNAL_PATH_RESET = 0x68
	REG_USER_CTRL         = 0x6A
	REG_PWR_MGMT_1        = 0x6B
	REG_PWR_MGMT_2        = 0x6C
	REG_WHO_AM_I          = 0x75

	// values returned by WHO_AM_I for the supported chips
	WHOAMI_MPU9250 = 0x71
	WHOAMI_MPU9255 = 0x73
	WHOAMI_MPU6500 = 0x70

	PWR1_RESET      = 1 << 7
	PWR1_SLEEP      = 1 << 6
	PWR1_CLKSEL_PLL = 0x01

	USERCTL_I2C_IF_DIS = 1 << 4 // disable the I2C slave interface, SPI only

	INTCFG_LATCH_INT_EN   = 1 << 5 // hold INT until the interrupt is cleared
	INTCFG_INT_ANYRD_2CLR = 1 << 4 // any register read clears the interrupt
	INTEN_RAW_RDY_EN      = 1 << 0 // assert INT when the sensor registers are updated

	// FS_SEL field in GYRO_CONFIG and ACCEL_CONFIG, bits 4:3
	FS_SEL_SHIFT = 3
	FS_SEL_MASK  = 3 << FS_SEL_SHIFT
)

// register values to initialize the chip, this array has pairs of <address, data>
var configRegs = []byte{
	REG_PWR_MGMT_1, PWR1_CLKSEL_PLL, // wake up, clock from gyro PLL
	REG_PWR_MGMT_2, 0x00, // all six axes on
	REG_USER_CTRL, USERCTL_I2C_IF_DIS, // this driver talks SPI only
	REG_CONFIG, 0x03, // gyro DLPF 41Hz
	REG_ACCEL_CONFIG2, 0x03, // accel DLPF 41Hz
	REG_SMPLRT_DIV, 0x04, // 1khz/(1+4) = 200 samples per second
	REG_FIFO_EN, 0x00, // no FIFO, registers are read directly
	REG_INT_ENABLE, 0x00, // no interrupts unless an IntrPin is configured
}
