// github.com/tve/sensors contains drivers for sensors attached to SPI buses and gpio pins.
// The register-access framing shared by the drivers lives in the regio package, each device
// driver is in its own directory and is stand-alone. Simple commands to exercise the devices
// can be found in the cmd directory tree.
package sensors
