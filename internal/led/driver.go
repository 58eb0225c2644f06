package led

import (
	"errors"
	"fmt"
	"io"
)

// Driver abstracts an LED output sink.
type Driver interface {
	// Write pushes an RGB frame to hardware. len(rgb) must be 3*N.
	Write(rgb []byte) error
	// Close releases resources.
	Close() error
}

// rawDevice is what the periph strip drivers have in common: they accept a
// packed RGB stream and can blank the strip.
type rawDevice interface {
	io.Writer
	Halt() error
}

// Device adapts a periph strip driver to Driver.
type Device struct {
	name  string
	count int
	dev   rawDevice
	port  io.Closer
}

func (d *Device) Name() string { return d.name }
func (d *Device) Len() int     { return d.count }

func (d *Device) Write(rgb []byte) error {
	if len(rgb) != d.count*3 {
		return fmt.Errorf("%s: rgb length %d does not match count %d", d.name, len(rgb), d.count)
	}
	if _, err := d.dev.Write(rgb); err != nil {
		return fmt.Errorf("%s write: %w", d.name, err)
	}
	return nil
}

// Close blanks the strip and releases the port.
func (d *Device) Close() error {
	err := d.dev.Halt()
	if d.port != nil {
		err = errors.Join(err, d.port.Close())
	}
	return err
}

type tee []Driver

// Tee returns a Driver that writes every frame to each of drivers in order.
func Tee(drivers ...Driver) Driver { return tee(drivers) }

func (t tee) Write(rgb []byte) error {
	var errs []error
	for _, d := range t {
		if err := d.Write(rgb); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t tee) Close() error {
	var errs []error
	for _, d := range t {
		errs = append(errs, d.Close())
	}
	return errors.Join(errs...)
}
