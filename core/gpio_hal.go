package core

// PinDriver is the pin-level side-effect interface the interpreter drives.
// Platform-specific implementations handle the actual hardware.
type PinDriver interface {
	// ConfigureOutput makes the pin a digital output
	// Returns error if the pin does not exist on this backend
	ConfigureOutput(pin PinRef) error

	// Set drives the pin to the given level
	Set(pin PinRef, level Level) error
}

// PinReader is implemented by drivers that can report the level they last drove
type PinReader interface {
	Get(pin PinRef) (Level, error)
}
