package pim

// machine.go bundles an Allocator with a Driver, the way internal/vm/cpu.go's
// LC3 bundles a Memory controller with its Devices/MMIO. The reference C++
// implementation instead keeps REGISTERS and the driver as process-wide
// globals reached by free functions; Go discourages mutable package
// globals for anything but an opt-in convenience default, so Machine is the
// unit of "one simulated PIM system" that vectors are constructed from.

import "sync"

// Machine bundles the register allocator with the hardware driver that
// vectors constructed from it will dispatch gates to.
type Machine struct {
	alloc  *Allocator
	driver Driver
}

// NewMachine creates a Machine backed by the given driver, with a fresh,
// empty Allocator. Tests obtain isolation by constructing one Machine per
// test rather than needing to reset shared global state.
func NewMachine(driver Driver) *Machine {
	return &Machine{alloc: NewAllocator(), driver: driver}
}

// Allocator returns the machine's register allocator.
func (m *Machine) Allocator() *Allocator { return m.alloc }

// Driver returns the machine's hardware driver.
func (m *Machine) Driver() Driver { return m.driver }

var (
	defaultOnce    sync.Once
	defaultMachine *Machine
)

// nullDriver panics on every call; it only backs Default() until a real
// driver is installed with SetDefaultDriver, so that forgetting to wire a
// driver fails loudly instead of silently reading zeroes.
type nullDriver struct{}

func (nullDriver) Read(_, _, _ int64) uint32 { panic("pim: no default driver installed") }
func (nullDriver) Write(_, _, _ int64, _ uint32) {
	panic("pim: no default driver installed")
}
func (nullDriver) WriteMasked(_, _ RangeMask, _ int, _ uint32) {
	panic("pim: no default driver installed")
}
func (nullDriver) Arith(_ ArithOp, _ Kind, _, _, _ int, _, _ RangeMask) {
	panic("pim: no default driver installed")
}
func (nullDriver) Unary(_ UnaryOp, _ Kind, _, _ int, _, _ RangeMask) {
	panic("pim: no default driver installed")
}
func (nullDriver) Bitwise(_ BitwiseOp, _, _, _ int, _, _ RangeMask) {
	panic("pim: no default driver installed")
}
func (nullDriver) WarpMove(_, _ int64, _ int, _ RangeMask) {
	panic("pim: no default driver installed")
}
func (nullDriver) WarpSize() int64 { return CrossbarN }

// Default returns the process-wide default Machine, lazily created over a
// panic-on-use driver. Call SetDefaultDriver during program startup to
// attach a real driver before using Default; production code is otherwise
// expected to construct its own Machine with NewMachine.
func Default() *Machine {
	defaultOnce.Do(func() {
		defaultMachine = NewMachine(nullDriver{})
	})

	return defaultMachine
}

// SetDefaultDriver replaces the driver of the default Machine. It must be
// called before any vector is constructed from Default().
func SetDefaultDriver(driver Driver) {
	Default().driver = driver
}
