// Package dmgcore composes the bus and CPU into a runnable machine and
// drives the fetch/decode/execute loop. It has no display or audio output;
// callers that need those attach their own sinks around the exposed CPU
// and bus state.
package dmgcore

import (
	"context"
	"fmt"
	"os"

	"github.com/dmg-core/dmgcore/addr"
	"github.com/dmg-core/dmgcore/bus"
	"github.com/dmg-core/dmgcore/cpu"
	"github.com/dmg-core/dmgcore/serial"
)

// Machine owns a bus and the CPU that drives it. It is the top-level
// object a caller constructs to run a ROM.
type Machine struct {
	bus    *bus.Bus
	cpu    *cpu.CPU
	serial *serial.LogSink

	instructionCount uint64
}

// Option configures a Machine at construction time.
type Option func(*machineConfig)

type machineConfig struct {
	bootROM   []byte
	skipBoot  bool
	serialOut *serial.LogSink
}

// WithBootROM supplies a 256-byte boot ROM overlay. If both WithBootROM and
// WithSkipBoot are given, WithSkipBoot wins.
func WithBootROM(rom []byte) Option {
	return func(cfg *machineConfig) { cfg.bootROM = rom }
}

// WithSkipBoot starts the CPU directly in its post-boot register state,
// bypassing any supplied boot ROM.
func WithSkipBoot() Option {
	return func(cfg *machineConfig) { cfg.skipBoot = true }
}

// WithSerialSink attaches a specific serial.LogSink instead of the default
// one that writes to os.Stdout.
func WithSerialSink(sink *serial.LogSink) Option {
	return func(cfg *machineConfig) { cfg.serialOut = sink }
}

// New constructs a Machine around the given cartridge image.
func New(romData []byte, opts ...Option) (*Machine, error) {
	cart, err := bus.NewCartridge(romData)
	if err != nil {
		return nil, fmt.Errorf("dmgcore: %w", err)
	}

	cfg := &machineConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	m := &Machine{}

	if cfg.serialOut != nil {
		m.serial = cfg.serialOut
	} else {
		m.serial = serial.NewLogSink(os.Stdout, m.requestSerialInterrupt)
	}

	busOpts := []bus.Option{bus.WithSerialSink(m.serial)}
	if !cfg.skipBoot && len(cfg.bootROM) > 0 {
		busOpts = append(busOpts, bus.WithBootROM(cfg.bootROM))
	}
	m.bus = bus.New(cart, busOpts...)

	var cpuOpts []cpu.Option
	if m.bus.BootEnabled() {
		cpuOpts = append(cpuOpts, cpu.WithBootROMState())
	}
	m.cpu = cpu.New(m.bus, cpuOpts...)

	return m, nil
}

// NewWithFile reads romPath and constructs a Machine from its contents.
func NewWithFile(romPath string, opts ...Option) (*Machine, error) {
	data, err := os.ReadFile(romPath)
	if err != nil {
		return nil, fmt.Errorf("dmgcore: reading ROM: %w", err)
	}
	return New(data, opts...)
}

func (m *Machine) requestSerialInterrupt() {
	m.bus.RequestInterrupt(addr.SerialInterrupt)
}

// Serial exposes the attached serial sink, for tests to inspect the
// accumulated transcript written through SB/SC.
func (m *Machine) Serial() *serial.LogSink { return m.serial }

// CPU exposes the CPU for read-only inspection (register/flag state,
// --debug tracing).
func (m *Machine) CPU() *cpu.CPU { return m.cpu }

// InstructionCount returns the number of instructions executed so far.
func (m *Machine) InstructionCount() uint64 { return m.instructionCount }

// IllegalOpcodeError wraps a cpu.IllegalOpcodeError, surfaced by Run/Step
// instead of a raw panic once the driver recovers it.
type IllegalOpcodeError struct {
	cause *cpu.IllegalOpcodeError
}

func (e *IllegalOpcodeError) Error() string { return e.cause.Error() }
func (e *IllegalOpcodeError) Unwrap() error { return e.cause }

// Step executes a single CPU instruction and returns its m-cycle cost. If
// the fetched opcode is illegal, Step recovers the CPU's panic and returns
// it as an *IllegalOpcodeError instead of propagating the panic.
func (m *Machine) Step() (cycles int, err error) {
	defer func() {
		if r := recover(); r != nil {
			if illegal, ok := r.(*cpu.IllegalOpcodeError); ok {
				err = &IllegalOpcodeError{cause: illegal}
				return
			}
			panic(r)
		}
	}()

	cycles = m.cpu.Step()
	m.instructionCount++
	return cycles, nil
}

// Run drives the machine until ctx is canceled or the CPU hits an illegal
// opcode. Interrupt dispatch is folded into cpu.CPU.Step itself, so Run's
// only job is to keep calling Step and watch for cancellation.
func (m *Machine) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if _, err := m.Step(); err != nil {
			return err
		}
	}
}

// RunInstructions steps the machine exactly n times, stopping early on an
// illegal opcode. Useful for headless/test-harness callers that want a
// bounded run instead of a context-canceled one.
func (m *Machine) RunInstructions(n uint64) error {
	for i := uint64(0); i < n; i++ {
		if _, err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}
