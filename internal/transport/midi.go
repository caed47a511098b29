package transport

import (
	"fmt"
	"sync"

	"github.com/muurk/iconn/internal/logging"
	"github.com/muurk/iconn/internal/protocol"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"go.uber.org/zap"
)

// sysExBufferSize fits the largest frame a device advertises.
const sysExBufferSize = protocol.MaxFrameSize

// MIDIPort is a Port over a host MIDI input/output pair. A MIDI driver
// (e.g. rtmididrv) must be registered by the importing binary.
type MIDIPort struct {
	listeners

	in   drivers.In
	out  drivers.Out
	stop func()

	writeMu sync.Mutex
	once    sync.Once
}

// OpenMIDI opens the input and output ports whose names contain inName and
// outName.
func OpenMIDI(inName, outName string) (*MIDIPort, error) {
	in, err := midi.FindInPort(inName)
	if err != nil {
		return nil, fmt.Errorf("MIDI input %q not found: %w", inName, err)
	}
	out, err := midi.FindOutPort(outName)
	if err != nil {
		return nil, fmt.Errorf("MIDI output %q not found: %w", outName, err)
	}
	return NewMIDIPort(in, out)
}

// NewMIDIPort starts listening on in and opens out for sending.
func NewMIDIPort(in drivers.In, out drivers.Out) (*MIDIPort, error) {
	if err := out.Open(); err != nil {
		return nil, fmt.Errorf("open MIDI output %s: %w", out, err)
	}

	p := &MIDIPort{in: in, out: out}
	stop, err := midi.ListenTo(in, func(msg midi.Message, _ int32) {
		raw := msg.Bytes()
		if len(raw) == 0 || raw[0] != protocol.SysExStart {
			return
		}
		logging.LogSysEx(p.String(), "in", raw)
		p.dispatch(raw)
	},
		midi.UseSysEx(),
		midi.SysExBufferSize(sysExBufferSize),
		midi.HandleError(func(err error) {
			logging.Warn("MIDI listener error", zap.String("port", in.String()), zap.Error(err))
		}),
	)
	if err != nil {
		_ = out.Close()
		return nil, fmt.Errorf("listen on MIDI input %s: %w", in, err)
	}
	p.stop = stop

	logging.Info("Opened MIDI ports", zap.String("in", in.String()), zap.String("out", out.String()))
	return p, nil
}

func (p *MIDIPort) Send(frame []byte) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	if !p.out.IsOpen() {
		if err := p.out.Open(); err != nil {
			return err
		}
	}
	return p.out.Send(frame)
}

func (p *MIDIPort) Listen(h Handler) (func(), error) {
	return p.add(h), nil
}

func (p *MIDIPort) Close() error {
	var err error
	p.once.Do(func() {
		if p.stop != nil {
			p.stop()
		}
		err = CloseAll(p.in, p.out)
	})
	return err
}

func (p *MIDIPort) String() string {
	return fmt.Sprintf("%s/%s", p.in, p.out)
}

// PortNames lists the MIDI ports known to the registered driver.
type PortNames struct {
	Inputs  []string `json:"inputs"`
	Outputs []string `json:"outputs"`
}

// ListPorts returns the available MIDI input and output names.
func ListPorts() PortNames {
	var names PortNames
	for _, in := range midi.GetInPorts() {
		names.Inputs = append(names.Inputs, in.String())
	}
	for _, out := range midi.GetOutPorts() {
		names.Outputs = append(names.Outputs, out.String())
	}
	return names
}
