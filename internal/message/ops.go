package message

import (
	"context"
	"fmt"

	"github.com/muurk/iconn/internal/codec"
	"github.com/muurk/iconn/internal/command"
	"github.com/muurk/iconn/internal/datablock"
	"github.com/muurk/iconn/internal/protocol"
)

// GetParmVal reads parameters ids of dc. arg scopes the request and may be
// nil. The answer is a RetParmVal message.
func (s *Session) GetParmVal(ctx context.Context, dc DataClass, arg *datablock.ArgVal, ids ...byte) (*Message, error) {
	resp, err := s.expect(ctx, NewGetParmVal(dc, arg, &datablock.ParmList{IDs: ids}), ClassRetParmVal)
	if err != nil {
		return nil, err
	}
	return resp.Message, nil
}

// SetParmVal writes parameters of dc and waits for the Ack.
func (s *Session) SetParmVal(ctx context.Context, dc DataClass, arg *datablock.ArgVal, vals ...datablock.ParmValue) error {
	_, err := s.expect(ctx, NewSetParmVal(dc, arg, &datablock.ParmVal{Values: vals}), ClassAck)
	return err
}

// GetParmDef lists the parameters dc supports.
func (s *Session) GetParmDef(ctx context.Context, dc DataClass) ([]datablock.ParmDefinition, error) {
	resp, err := s.expect(ctx, NewGetParmDef(dc), ClassRetParmDef)
	if err != nil {
		return nil, err
	}
	var defs []datablock.ParmDefinition
	for _, b := range resp.Message.ParmDefs() {
		defs = append(defs, b.Definitions...)
	}
	return defs, nil
}

// GetCmdDef lists the commands the device supports.
func (s *Session) GetCmdDef(ctx context.Context) ([]datablock.CmdDefinition, error) {
	resp, err := s.expect(ctx, NewGetCmdDef(), ClassRetCmdDef)
	if err != nil {
		return nil, err
	}
	var defs []datablock.CmdDefinition
	for _, b := range resp.Message.CmdDefs() {
		defs = append(defs, b.Definitions...)
	}
	return defs, nil
}

// SetCmdVal executes commands and waits for the Ack.
func (s *Session) SetCmdVal(ctx context.Context, vals ...datablock.CmdValue) error {
	_, err := s.expect(ctx, NewSetCmdVal(&datablock.CmdVal{Values: vals}), ClassAck)
	return err
}

// values reads ids and returns their data in request order.
func (s *Session) values(ctx context.Context, dc DataClass, arg *datablock.ArgVal, ids ...byte) ([][]byte, error) {
	m, err := s.GetParmVal(ctx, dc, arg, ids...)
	if err != nil {
		return nil, err
	}
	out := make([][]byte, len(ids))
	for i, id := range ids {
		v, ok := m.Value(id)
		if !ok {
			return nil, protocol.NewMalformedError(ClassGetParmVal.String(),
				fmt.Sprintf("answer lacks %s %s", dc, ParamName(dc, id)), nil)
		}
		out[i] = v
	}
	return out, nil
}

// GetDeviceName returns the product name.
func (s *Session) GetDeviceName(ctx context.Context) (string, error) {
	v, err := s.values(ctx, DataDeviceInfo, nil, InfoProductName)
	if err != nil {
		return "", err
	}
	return string(v[0]), nil
}

// GetOpMode returns the device's operating mode.
func (s *Session) GetOpMode(ctx context.Context) (OpMode, error) {
	v, err := s.values(ctx, DataDeviceInfo, nil, InfoDevOpMode)
	if err != nil {
		return 0, err
	}
	if len(v[0]) < 1 {
		return 0, protocol.NewMalformedError(ClassGetParmVal.String(), "empty DevOpMode", codec.ErrLength)
	}
	return OpMode(v[0][0]), nil
}

// FailoverInfo is the failover status plus the active scene.
type FailoverInfo struct {
	command.FailoverState
	Scene int
}

// GetFailoverInfo reads the scene and failover parameters.
func (s *Session) GetFailoverInfo(ctx context.Context) (*FailoverInfo, error) {
	v, err := s.values(ctx, DataDeviceFeature, nil,
		FeatureSceneNumber,
		FeatureFailoverArmStatus,
		FeatureFailoverAlarmStatus,
		FeatureFailoverUSBPortStatus,
	)
	if err != nil {
		return nil, err
	}
	scene, armed, alarm, ports := v[0], v[1], v[2], v[3]
	if len(scene) < 1 || len(armed) < 1 || len(alarm) < 1 || len(ports) < 4 {
		return nil, protocol.NewMalformedError(ClassGetParmVal.String(), "short failover parameters", codec.ErrLength)
	}

	return &FailoverInfo{
		FailoverState: command.FailoverState{
			Alarm:            alarm[0] != 0,
			Armed:            armed[0] != 0,
			MainAudioState:   command.AudioMidiState(ports[0]),
			MainMidiState:    command.AudioMidiState(ports[1]),
			BackupAudioState: command.AudioMidiState(ports[2]),
			BackupMidiState:  command.AudioMidiState(ports[3]),
		},
		Scene: int(scene[0]),
	}, nil
}

// PortMeters holds the source meter readings of one audio port.
type PortMeters struct {
	PortID  int
	Outputs []command.MeterChannel
}

// GetMeterValues reads the PortMeterSRC values of an audio port.
func (s *Session) GetMeterValues(ctx context.Context, port int) (*PortMeters, error) {
	if port < 0 || port > 0x7F {
		return nil, protocol.NewEncodingError(ClassGetParmVal.String(), fmt.Errorf("%w: audio port %d", codec.ErrOutOfRange, port))
	}
	arg := datablock.NewArgVal(datablock.Arg{ID: datablock.ArgAudioPortID, Value: byte(port)})
	v, err := s.values(ctx, DataAudioPortInfo, arg, PortMeterSRC)
	if err != nil {
		return nil, err
	}
	data := v[0]
	if len(data)%2 != 0 {
		return nil, protocol.NewMalformedError(ClassGetParmVal.String(),
			fmt.Sprintf("meter data has odd length %d", len(data)), codec.ErrLength)
	}

	pm := &PortMeters{PortID: port, Outputs: make([]command.MeterChannel, 0, len(data)/2)}
	for i := 0; i < len(data); i += 2 {
		raw, err := codec.Merge14(data[i : i+2])
		if err != nil {
			return nil, protocol.NewMalformedError(ClassGetParmVal.String(), "invalid meter value", err)
		}
		pm.Outputs = append(pm.Outputs, command.MeterChannel{Channel: i/2 + 1, Raw: raw})
	}
	return pm, nil
}

// SetAlarmStatus raises or clears the failover alarm.
func (s *Session) SetAlarmStatus(ctx context.Context, alarm bool) error {
	var v byte
	if alarm {
		v = 1
	}
	return s.SetParmVal(ctx, DataDeviceFeature, nil,
		datablock.ParmValue{ID: FeatureFailoverAlarmStatus, Data: []byte{v}})
}

// SetScene activates a scene (1 or 2 on current hardware).
func (s *Session) SetScene(ctx context.Context, scene int) error {
	if scene < 1 || scene > 0x7F {
		return protocol.NewEncodingError(ClassSetParmVal.String(), fmt.Errorf("%w: scene %d", codec.ErrOutOfRange, scene))
	}
	return s.SetParmVal(ctx, DataDeviceFeature, nil,
		datablock.ParmValue{ID: FeatureSceneNumber, Data: []byte{byte(scene)}})
}
