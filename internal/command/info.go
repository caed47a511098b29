package command

import (
	"context"
	"fmt"

	"github.com/muurk/iconn/internal/codec"
	"github.com/muurk/iconn/internal/protocol"
)

// DeviceInfo is the RetDevice answer. Hosts cache it for the session.
type DeviceInfo struct {
	ProductID       ProductID
	Serial          []byte
	ProtocolVersion int
	OperatingMode   OperatingMode
	MaxDataLength   int
}

// GetDevice queries the device identity. It is always the first command
// sent to a device.
func (d *Device) GetDevice(ctx context.Context) (*DeviceInfo, error) {
	resp, err := d.Send(ctx, GetDevice, nil, d.quick())
	if err != nil {
		return nil, err
	}
	// Payload: command version, protocol version, mode, then the maximum
	// data length. Older firmware sends the length as a single byte.
	p := resp.Payload
	if len(p) < 4 {
		return nil, protocol.NewMalformedError(GetDevice.String(),
			fmt.Sprintf("RetDevice payload too short: %d bytes", len(p)), codec.ErrLength)
	}
	maxLen := int(p[3])
	if len(p) >= 5 {
		maxLen, err = codec.Merge14(p[3:5])
		if err != nil {
			return nil, protocol.NewMalformedError(GetDevice.String(), "invalid max data length", err)
		}
	}
	info := &DeviceInfo{
		ProductID:       resp.ProductID,
		Serial:          resp.Serial,
		ProtocolVersion: int(p[1]),
		OperatingMode:   OperatingMode(p[2]),
		MaxDataLength:   maxLen,
	}

	d.mu.Lock()
	d.info = info
	d.mu.Unlock()
	return info, nil
}

// GetCommandList returns the commands the device supports.
func (d *Device) GetCommandList(ctx context.Context) ([]Code, error) {
	resp, err := d.Send(ctx, GetCommandList, nil)
	if err != nil {
		return nil, err
	}
	p := resp.Payload
	if len(p)%2 != 0 {
		return nil, protocol.NewMalformedError(GetCommandList.String(),
			fmt.Sprintf("length should be even, but was %d", len(p)), codec.ErrLength)
	}
	cmds := make([]Code, 0, len(p)/2)
	for i := 0; i < len(p); i += 2 {
		n, err := codec.Merge14(p[i : i+2])
		if err != nil {
			return nil, protocol.NewMalformedError(GetCommandList.String(), "invalid command entry", err)
		}
		cmds = append(cmds, Code(n))
	}
	return cmds, nil
}

// InfoEntry is one RetInfoList entry.
type InfoEntry struct {
	Type      InfoType
	MaxLength int // zero for read-only strings
}

// GetInfoList returns the info strings the device exposes.
func (d *Device) GetInfoList(ctx context.Context) ([]InfoEntry, error) {
	resp, err := d.Send(ctx, GetInfoList, nil)
	if err != nil {
		return nil, err
	}
	p := resp.Payload
	if len(p)%2 != 0 {
		return nil, protocol.NewMalformedError(GetInfoList.String(),
			fmt.Sprintf("length should be even, but was %d", len(p)), codec.ErrLength)
	}
	entries := make([]InfoEntry, 0, len(p)/2)
	for i := 0; i < len(p); i += 2 {
		entries = append(entries, InfoEntry{Type: InfoType(p[i]), MaxLength: int(p[i+1])})
	}
	return entries, nil
}

// GetInfo reads one info string.
func (d *Device) GetInfo(ctx context.Context, info InfoType) (string, error) {
	resp, err := d.Send(ctx, GetInfo, []byte{byte(info)}, d.quick())
	if err != nil {
		return "", err
	}
	p := resp.Payload
	if len(p) == 0 {
		return "", protocol.NewMalformedError(GetInfo.String(), "empty RetSetInfo payload", codec.ErrLength)
	}
	if InfoType(p[0]) != info {
		return "", protocol.NewMalformedError(GetInfo.String(),
			fmt.Sprintf("answer is for %s, want %s", InfoType(p[0]), info), nil)
	}
	return string(p[1:]), nil
}

// SetInfo writes a writable info string such as the device name. Only
// 7-bit ASCII is accepted.
func (d *Device) SetInfo(ctx context.Context, info InfoType, value string) error {
	data := make([]byte, 0, len(value)+1)
	data = append(data, byte(info))
	data = append(data, value...)
	if err := protocol.CheckData(data[1:]); err != nil {
		return protocol.NewEncodingError(RetSetInfo.String(), fmt.Errorf("info string must be ASCII: %w", err))
	}
	_, err := d.Send(ctx, RetSetInfo, data)
	return err
}

// GetAllInfo reads every info string listed by GetInfoList.
func (d *Device) GetAllInfo(ctx context.Context) (map[InfoType]string, error) {
	entries, err := d.GetInfoList(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[InfoType]string, len(entries))
	for _, e := range entries {
		s, err := d.GetInfo(ctx, e.Type)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Type, err)
		}
		out[e.Type] = s
	}
	return out, nil
}
