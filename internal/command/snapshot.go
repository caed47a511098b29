package command

import (
	"context"
	"fmt"

	"github.com/muurk/iconn/internal/codec"
	"github.com/muurk/iconn/internal/protocol"
)

// SnapshotList is the RetSetSnapshotList answer.
type SnapshotList struct {
	CommandVersion int
	Type           SnapshotType
	LoopEnabled    bool
	LastSnapshotID int
	LastListIndex  int
	Snapshots      []int
}

// GetSnapshotList reads a snapshot list.
func (d *Device) GetSnapshotList(ctx context.Context, t SnapshotType) (*SnapshotList, error) {
	resp, err := d.Send(ctx, GetSnapshotList, []byte{byte(t)})
	if err != nil {
		return nil, err
	}
	p := resp.Payload
	if len(p) < 6 {
		return nil, protocol.NewMalformedError(GetSnapshotList.String(),
			fmt.Sprintf("snapshot list has %d bytes, want at least 6", len(p)), codec.ErrLength)
	}
	count := int(p[5])
	if len(p) < 6+count {
		return nil, protocol.NewMalformedError(GetSnapshotList.String(),
			fmt.Sprintf("snapshot list declares %d entries, payload has %d", count, len(p)-6), codec.ErrLength)
	}

	list := &SnapshotList{
		CommandVersion: int(p[0]),
		Type:           SnapshotType(p[1]),
		LoopEnabled:    p[2]&0x01 != 0,
		LastSnapshotID: int(p[3]),
		LastListIndex:  int(p[4]),
		Snapshots:      make([]int, count),
	}
	for i := range list.Snapshots {
		list.Snapshots[i] = int(p[6+i])
	}
	return list, nil
}

// ApplySnapshot recalls a snapshot.
func (d *Device) ApplySnapshot(ctx context.Context, t SnapshotType, id int) error {
	if id < 0 || id > 0x7F {
		return protocol.NewEncodingError(ApplySnapshot.String(), fmt.Errorf("%w: snapshot ID %d", codec.ErrOutOfRange, id))
	}
	_, err := d.Send(ctx, ApplySnapshot, []byte{0x01, byte(t), byte(id)})
	return err
}

// GetActiveScene returns the scene most recently applied.
func (d *Device) GetActiveScene(ctx context.Context) (int, error) {
	list, err := d.GetSnapshotList(ctx, SnapshotScene)
	if err != nil {
		return 0, err
	}
	return list.LastSnapshotID, nil
}

// SetActiveScene switches to the given scene (1 or 2 on current hardware).
func (d *Device) SetActiveScene(ctx context.Context, scene int) error {
	if scene < 1 {
		return protocol.NewEncodingError(ApplySnapshot.String(), fmt.Errorf("%w: scene %d", codec.ErrOutOfRange, scene))
	}
	return d.ApplySnapshot(ctx, SnapshotScene, scene)
}
