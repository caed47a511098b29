// Package command implements the Command protocol spoken by iConnectivity
// interfaces (header F0 00 01 73 7E).
//
// Every request carries a product ID, a serial number, a transaction ID and a
// command code. The Device type wraps a transport.Connection and provides
// one method per supported operation, decoding answers into typed values.
//
// Typical use:
//
//	conn := transport.New(port, protocol.SchemeCommand)
//	dev, err := command.Connect(ctx, conn)
//	if err != nil {
//		return err
//	}
//	meters, err := dev.GetAudioPortMeterValue(ctx, 1, true, true)
package command
