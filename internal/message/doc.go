// Package message implements the Message/DataClass protocol spoken by newer
// iConnectivity interfaces (header F0 00 01 73 7D).
//
// A message is a class, a data class and a list of data blocks (see package
// datablock). Frames additionally carry a session ID chosen by the host.
// Session sends messages over a transport.Connection and decodes the answers.
package message
