// Package wire defines the binary frame format spoken on both ZeroMQ
// channels and the Task/Result record types the frames carry.
//
// Inbound task frames are exactly 12 bytes (int32 id, float32 load,
// int32 uptime, little-endian); outbound result frames are exactly 8 bytes
// (int32 id, float32 score). A single 0xFF byte marks end of stream in
// either direction. Anything else is a malformed frame.
//
// The codec is the only place frame sizes and byte order are known; the
// pipeline stages work purely with decoded records.
package wire
