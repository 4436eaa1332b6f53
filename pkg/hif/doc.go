// Package hif implements the host interface protocol used to exchange
// tagged typed vectors with a microcontroller.
package hif

// A transfer moves one frame in one direction:
//
//	sender                               receiver
//	  marker fmt tag count(4)  ------->
//	                           <-------  'a' (ready)
//	  payload in 8-byte chunks ------->
//	  checksum(2)              ------->
//	                           <-------  '^' (ack)
//
// The host sends frames starting with '<' and receives frames starting
// with '>'. Multi-byte fields are little-endian. The format byte carries
// flag bits 0x30 which are ignored by the receiver.
//
// The checksum is an additive 16-bit sum of payload bytes seeded with
// 0x1234. It detects most single byte corruptions but not reordering or
// edits that cancel each other out, and it is not a cryptographic check.
//
// There are no sequence numbers, so only one transfer may be in flight.
// A Link is owned by a single goroutine and is not safe for concurrent use.
