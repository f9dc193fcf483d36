// Package protocol holds the byte-level plumbing of the command channel.
// There is no framing: each byte the host sends is one command, and the
// device answers with an echo byte or the help text.
package protocol

import "gpiocdc/core"

// Version represents the gpiocdc firmware and tooling version
const Version = "0.1.0"

// Command characters, re-exported for host tools
const (
	CmdHigh         = core.OpHigh
	CmdLow          = core.OpLow
	CmdPulse        = core.OpPulseLowHigh
	CmdPulseInv     = core.OpPulseHighLow
	CmdLongPulse    = core.OpLongLowHigh
	CmdLongPulseInv = core.OpLongHighLow
	CmdHelp         = core.OpHelp

	// EchoUnknown answers any byte that is neither a selector nor an operation
	EchoUnknown = core.EchoUnknown
)

// Buffer sizing
const (
	RxBufferSize = 256 // receive FIFO, one slot reserved
	TxQueueDepth = 64  // queued writes before Ready reports false
	ReadChunk    = 64  // USB full-speed bulk packet size
)
