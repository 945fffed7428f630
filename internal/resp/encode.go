package resp

import (
	"fmt"
	"strings"
)

// Encode serializes a Frame to its canonical RESP wire form.
func Encode(f Frame) []byte {
	switch f.Kind {
	case KindSimpleString:
		return []byte("+" + f.Str + "\r\n")
	case KindBulkString:
		if f.Null {
			return NullBulkBytes
		}
		return []byte(fmt.Sprintf("$%d\r\n%s\r\n", len(f.Str), f.Str))
	case KindArray:
		var b strings.Builder
		fmt.Fprintf(&b, "*%d\r\n", len(f.Items))
		for _, item := range f.Items {
			b.Write(Encode(item))
		}
		return []byte(b.String())
	default:
		return nil
	}
}

// Fixed byte-literal replies. These must be emitted bit-for-bit, so they
// are kept as literals rather than built through Encode.
var (
	OKBytes       = []byte("+OK\r\n")
	PongBytes     = []byte("+PONG\r\n")
	NullBulkBytes = []byte("$-1\r\n")

	// OutgoingPing is the Array-encoded PING a replica sends to its master.
	OutgoingPing = []byte("*1\r\n$4\r\nPING\r\n")
)

// FullResync encodes the master's reply to a PSYNC requesting full sync:
// "+FULLRESYNC <replid> <offset>\r\n".
func FullResync(replicationID string, offset int) []byte {
	return []byte(fmt.Sprintf("+FULLRESYNC %s %d\r\n", replicationID, offset))
}

// OutgoingPsync encodes the replica's "PSYNC <replid> <offset>" request.
func OutgoingPsync(replicationID string, offset int) []byte {
	return Encode(BulkStringArray("PSYNC", replicationID, fmt.Sprintf("%d", offset)))
}

// OutgoingReplconf encodes a "REPLCONF <name> <value>" request as a
// three-element array of bulk strings. name and value are sent as
// given; they are not split on whitespace.
func OutgoingReplconf(name, value string) []byte {
	return Encode(BulkStringArray("REPLCONF", name, value))
}

// EmptyRDB is the empty RDB snapshot blob, decoded from its hex form.
// No command in the core sends it: the reply to PSYNC is the FULLRESYNC
// line alone. The core never parses or produces other RDB content.
var EmptyRDB = mustDecodeHexRDB("524544495330303131fa0972656469732d76657205372e322e30fa0a72656469732d62697473c040fa056374696d65c26d08bc65fa08757365642d6d656d0cb0c10000fa08616f662d62617365c000fff06e3bfec0ff5aa2")

func mustDecodeHexRDB(hexStr string) []byte {
	out := make([]byte, len(hexStr)/2)
	for i := range out {
		hi := hexDigit(hexStr[i*2])
		lo := hexDigit(hexStr[i*2+1])
		out[i] = hi<<4 | lo
	}
	return out
}

func hexDigit(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}
