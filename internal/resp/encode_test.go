package resp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name     string
		input    Frame
		expected string
	}{
		{"simple string", SimpleString("OK"), "+OK\r\n"},
		{"bulk string", BulkString("hello"), "$5\r\nhello\r\n"},
		{"null bulk string", NullBulkString(), "$-1\r\n"},
		{"array", Array(BulkString("GET"), BulkString("foo")), "*2\r\n$3\r\nGET\r\n$3\r\nfoo\r\n"},
		{"empty array", Array(), "*0\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(Encode(tt.input)))
		})
	}
}

func TestFullResync(t *testing.T) {
	assert.Equal(t, "+FULLRESYNC abc123 0\r\n", string(FullResync("abc123", 0)))
}

func TestOutgoingPsync(t *testing.T) {
	assert.Equal(t, "*3\r\n$5\r\nPSYNC\r\n$1\r\n?\r\n$2\r\n-1\r\n", string(OutgoingPsync("?", -1)))
}

func TestOutgoingReplconf(t *testing.T) {
	assert.Equal(t, "*3\r\n$8\r\nREPLCONF\r\n$4\r\ncapa\r\n$6\r\npsync2\r\n", string(OutgoingReplconf("capa", "psync2")))
}

func TestEmptyRDB_Length(t *testing.T) {
	assert.Len(t, EmptyRDB, 88)
	assert.Equal(t, []byte("REDIS0011"), EmptyRDB[:9])
}
