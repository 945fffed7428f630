package commands

import (
	"strconv"
	"strings"
	"time"

	"github.com/florian-trehaut/redis-server/internal/resp"
)

// ParseError is the closed taxonomy of reasons a Frame fails to map to
// a Command: invalid/unknown command, empty command, missing key,
// missing key/value for SET, missing TTL argument, malformed TTL
// integer, missing INFO section, missing/malformed REPLCONF arguments,
// missing/malformed PSYNC arguments.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string { return e.Reason }

func parseErr(reason string) error { return &ParseError{Reason: reason} }

// Parse maps a decoded Frame to a Command. Only Array frames (command
// name plus bulk-string arguments) and SimpleString PING frames are
// accepted; anything else is a parse error.
func Parse(frame resp.Frame) (Command, error) {
	switch frame.Kind {
	case resp.KindArray:
		return parseArray(frame.Items)
	case resp.KindSimpleString:
		if strings.EqualFold(frame.Str, "PING") {
			return Ping(), nil
		}
		return Command{}, parseErr("unsupported simple string command " + frame.Str)
	default:
		return Command{}, parseErr("bulk string frames are not supported in command position")
	}
}

func parseArray(items []resp.Frame) (Command, error) {
	if len(items) == 0 {
		return Command{}, parseErr("empty command")
	}

	name := strings.ToUpper(items[0].Str)
	args := items[1:]

	switch name {
	case "PING":
		return Ping(), nil
	case "ECHO":
		if len(args) == 0 {
			return Command{}, parseErr("ECHO requires at least one argument")
		}
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.Str
		}
		return Command{Kind: KindEcho, Args: parts}, nil
	case "GET":
		if len(args) != 1 {
			return Command{}, parseErr("GET requires exactly one key argument")
		}
		return Command{Kind: KindGet, Key: args[0].Str}, nil
	case "SET":
		return parseSet(args)
	case "INFO":
		if len(args) != 1 {
			return Command{}, parseErr("INFO requires a section argument")
		}
		return Command{Kind: KindInfo, Section: args[0].Str}, nil
	case "REPLCONF":
		if len(args) != 2 {
			return Command{}, parseErr("REPLCONF requires a name and a value")
		}
		return Replconf(args[0].Str, args[1].Str), nil
	case "PSYNC":
		if len(args) != 2 {
			return Command{}, parseErr("PSYNC requires a replication id and an offset")
		}
		offset, err := strconv.Atoi(args[1].Str)
		if err != nil {
			return Command{}, parseErr("malformed PSYNC offset " + args[1].Str)
		}
		return Psync(args[0].Str, offset), nil
	default:
		return Command{}, parseErr("unknown command " + name)
	}
}

func parseSet(args []resp.Frame) (Command, error) {
	if len(args) != 2 && len(args) != 4 {
		return Command{}, parseErr("SET requires a key and a value, and optionally PX <ms>")
	}

	cmd := Command{Kind: KindSet, Key: args[0].Str, Value: args[1].Str}
	if len(args) == 2 {
		return cmd, nil
	}

	option := strings.ToUpper(args[2].Str)
	if option != "PX" {
		return Command{}, parseErr("unsupported SET option " + option)
	}

	ms, err := strconv.ParseUint(args[3].Str, 10, 63)
	if err != nil {
		return Command{}, parseErr("malformed SET PX milliseconds " + args[3].Str)
	}
	ttl := time.Duration(ms) * time.Millisecond
	cmd.TTL = &ttl
	return cmd, nil
}
