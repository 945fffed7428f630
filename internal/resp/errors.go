package resp

import "errors"

// ErrNeedMoreData is returned by Decode when buf holds a prefix of a
// frame but not the whole thing yet. Callers append more bytes from the
// socket and retry; it is never surfaced to a client.
var ErrNeedMoreData = errors.New("resp: need more data")

// ErrInvalidFrame is the umbrella for every other decode failure:
// invalid UTF-8 in a header line, an unparsable length integer, a bulk
// string payload not followed by "\r\n", or an invalid type tag. A
// missing header line or a short payload is ErrNeedMoreData instead.
var ErrInvalidFrame = errors.New("resp: invalid frame")
