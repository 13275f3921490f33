package driver

import "github.com/laixer/glonax/j1939"

// requestFrame builds a J1939 Request PGN frame asking da for pgn,
// grounded on protocol::request in the original j1939 crate (referenced
// throughout driver/net/*.rs, not itself vendored into original_source).
func requestFrame(da, sa uint8, pgn j1939.PGN) j1939.Frame {
	id := j1939.NewIDBuilder(j1939.PGNRequest).Destination(da).Source(sa).Build()
	payload := []byte{
		byte(pgn),
		byte(pgn >> 8),
		byte(pgn >> 16),
	}
	return j1939.NewFrame(id, payload)
}
