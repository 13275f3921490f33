package driver

import "time"

// decodeTimeDate parses the SAE J1939 TimeDate SPN layout (SPN
// 959-964): byte0 seconds (0.25s/bit), byte1 minutes, byte2 hours,
// byte3 month, byte4 day (0.25day/bit), byte5 year (offset 1985),
// grounded on device/net/inspector.rs's PGN::TimeDate decode.
func decodeTimeDate(pdu []byte) time.Time {
	second := int(pdu[0]) / 4
	minute := int(pdu[1])
	hour := int(pdu[2])
	month := int(pdu[3])
	day := int(pdu[4]) / 4
	year := 1985 + int(pdu[5])
	return time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
}

// encodeTimeDate is the inverse of decodeTimeDate, used by the request
// responder to answer a TimeDate request (spec §4.1, "Request
// responder").
func encodeTimeDate(t time.Time) [8]byte {
	var pdu [8]byte
	pdu[0] = byte(t.Second() * 4)
	pdu[1] = byte(t.Minute())
	pdu[2] = byte(t.Hour())
	pdu[3] = byte(t.Month())
	pdu[4] = byte(t.Day() * 4)
	pdu[5] = byte(t.Year() - 1985)
	pdu[6] = 0xFF
	pdu[7] = 0xFF
	return pdu
}
