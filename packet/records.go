package packet

// ScanRecords walks buf as a tight sequence of length-prefixed records. Each
// record starts with a headerLen-byte header from which bodyLen extracts the
// body length; the record spans headerLen+bodyLen bytes. Scanning stops when
// fewer than headerLen bytes remain or when a record would overrun buf; the
// remainder is discarded. decode is called with each complete record and its
// results are returned in order.
func ScanRecords[T any](buf []byte, headerLen int, bodyLen func(header []byte) int, decode func(record []byte) T) []T {
	var out []T
	if headerLen <= 0 {
		return out
	}
	off := 0
	for len(buf)-off >= headerLen {
		n := bodyLen(buf[off : off+headerLen])
		if n < 0 || n > len(buf)-off-headerLen {
			break
		}
		end := off + headerLen + n
		out = append(out, decode(buf[off:end]))
		off = end
	}
	return out
}
