package notifier

// EncodeRequest renders the notification request:
//
//	GET http://<basePath><requestURI> HTTP/1.1\r\n
//	Host: <hostHeader>\r\n
//	\r\n
//
// Parts are concatenated verbatim. Collectors rely on the literal "http://"
// prefix, so nothing is escaped or normalized.
func EncodeRequest(basePath, requestURI, hostHeader string) []byte {
	const (
		prefix = "GET http://"
		proto  = " HTTP/1.1\r\n"
		host   = "Host: "
		end    = "\r\n\r\n"
	)

	buf := make([]byte, 0, len(prefix)+len(basePath)+len(requestURI)+len(proto)+len(host)+len(hostHeader)+len(end))
	buf = append(buf, prefix...)
	buf = append(buf, basePath...)
	buf = append(buf, requestURI...)
	buf = append(buf, proto...)
	buf = append(buf, host...)
	buf = append(buf, hostHeader...)
	buf = append(buf, end...)
	return buf
}
