package outputs

import (
	"runtime"
	"strconv"
	"strings"
)

// goroutineID parses the current goroutine id from the runtime stack header.
// It returns 0 when the header cannot be parsed.
func goroutineID() uint64 {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]
	str := strings.TrimPrefix(string(buf), "goroutine ")
	if space := strings.IndexByte(str, ' '); space > 0 {
		if id, err := strconv.ParseUint(str[:space], 10, 64); err == nil {
			return id
		}
	}
	return 0
}
