package router

import "net/http"

// trackingWriter records whether and with which status a response was started.
type trackingWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (tw *trackingWriter) WriteHeader(code int) {
	if !tw.wroteHeader {
		tw.status = code
		tw.wroteHeader = true
	}
	tw.ResponseWriter.WriteHeader(code)
}

func (tw *trackingWriter) Write(b []byte) (int, error) {
	if !tw.wroteHeader {
		tw.status = http.StatusOK
		tw.wroteHeader = true
	}
	return tw.ResponseWriter.Write(b)
}

func (tw *trackingWriter) Unwrap() http.ResponseWriter { return tw.ResponseWriter }

func (tw *trackingWriter) writtenStatus() (int, bool) { return tw.status, tw.wroteHeader }

// WrittenStatus reports the status already sent on w, if w is (or wraps) a
// writer handed out by the router.
func WrittenStatus(w http.ResponseWriter) (int, bool) {
	for w != nil {
		if tw, ok := w.(interface{ writtenStatus() (int, bool) }); ok {
			return tw.writtenStatus()
		}
		u, ok := w.(interface{ Unwrap() http.ResponseWriter })
		if !ok {
			return 0, false
		}
		w = u.Unwrap()
	}
	return 0, false
}
