package logging

import (
	"encoding/hex"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const traceparentHeader = "traceparent"

// Cloud Logging special fields.
const (
	fieldTrace        = "logging.googleapis.com/trace"
	fieldSpanID       = "logging.googleapis.com/spanId"
	fieldTraceSampled = "logging.googleapis.com/trace_sampled"
	fieldRequestID    = "requestId"
)

// traceContext holds the parts of a W3C traceparent header that Cloud Logging
// correlates on.
type traceContext struct {
	traceID string
	spanID  string
	sampled bool
}

// parseTraceparent parses "{version}-{trace-id}-{parent-id}-{flags}". Version
// ff and all-zero IDs are invalid. Versions above 00 may carry extra fields.
func parseTraceparent(header string) (traceContext, bool) {
	parts := strings.Split(strings.TrimSpace(header), "-")
	if len(parts) < 4 {
		return traceContext{}, false
	}
	version, traceID, spanID, flags := parts[0], parts[1], parts[2], parts[3]
	if !isHex(version, 2) || strings.EqualFold(version, "ff") {
		return traceContext{}, false
	}
	if version == "00" && len(parts) != 4 {
		return traceContext{}, false
	}
	if !isHex(traceID, 32) || isZero(traceID) {
		return traceContext{}, false
	}
	if !isHex(spanID, 16) || isZero(spanID) {
		return traceContext{}, false
	}
	if !isHex(flags, 2) {
		return traceContext{}, false
	}
	b, _ := hex.DecodeString(flags)
	return traceContext{
		traceID: strings.ToLower(traceID),
		spanID:  strings.ToLower(spanID),
		sampled: b[0]&0x01 == 0x01,
	}, true
}

func (tc traceContext) resource(projectID string) string {
	return "projects/" + projectID + "/traces/" + tc.traceID
}

func (tc traceContext) fields(projectID string) []zap.Field {
	return []zap.Field{
		zap.String(fieldTrace, tc.resource(projectID)),
		zap.String(fieldSpanID, tc.spanID),
		zap.Bool(fieldTraceSampled, tc.sampled),
	}
}

// correlate returns the correlation ID for a request and the fields that every
// log entry written for it carries. The trace resource wins over the request
// ID when a project is known and the traceparent header is valid.
func correlate(header, projectID, requestID string) (string, []zap.Field) {
	var (
		id     string
		fields []zap.Field
	)
	if projectID != "" {
		if tc, ok := parseTraceparent(header); ok {
			id = tc.resource(projectID)
			fields = tc.fields(projectID)
		}
	}
	if requestID != "" {
		fields = append(fields, zap.String(fieldRequestID, requestID))
		if id == "" {
			id = requestID
		}
	}
	return id, fields
}

func isHex(s string, n int) bool {
	if len(s) != n {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

func isZero(s string) bool {
	return strings.Trim(s, "0") == ""
}

// projectID resolves the Google Cloud project once per process. Tests replace it.
var projectID = sync.OnceValue(func() string {
	for _, key := range []string{"GOOGLE_CLOUD_PROJECT", "GCP_PROJECT", "GCLOUD_PROJECT", "PROJECT_ID"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
})
