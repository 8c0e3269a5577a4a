package jsonerr

import (
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Error writes structured error information to w using JSON encoding.
// The given status code is used if it is non-zero, otherwise it
// is set to 500.
//
// If err is nil it writes sets the status to 200 OK and writes:
//
//	{"code": "ok", "message": ""}
func Error(w http.ResponseWriter, err error, code int) {
	if code == 0 {
		code = http.StatusInternalServerError
	}

	type Err struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}

	if err == nil {
		Write(w, &Err{Code: "ok"}, http.StatusOK)
		return
	}
	Write(w, &Err{Code: codeFor(code), Message: err.Error()}, code)
}

// Write writes v to w as indented JSON with the given status code.
func Write(w http.ResponseWriter, v any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		code = http.StatusInternalServerError
		data = []byte(`{"code": "internal_server_error", "message": "unable to encode response"}`)
	}
	w.WriteHeader(code)
	_, _ = w.Write(append(data, '\n'))
}

// codeFor turns a status code into a snake_case error code,
// e.g. 400 becomes "bad_request".
func codeFor(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "unknown"
	}
	text = strings.ToLower(text)
	text = strings.ReplaceAll(text, "-", "_")
	text = strings.ReplaceAll(text, "'", "")
	return strings.ReplaceAll(text, " ", "_")
}
