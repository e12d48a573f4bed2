package responses

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/zeptools/gw-sqlfixture/db/sqldb"
)

// WriteJSONBytes Write Already Encoded JSON Bytes into the Response
// JSONBytes, err := json.Marshal(payload any)
func WriteJSONBytes(w http.ResponseWriter, HTTPStatusCode int, JSONBytes []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatusCode) // Response Header Sent & Frozen
	if _, err := w.Write(JSONBytes); err != nil {
		log.Printf("[ERROR] Writing JSON to Response: %v", err)
	}
}

// EncodeWriteJSON Encode & Write Payload as JSON to the Response.
// The payload is encoded before the header is sent, so an unencodable payload becomes a 500
func EncodeWriteJSON(w http.ResponseWriter, HTTPStatusCode int, payload any) {
	JSONBytes, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[ERROR] failed to encode JSON payload: %v", err)
		WriteSimpleErrorJSON(w, http.StatusInternalServerError, "failed to encode response")
		return
	}
	WriteJSONBytes(w, HTTPStatusCode, JSONBytes)
}

// WriteSimpleErrorJSON is a helper func same as EncodeWriteJSON
// but wrapping a string message into a simple Message without app logic code
func WriteSimpleErrorJSON(w http.ResponseWriter, HTTPStatusCode int, msg string) {
	payload := Message{Type: "error", Message: msg}
	JSONBytes, err := json.Marshal(payload)
	if err != nil {
		// a Message always encodes
		panic(err)
	}
	WriteJSONBytes(w, HTTPStatusCode, JSONBytes)
}

// WriteErrorJSON writes err with its structured payload when it is a *sqldb.Error
func WriteErrorJSON(w http.ResponseWriter, HTTPStatusCode int, err error) {
	var dbErr *sqldb.Error
	if errors.As(err, &dbErr) {
		EncodeWriteJSON(w, HTTPStatusCode, dbErr)
		return
	}
	WriteSimpleErrorJSON(w, HTTPStatusCode, err.Error())
}

// Message is the payload for errors that carry no database detail
type Message struct {
	Type    string `json:"type"` // "error", etc
	Message string `json:"message"`
}
