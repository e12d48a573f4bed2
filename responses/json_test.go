package responses

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zeptools/gw-sqlfixture/db/sqldb"
)

func TestEncodeWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	EncodeWriteJSON(rec, http.StatusOK, sqldb.RecordSet{{"NUMBER": 1}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `[{"NUMBER":1}]`, rec.Body.String())

	rec = httptest.NewRecorder()
	EncodeWriteJSON(rec, http.StatusOK, map[string]any{"bad": make(chan int)})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"type":"error","message":"failed to encode response"}`, rec.Body.String())
}

func TestWriteErrorJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	dbErr := &sqldb.Error{Kind: sqldb.KindQuery, Code: sqldb.CodeRequest, Number: 208, Message: "Invalid object name 'non_existing_table'."}
	WriteErrorJSON(rec, http.StatusInternalServerError, fmt.Errorf("wrapped: %w", dbErr))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"name":"QueryError","code":"EREQUEST","number":208,"message":"Invalid object name 'non_existing_table'."}`, rec.Body.String())

	rec = httptest.NewRecorder()
	WriteErrorJSON(rec, http.StatusInternalServerError, errors.New("plain"))
	assert.JSONEq(t, `{"type":"error","message":"plain"}`, rec.Body.String())
}
