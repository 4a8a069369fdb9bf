// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/pool/reverts"
)

var logger = log.WithContext("pkg", "api")

// JSONContentType is set on every JSON response.
const JSONContentType = "application/json; charset=utf-8"

// statusError carries the http status an error is responded with.
type statusError struct {
	error
	status int
}

func (e *statusError) Unwrap() error { return e.error }

func withStatus(err error, status int) error {
	return &statusError{err, status}
}

func BadRequest(cause error) error { return withStatus(cause, http.StatusBadRequest) }
func NotFound(cause error) error   { return withStatus(cause, http.StatusNotFound) }

// PoolError maps a pool revert to its http status by class. Errors that are not
// reverts end up as internal errors.
func PoolError(err error) error {
	switch reverts.ClassOf(err) {
	case reverts.ClassValidation, reverts.ClassFunds, reverts.ClassInvariant:
		return BadRequest(err)
	case reverts.ClassConflict:
		return withStatus(err, http.StatusConflict)
	case reverts.ClassExternal:
		return withStatus(err, http.StatusBadGateway)
	}
	return err
}

// HandlerFunc is a http handler returning an error. The error text is written
// back with its status, or 500 when it has none.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc adapts f to http.HandlerFunc.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		status := http.StatusInternalServerError
		var se *statusError
		if errors.As(err, &se) {
			status = se.status
		} else {
			logger.Warn("request failed", "uri", r.URL.String(), "err", err)
		}
		http.Error(w, err.Error(), status)
	}
}

// ParseJSON decodes a JSON object, rejecting unknown fields.
func ParseJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// WriteJSON responds obj in JSON encoding.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}
