// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package rest

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/ridemeet/ridemeet/core"
)

// readAndValidate reads the request body, validates it against the given
// schema and unmarshals it into out.
func (b *Backend) readAndValidate(r *http.Request, schemaID string, out interface{}) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return core.BadRequestError("cannot read request body")
	}
	if len(body) == 0 {
		return core.BadRequestError("missing request body")
	}
	if err := b.validator.ValidateBytes(body, schemaID); err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return core.BadRequestError("invalid json: %s", err)
	}
	return nil
}

// pathID parses the named integer path variable
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, core.BadRequestError("invalid %s", name)
	}
	return id, nil
}

func queryBool(r *http.Request, name string) bool {
	return r.URL.Query().Get(name) == "true"
}

func queryInt(r *http.Request, name string) (int64, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, core.BadRequestError("invalid %s", name)
	}
	return id, nil
}

func queryFloat(r *http.Request, name string) (float64, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, core.BadRequestError("invalid %s", name)
	}
	return f, nil
}

func queryTime(r *http.Request, name string) (*time.Time, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, core.BadRequestError("invalid %s, want RFC 3339", name)
	}
	return &t, nil
}
