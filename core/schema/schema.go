// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

/*Package schema validates request bodies against the embedded JSON schemas.

Each schema file under schemas/ declares an $id; routes validate against
that id. All violations of a document are collected into a single bad
request error, so the client sees everything that is wrong at once.
*/
package schema

import (
	"embed"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/xeipuuv/gojsonschema"

	"github.com/ridemeet/ridemeet/core"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Validator is a utility to validate JSON documents against the request schemas
type Validator struct {
	schemaValidators map[string]*gojsonschema.Schema
}

// MustNewValidator compiles all embedded request schemas. It panics on a
// broken schema, which is a programming error caught at startup.
func MustNewValidator() *Validator {
	files, err := schemaFS.ReadDir("schemas")
	if err != nil {
		panic(fmt.Errorf("cannot read embedded schemas: %w", err))
	}

	type schemaHeader struct {
		ID string `json:"$id"`
	}

	validator := Validator{schemaValidators: make(map[string]*gojsonschema.Schema)}
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		str, err := schemaFS.ReadFile("schemas/" + f.Name())
		if err != nil {
			panic(fmt.Errorf("cannot read schema '%s': %w", f.Name(), err))
		}
		header := schemaHeader{}
		if err := json.Unmarshal(str, &header); err != nil {
			panic(fmt.Errorf("parse error '%v' in schema '%s'", err, f.Name()))
		}
		if header.ID == "" {
			panic(fmt.Errorf("schema '%s' does not contain $id", f.Name()))
		}
		compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(str))
		if err != nil {
			panic(fmt.Errorf("cannot compile schema %s: %w", header.ID, err))
		}
		validator.schemaValidators[header.ID] = compiled
	}
	return &validator
}

// HasSchema returns true if schemaID is known
func (v *Validator) HasSchema(schemaID string) bool {
	_, ok := v.schemaValidators[schemaID]
	return ok
}

// ValidateBytes validates the given json document against schemaID. A schema
// violation yields a bad request error listing all violations.
func (v *Validator) ValidateBytes(document []byte, schemaID string) error {
	return v.validate(gojsonschema.NewBytesLoader(document), schemaID)
}

// ValidateStruct validates the given object against schemaID
func (v *Validator) ValidateStruct(object interface{}, schemaID string) error {
	return v.validate(gojsonschema.NewGoLoader(object), schemaID)
}

func (v *Validator) validate(loader gojsonschema.JSONLoader, schemaID string) error {
	schema, ok := v.schemaValidators[schemaID]
	if !ok {
		return fmt.Errorf("there is no schema %s", schemaID)
	}

	result, err := schema.Validate(loader)
	if err != nil {
		return core.BadRequestError("cannot validate with schema %s: %s", schemaID, err)
	}

	if !result.Valid() {
		violations := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			violations = append(violations, e.String())
		}
		return core.BadRequestError("%s", strings.Join(violations, "; "))
	}
	return nil
}
