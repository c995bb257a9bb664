package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/pkg/apperror"
)

const maxJSONBody = 1 << 20

var errBadBody = errors.New("invalid request body")

// pathID parses the {id} route variable
func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil || id == 0 {
		return 0, apperror.Validation("id", "The id must be a positive integer")
	}
	return uint(id), nil
}

// decodeJSON reads a JSON object body into dst. An empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxJSONBody))
	if err != nil {
		return errBadBody
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errBadBody
	}
	return nil
}

func respondBadBody(w http.ResponseWriter) {
	respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
}

// nullableID records whether a JSON id field was present and whether it was null
type nullableID struct {
	domain.OptionalID
}

func (n *nullableID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(bytes.TrimSpace(data)) == "null" {
		n.Value = nil
		return nil
	}
	var id uint
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	n.Value = &id
	return nil
}

// queryParams parses filters from the URL, collecting field errors
type queryParams struct {
	values url.Values
	fields apperror.FieldSet
}

func newQueryParams(r *http.Request) *queryParams {
	return &queryParams{values: r.URL.Query(), fields: apperror.FieldSet{}}
}

func (q *queryParams) str(key string) string {
	return strings.TrimSpace(q.values.Get(key))
}

// boolean accepts true/false/1/0; absent yields nil
func (q *queryParams) boolean(key string) *bool {
	raw := q.str(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		q.fields.Add(key, "The "+key+" field must be true or false")
		return nil
	}
	return &v
}

func (q *queryParams) flag(key string) bool {
	v := q.boolean(key)
	return v != nil && *v
}

func (q *queryParams) id(key string) *uint {
	raw := q.str(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || v == 0 {
		q.fields.Add(key, "The "+key+" must be a positive integer")
		return nil
	}
	id := uint(v)
	return &id
}

func (q *queryParams) oneOf(key string, allowed ...string) string {
	raw := q.str(key)
	if raw == "" {
		return ""
	}
	for _, a := range allowed {
		if raw == a {
			return raw
		}
	}
	q.fields.Add(key, "The selected "+key+" is invalid")
	return ""
}

func (q *queryParams) err() error {
	return q.fields.Err()
}
