// Package catalog is the allow-list of models a server answers for.
package catalog

import (
	"errors"
	"fmt"
	"slices"

	"github.com/papercomputeco/llmock/pkg/llm"
)

// DefaultOwner is used for models configured without an owner.
const DefaultOwner = "llmock"

// ObjectModel and ObjectList are the object names of the models API.
const (
	ObjectModel = "model"
	ObjectList  = "list"
)

// Model is one entry of the catalog, shaped like the models API object.
type Model struct {
	ID      string `json:"id" yaml:"id" toml:"id" mapstructure:"id"`
	Object  string `json:"object" yaml:"-" toml:"-" mapstructure:"-"`
	Created int64  `json:"created" yaml:"created" toml:"created" mapstructure:"created"`
	OwnedBy string `json:"owned_by" yaml:"owned_by" toml:"owned_by" mapstructure:"owned_by"`
}

// List is the body of GET /v1/models.
type List struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}

// ErrModelNotFound matches every *ModelNotFoundError.
var ErrModelNotFound = errors.New("model not found")

// ModelNotFoundError reports a model missing from a non-empty catalog.
type ModelNotFoundError struct {
	ID string
}

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("The model '%s' does not exist", e.ID)
}

func (e *ModelNotFoundError) Is(target error) bool {
	return target == ErrModelNotFound
}

// Response renders the error as the 404 payload of the API.
func (e *ModelNotFoundError) Response() llm.ErrorResponse {
	param, code := "model", llm.CodeModelNotFound
	resp := llm.NewErrorResponse(llm.ErrorTypeInvalidRequest, e.Error())
	resp.Error.Param = &param
	resp.Error.Code = &code
	return resp
}

// Catalog is an immutable, ordered set of models. An empty catalog accepts
// any model ID.
type Catalog struct {
	models []Model
	index  map[string]int
}

// New builds a catalog. Later duplicates of an ID are dropped and missing
// owners are defaulted.
func New(models []Model) *Catalog {
	c := &Catalog{index: make(map[string]int, len(models))}
	for _, m := range models {
		if m.ID == "" {
			continue
		}
		if _, dup := c.index[m.ID]; dup {
			continue
		}
		m.Object = ObjectModel
		if m.OwnedBy == "" {
			m.OwnedBy = DefaultOwner
		}
		c.index[m.ID] = len(c.models)
		c.models = append(c.models, m)
	}
	return c
}

// Len is the number of models.
func (c *Catalog) Len() int {
	return len(c.models)
}

// IDs returns model IDs in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.models))
	for i, m := range c.models {
		ids[i] = m.ID
	}
	return ids
}

// Lookup admits a requested model. Every ID passes an empty catalog.
func (c *Catalog) Lookup(id string) error {
	if len(c.models) == 0 {
		return nil
	}
	if _, ok := c.index[id]; !ok {
		return &ModelNotFoundError{ID: id}
	}
	return nil
}

// Get returns a configured model. Unlike Lookup it fails for an empty
// catalog, which has no models to describe.
func (c *Catalog) Get(id string) (Model, error) {
	i, ok := c.index[id]
	if !ok {
		return Model{}, &ModelNotFoundError{ID: id}
	}
	return c.models[i], nil
}

// List returns the models API list object.
func (c *Catalog) List() List {
	return List{Object: ObjectList, Data: slices.Clone(c.models)}
}
