package quorum

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/quorum/errors"
)

// Genesis file format. Each extension keeps its initial state under its
// own key in app_options.
type Genesis struct {
	AppOptions Options `json:"app_options"`
}

// Options are the app options
// Each extension can look up it's key and parse the json as desired
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	if err := json.Unmarshal([]byte(msg), obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "genesis %s: %s", key, err)
	}
	return nil
}

// SetOptions encodes obj under given key.
func (o Options) SetOptions(key string, obj interface{}) error {
	raw, err := json.Marshal(obj)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "genesis %s: %s", key, err)
	}
	o[key] = raw
	return nil
}

// LoadGenesis tries to load a given file into a Genesis struct
func LoadGenesis(filePath string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "loading genesis file: %s", err)
	}
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "unmarshaling genesis file: %s", err)
	}
	if gen.AppOptions == nil {
		gen.AppOptions = make(Options)
	}
	return &gen, nil
}

// SaveGenesis writes the genesis file, indented for humans.
func SaveGenesis(filePath string, gen *Genesis) error {
	raw, err := json.MarshalIndent(gen, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := ioutil.WriteFile(filePath, raw, 0644); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "write genesis: %s", err)
	}
	return nil
}
