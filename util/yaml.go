package util

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ReadYAMLInto reads data for the given io.ReadCloser - until it hits an error
// or reaches EOF - and attempts to unmarshal the data read into the given
// interface.
func ReadYAMLInto(r io.ReadCloser, data any) error {
	defer r.Close()
	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return UnmarshalYAMLStrict(raw, data)
}

// ReadFromYAMLFile unmarshals the file at fn into data, rejecting keys
// that data does not declare.
func ReadFromYAMLFile(fn string, data any) error {
	if _, err := os.Stat(fn); os.IsNotExist(err) {
		return errors.Errorf("file '%s' does not exist", fn)
	}

	file, err := os.Open(fn)
	if err != nil {
		return errors.Wrapf(err, "problem opening file %s", fn)
	}

	return errors.Wrap(ReadYAMLInto(file, data), "problem reading yaml")
}

// UnmarshalYAMLStrict unmarshals in, failing on unknown and duplicated
// keys. An empty document leaves out unchanged.
func UnmarshalYAMLStrict(in []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(in))
	dec.KnownFields(true)

	if err := dec.Decode(out); err != nil && err != io.EOF {
		return err
	}
	return nil
}
